package task

import (
	"context"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

type UseCase interface {
	// FindAll returns every stored task
	FindAll(ctx context.Context) ([]entity.Task, error)

	// Create validates the payload, applies the defaults and stores the task
	Create(ctx context.Context, dto model.CreateTaskDTO) (*entity.Task, error)

	// UpdateByID replaces the fields present in the payload. A missing id yields nil, nil.
	UpdateByID(ctx context.Context, id string, dto model.UpdateTaskDTO) (*entity.Task, error)

	// DeleteByID removes the task whether or not it exists
	DeleteByID(ctx context.Context, id string) error
}
