package db

import (
	"context"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// TaskGateway is the persistent task collection.
type TaskGateway interface {
	// FindAll returns every task in the store's natural order
	FindAll(ctx context.Context) ([]entity.Task, error)

	// Create stores a new task, assigning its id and timestamps
	Create(ctx context.Context, task entity.Task) (*entity.Task, error)

	// UpdateByID applies changes and refreshes updatedAt. It returns nil, nil
	// when no task has the given id.
	UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*entity.Task, error)

	// DeleteByID removes the task. A missing id is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// Migrator is implemented by gateways that can prepare their schema
type Migrator interface {
	Migrate(ctx context.Context) error
}
