package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

type GormTaskGateway struct {
	DB  *gorm.DB
	now func() time.Time
}

var (
	_ TaskGateway = (*GormTaskGateway)(nil)
	_ Migrator    = (*GormTaskGateway)(nil)
)

func NewGormTaskGateway(db *gorm.DB) *GormTaskGateway {
	return &GormTaskGateway{DB: db, now: time.Now}
}

func (gateway *GormTaskGateway) Migrate(ctx context.Context) error {
	if err := gateway.DB.WithContext(ctx).AutoMigrate(&entity.Task{}); err != nil {
		return persistenceError("migrate tasks", err)
	}
	return nil
}

func (gateway *GormTaskGateway) FindAll(ctx context.Context) ([]entity.Task, error) {
	tasks := make([]entity.Task, 0)
	if err := gateway.DB.WithContext(ctx).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, persistenceError("find tasks", err)
	}
	return tasks, nil
}

func (gateway *GormTaskGateway) Create(ctx context.Context, task entity.Task) (*entity.Task, error) {
	prepared, err := prepareNew(task, gateway.now(), sqlPrecision)
	if err != nil {
		return nil, err
	}
	prepared.ID = uuid.NewString()

	if err := gateway.DB.WithContext(ctx).Create(&prepared).Error; err != nil {
		return nil, persistenceError("create task", err)
	}
	return &prepared, nil
}

func (gateway *GormTaskGateway) UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*entity.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, malformedIDError(id)
	}

	var updated *entity.Task
	err := gateway.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task entity.Task
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Where("id = ?", id).
			Take(&task).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return persistenceError("find task "+id, err)
		}

		previous := task.UpdatedAt
		changes.Apply(&task)
		if err := checkConstraints(task); err != nil {
			return err
		}
		normalize(&task, sqlPrecision)
		task.UpdatedAt = nextUpdatedAt(previous, gateway.now(), sqlPrecision)

		// Save would insert the row again if a concurrent delete removed it
		result := tx.Model(&task).Select("*").Updates(&task)
		if result.Error != nil {
			return persistenceError("update task "+id, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		updated = &task
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			return nil, err
		}
		return nil, persistenceError("update task "+id, err)
	}
	return updated, nil
}

func (gateway *GormTaskGateway) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return malformedIDError(id)
	}
	if err := gateway.DB.WithContext(ctx).Where("id = ?", id).Delete(&entity.Task{}).Error; err != nil {
		return persistenceError("delete task "+id, err)
	}
	return nil
}
