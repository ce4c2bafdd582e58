package db

import (
	"fmt"
	"time"

	"todo-api/internal/domain/entity"
)

const (
	sqlPrecision   = time.Microsecond
	mongoPrecision = time.Millisecond
)

// prepareNew fills the documented defaults and the creation timestamps
func prepareNew(task entity.Task, now time.Time, precision time.Duration) (entity.Task, error) {
	if task.Priority == "" {
		task.Priority = entity.DefaultPriority
	}
	if err := checkConstraints(task); err != nil {
		return task, err
	}

	normalize(&task, precision)
	now = now.UTC().Truncate(precision)
	task.CreatedAt = now
	task.UpdatedAt = now
	return task, nil
}

// normalize stores dueDate in UTC at the precision the backend keeps
func normalize(task *entity.Task, precision time.Duration) {
	if task.DueDate != nil {
		dueDate := task.DueDate.UTC().Truncate(precision)
		task.DueDate = &dueDate
	}
}

func checkConstraints(task entity.Task) error {
	if task.Title == "" {
		return fmt.Errorf("%w: %w", ErrPersistence, ErrTitleRequired)
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: %w %q", ErrPersistence, ErrInvalidPriority, task.Priority)
	}
	return nil
}

// nextUpdatedAt never returns a value equal to or before previous, even when
// two writes land within the same clock tick.
func nextUpdatedAt(previous, now time.Time, precision time.Duration) time.Time {
	previous = previous.UTC().Truncate(precision)
	now = now.UTC().Truncate(precision)
	if !now.After(previous) {
		return previous.Add(precision)
	}
	return now
}
