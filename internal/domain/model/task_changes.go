package model

import (
	"time"

	"todo-api/internal/domain/entity"
)

// TaskChanges is a validated partial update. Fields that are not Set are
// left untouched; a Null optional field is cleared.
type TaskChanges struct {
	Title       Optional[string]
	Description Optional[string]
	Category    Optional[string]
	Priority    Optional[entity.Priority]
	IsCompleted Optional[bool]
	DueDate     Optional[time.Time]
}

// Apply copies every Set field onto task. Timestamps are not touched.
func (c TaskChanges) Apply(task *entity.Task) {
	if c.Title.HasValue() {
		task.Title = c.Title.Value
	}
	if c.Description.Set {
		task.Description = c.Description.Ptr()
	}
	if c.Category.Set {
		task.Category = c.Category.Ptr()
	}
	if c.Priority.HasValue() {
		task.Priority = c.Priority.Value
	}
	if c.IsCompleted.HasValue() {
		task.IsCompleted = c.IsCompleted.Value
	}
	if c.DueDate.Set {
		task.DueDate = c.DueDate.Ptr()
	}
}
