package model

import (
	"time"

	"todo-api/internal/domain/entity"
)

type TaskEventType string

const (
	TaskCreated TaskEventType = "task.created"
	TaskUpdated TaskEventType = "task.updated"
	TaskDeleted TaskEventType = "task.deleted"
)

// TaskEvent is published after every successful write
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     string        `json:"taskId"`
	Task       *entity.Task  `json:"task,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
