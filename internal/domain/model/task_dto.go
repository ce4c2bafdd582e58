package model

import "encoding/json"

// TaskFields is the JSON body accepted by the create and update routes.
// Read-only attributes a client may echo back are accepted and discarded.
type TaskFields struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Category    Optional[string] `json:"category"`
	Priority    Optional[string] `json:"priority"`
	IsCompleted Optional[bool]   `json:"isCompleted"`
	DueDate     Optional[string] `json:"dueDate"`

	ID        json.RawMessage `json:"id,omitempty"`
	MongoID   json.RawMessage `json:"_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	Version   json.RawMessage `json:"__v,omitempty"`
}

type CreateTaskDTO struct {
	TaskFields
}

type UpdateTaskDTO struct {
	TaskFields
}
