package task

import (
	"strings"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
	"todo-api/pkg/msg"
)

// ValidationError reports a payload rejected before it reaches the store
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// dueDateLayouts are tried in order. Layouts without a zone are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDueDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// toChanges validates the fields shared by create and update
func toChanges(fields model.TaskFields) (model.TaskChanges, error) {
	changes := model.TaskChanges{
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		IsCompleted: fields.IsCompleted,
	}

	if fields.Title.Set && fields.Title.Null {
		return changes, notNullable("title")
	}
	if fields.Title.Set && fields.Title.Value == "" {
		return changes, &ValidationError{Field: "title", Message: msg.GetMessage("task.error.title-empty")}
	}

	if fields.Priority.Set {
		if fields.Priority.Null {
			return changes, notNullable("priority")
		}
		priority := entity.Priority(fields.Priority.Value)
		if !priority.Valid() {
			return changes, &ValidationError{Field: "priority", Message: msg.GetMessage("task.error.invalid-priority", fields.Priority.Value)}
		}
		changes.Priority = model.Some(priority)
	}

	if fields.IsCompleted.Set && fields.IsCompleted.Null {
		return changes, notNullable("isCompleted")
	}

	if fields.DueDate.Set {
		if fields.DueDate.Null {
			changes.DueDate = model.Null[time.Time]()
		} else {
			dueDate, ok := parseDueDate(fields.DueDate.Value)
			if !ok {
				return changes, &ValidationError{Field: "dueDate", Message: msg.GetMessage("task.error.invalid-due-date", fields.DueDate.Value)}
			}
			changes.DueDate = model.Some(dueDate)
		}
	}

	return changes, nil
}

func notNullable(field string) *ValidationError {
	return &ValidationError{Field: field, Message: msg.GetMessage("task.error.not-nullable", field)}
}
