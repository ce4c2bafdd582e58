package entity

import "time"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is assigned when a task is created without one
const DefaultPriority = PriorityLow

// Valid reports whether p is one of High, Medium or Low
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Priority    Priority   `json:"priority" gorm:"size:6;not null"`
	IsCompleted bool       `json:"isCompleted" gorm:"not null"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"not null;autoUpdateTime:false"`
}

func (Task) TableName() string {
	return "tasks"
}
