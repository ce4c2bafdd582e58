package db

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence wraps every failure reported by a task gateway
	ErrPersistence = errors.New("persistence error")

	ErrMalformedID     = errors.New("malformed task id")
	ErrTitleRequired   = errors.New("task title is required")
	ErrInvalidPriority = errors.New("invalid task priority")
)

func persistenceError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, operation, err)
}

func malformedIDError(id string) error {
	return fmt.Errorf("%w: %w %q", ErrPersistence, ErrMalformedID, id)
}
