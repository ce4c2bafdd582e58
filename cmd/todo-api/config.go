package main

import (
	"fmt"

	"todo-api/configs"
	"todo-api/pkg/msg"
	"todo-api/pkg/resource"
)

// loadConfiguration reads the message catalog first so the failures of the
// other sources can be reported with it.
func loadConfiguration() error {
	if err := msg.Load(); err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	if err := configs.Load(); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	if err := resource.Load(); err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	return nil
}
