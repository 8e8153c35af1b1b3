package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound     = errors.New("not found")
	ErrNoAPIKey     = errors.New("no API key configured")
	ErrNoProject    = errors.New("no current project")
	ErrInvalidMove  = errors.New("invalid move")
	ErrEmptyContent = errors.New("empty content")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MoveError represents a rejected move operation
type MoveError struct {
	SourceID string
	DestID   string
	Reason   string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.SourceID, e.DestID, e.Reason)
}

func (e *MoveError) Is(target error) bool {
	return target == ErrInvalidMove
}

// AssistantError represents a failed AI gateway call
type AssistantError struct {
	Operation string
	Err       error
}

func (e *AssistantError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *AssistantError) Unwrap() error {
	return e.Err
}
