package domain

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrInvalidReportID  = errors.New("invalid report id")
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrLLMNotConfigured = errors.New("llm client is not configured")
)

// PersistenceError is returned when a report artifact cannot be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist report %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
