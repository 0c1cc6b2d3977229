package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates a required credential or remote
	// identifier is absent for the requested assistant.
	ErrNotConfigured = errors.New("assistant is not configured")

	// ErrRunTimeout indicates the polling ceiling was exhausted while the
	// run was still pending.
	ErrRunTimeout = errors.New("run timeout - took too long to complete")
)

// RunFailure is returned when a run reaches a failure-terminal status.
// Detail carries the upstream-reported error message, if any.
type RunFailure struct {
	Status RunStatus
	Detail string
}

func (e *RunFailure) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = "unknown error"
	}
	return fmt.Sprintf("run %s: %s", e.Status, detail)
}
