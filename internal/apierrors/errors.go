// Package apierrors declares the typed submission errors spec.md §7's error
// taxonomy distinguishes: validation, not-found, and conflict. Named
// apierrors (not "errors") so call sites can still import the standard
// library's errors package in the same file, the way the teacher keeps its
// own error types import-disjoint from stdlib.
package apierrors

import "fmt"

// ValidationError rejects a submission outright: zero mutations happen.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidation builds a ValidationError with a formatted reason.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError covers unknown village/troop/user ids.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError covers a slot with a pending task, a troop already busy, or
// any other submission that collides with in-flight state.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// NewConflict builds a ConflictError with a formatted reason.
func NewConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// Result is the structured submission outcome spec.md §7 mandates:
// {success, message, data}. No exception propagates past the orchestrator
// boundary — every submission path returns one of these.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Ok wraps a successful result.
func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail wraps an error into a structured failure result, picking the message
// from any apierrors type or falling back to err.Error().
func Fail(err error) Result {
	return Result{Success: false, Message: err.Error()}
}
