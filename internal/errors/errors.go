// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidNumber    = errors.New("invalid number")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrMissingField     = errors.New("missing required field")
	ErrRecordTooShort   = errors.New("record has too few fields")
	ErrMissingColumn    = errors.New("required column not mapped")
	ErrTradeNotFound    = errors.New("trade not found")
	ErrStrategyNotFound = errors.New("strategy not found")
	ErrAuditNotFound    = errors.New("audit not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDatabaseError    = errors.New("database error")
)

// RowError represents a parse failure scoped to a single imported record.
// Imports skip the offending row and continue; a RowError is never fatal.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: field %q: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(row int, field string, err error) *RowError {
	return &RowError{
		Row:   row,
		Field: field,
		Err:   err,
	}
}

// SnapshotError reports every shape problem found in a backup snapshot.
// A snapshot that produces one is rejected whole; nothing is restored.
type SnapshotError struct {
	Problems []string
}

func (e *SnapshotError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidSnapshot.Error()
	}
	msg := e.Problems[0]
	for _, p := range e.Problems[1:] {
		msg += "; " + p
	}
	return fmt.Sprintf("invalid snapshot: %s", msg)
}

func (e *SnapshotError) Unwrap() error {
	return ErrInvalidSnapshot
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(problems ...string) *SnapshotError {
	return &SnapshotError{Problems: problems}
}

// ServiceError represents a failure of an external collaborator such as the
// AI advisor. These are transient: the ledger is never touched and the
// operation may simply be retried.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error [%s] %s: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
