// Package errors defines error types and utilities for dynamock
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pay-theory/dynamock/pkg/core"
)

// Common errors that can occur in dynamock operations
var (
	// ErrNoMatchingRegistration is returned when a raw query or command matches no expectation
	ErrNoMatchingRegistration = errors.New("no matching registration")

	// ErrUnsupportedOperation is returned for query shapes a real provider cannot translate
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrReadOnlyMutationRejected is returned when a tracked write targets a read-only collection
	ErrReadOnlyMutationRejected = errors.New("read-only collection cannot be modified")

	// ErrInvalidRegistration is returned when an expectation is registered with missing inputs
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrModelNotRegistered is returned when no collection exists for a model type or name
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrDuplicateModel is returned when a model type or name is registered twice
	ErrDuplicateModel = errors.New("duplicate model registration")

	// ErrMissingPrimaryKey is returned when an operation needs a key the model doesn't define
	ErrMissingPrimaryKey = errors.New("missing primary key")

	// ErrFieldNotFound is returned when a query references a field the entity doesn't have
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidOperator is returned when an invalid query operator is used
	ErrInvalidOperator = errors.New("invalid query operator")

	// ErrNoElements is returned when a terminal operator requires an element and the sequence is empty
	ErrNoElements = errors.New("sequence contains no elements")

	// ErrMoreThanOneElement is returned by Single when more than one element matches
	ErrMoreThanOneElement = errors.New("sequence contains more than one element")
)

// DynamockError represents a detailed error with context
type DynamockError struct {
	Op      string         // Operation that failed
	Model   string         // Model or collection name
	Err     error          // Underlying error
	Context map[string]any // Additional context
}

// Error implements the error interface
func (e *DynamockError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("dynamock: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("dynamock: %s on %s failed: %v", e.Op, e.Model, e.Err)
}

// Unwrap returns the underlying error
func (e *DynamockError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *DynamockError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new DynamockError
func NewError(op, model string, err error) *DynamockError {
	return &DynamockError{
		Op:    op,
		Model: model,
		Err:   err,
	}
}

// NewErrorWithContext creates a new DynamockError with context
func NewErrorWithContext(op, model string, err error, context map[string]any) *DynamockError {
	return &DynamockError{
		Op:      op,
		Model:   model,
		Err:     err,
		Context: context,
	}
}

// NoMatchError is returned when a raw invocation resolves to no expectation.
// It carries the invocation for diagnostics.
type NoMatchError struct {
	Registry string
	Text     string
	Params   []core.Param
}

// Error implements the error interface
func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s: %q", ErrNoMatchingRegistration, e.Registry, e.Text)
	if len(e.Params) > 0 {
		b.WriteString(" with params [")
		for i, p := range e.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", p.Name, p.Value)
		}
		b.WriteString("]")
	}
	return b.String()
}

// Is reports whether target is ErrNoMatchingRegistration
func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatchingRegistration
}

// IsNoMatch checks if an error indicates an unmatched raw invocation
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatchingRegistration)
}

// IsUnsupported checks if an error indicates an untranslatable query shape
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsReadOnly checks if an error indicates a rejected read-only mutation
func IsReadOnly(err error) bool {
	return errors.Is(err, ErrReadOnlyMutationRejected)
}
