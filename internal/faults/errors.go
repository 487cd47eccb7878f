// Package faults defines the error taxonomy shared by the event pipeline.
// Callers classify failures with errors.As and translate them into
// non-technical messages for the affected party; raw errors never reach the
// HTTP layer.
package faults

import (
	"errors"
	"fmt"
)

// ErrValidation signifies a recoverable business validation failure, such
// as a duplicate candidate identity at account-creation time. The operator
// is expected to correct the input and retry.
type ErrValidation struct {
	Detail string
	Err    error
}

func (e *ErrValidation) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("validation error: %s", e.Detail)
}
func (e *ErrValidation) Unwrap() error { return e.Err }

// ErrNotFound signifies a lookup for an entity that does not exist, such as
// an unknown registration id on APPROVE/DECLINE. No state is mutated.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ErrExternalService signifies a failed call to a collaborator (download,
// extraction, notification). Logged with context and translated into an
// apology for the affected party; never aborts unrelated processing.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("%s error: %v", e.Service, e.Err)
}
func (e *ErrExternalService) Unwrap() error { return e.Err }

// ErrUnsupportedInput signifies input rejected before any side effect, such
// as a non-document file submitted as a CV.
type ErrUnsupportedInput struct {
	Detail string
}

func (e *ErrUnsupportedInput) Error() string {
	return fmt.Sprintf("unsupported input: %s", e.Detail)
}

// IsValidation reports whether err is an ErrValidation.
func IsValidation(err error) bool {
	var target *ErrValidation
	return errors.As(err, &target)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

// IsExternalService reports whether err is an ErrExternalService.
func IsExternalService(err error) bool {
	var target *ErrExternalService
	return errors.As(err, &target)
}

// IsUnsupportedInput reports whether err is an ErrUnsupportedInput.
func IsUnsupportedInput(err error) bool {
	var target *ErrUnsupportedInput
	return errors.As(err, &target)
}
