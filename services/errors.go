package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the actor's role does not allow the operation
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned for an appointment status change the lifecycle does not allow
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrSlotTaken is returned when double-booking prevention is on and the stylist slot is held
	ErrSlotTaken = errors.New("time slot already booked")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInactiveAccount    = errors.New("account is disabled")
)

// ValidationError carries one message per offending field. It is returned
// before any write is attempted.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
