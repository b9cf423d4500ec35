package intake

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrLeadNotFound is returned when a referenced lead doesn't exist.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrTooManyEmployers is returned when adding a fourth employer slot.
	ErrTooManyEmployers = errors.New("lead already has the maximum number of employers")

	// ErrEmployerSlotOutOfRange is returned for an employer index the lead
	// does not have.
	ErrEmployerSlotOutOfRange = errors.New("employer slot out of range")

	// ErrUnknownFrequency is returned when a raw form frequency label maps
	// to no known pay frequency.
	ErrUnknownFrequency = errors.New("unknown pay frequency")

	// ErrUnknownHowPaid is returned when a "how paid" label maps to no mode
	// shape for the selected frequency.
	ErrUnknownHowPaid = errors.New("unknown how-paid selection")
)

// FieldError describes a single invalid raw form field encountered while
// building a schedule context.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: invalid value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
