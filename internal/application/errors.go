package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrNoSlotAvailable is returned when the slot search exhausts its horizon.
	ErrNoSlotAvailable = errors.New("application: no slot available within the search horizon")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConflictError reports an overlapping reservation that the candidate could
// not displace. NextAvailable carries the suggested alternative slot and is
// nil when the search horizon held no free window.
type ConflictError struct {
	ConflictingID int64
	NextAvailable *Slot
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("application: reservation conflicts with booking %d", e.ConflictingID)
}
