package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEnum is returned when content names an enum value the engine does not know.
	ErrUnknownEnum = errors.New("unknown enum value")

	// ErrMissingField is returned when a required content field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrDanglingReference is returned when content points at an id that does not exist.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrDuplicateID is returned when two content definitions share an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// ContentError describes a content definition that failed to load.
type ContentError struct {
	Unit  string // mission, scene, item, layout
	ID    string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ContentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %q: %v", e.Unit, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %q field %s: %v", e.Unit, e.ID, e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ContentError) Unwrap() error {
	return e.Err
}
