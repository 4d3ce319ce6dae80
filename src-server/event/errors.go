package event

import (
	"errors"
	"fmt"
)

// ErrInvalidRelatedKind is returned when a related-entity kind tag is not one
// of the recognized kinds.
var ErrInvalidRelatedKind = errors.New("invalid related kind")

// NotFoundError names the entity that could not be resolved ("user",
// "subject", "event", "meeting", "advisor", "student", ...).
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
