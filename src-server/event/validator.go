package event

import (
	"context"
	"fmt"

	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/uptrace/bun"
)

// Kind tags the entity an event's relatedId points at.
type Kind string

const (
	KIND_USER       = Kind("user")
	KIND_SUBJECT    = Kind("subject")
	KIND_GRADE      = Kind("grade")
	KIND_ASSIGNMENT = Kind("assignment")
)

// Validator resolves a (kind, id) pair to exists/not-exists. Read-only; the
// dispatch table is fixed at construction.
type Validator struct {
	lookups map[Kind]func(ctx context.Context, id string) (bool, error)
}

func NewValidator(db bun.IDB) *Validator {
	exists := func(m interface{}) func(ctx context.Context, id string) (bool, error) {
		return func(ctx context.Context, id string) (bool, error) {
			return db.NewSelect().
				Model(m).
				Where("id = ?", id).
				Exists(ctx)
		}
	}

	return &Validator{
		lookups: map[Kind]func(ctx context.Context, id string) (bool, error){
			KIND_USER:       exists((*model.User)(nil)),
			KIND_SUBJECT:    exists((*model.Subject)(nil)),
			KIND_GRADE:      exists((*model.Grade)(nil)),
			KIND_ASSIGNMENT: exists((*model.Assignment)(nil)),
		},
	}
}

// Validate returns nil when the referenced record exists,
// ErrInvalidRelatedKind for an unrecognized kind, and NotFoundError when the
// lookup comes back empty.
func (v *Validator) Validate(ctx context.Context, kind Kind, id string) error {
	lookup, ok := v.lookups[kind]
	if !ok {
		return ErrInvalidRelatedKind
	}

	exists, err := lookup(ctx, id)
	if err != nil {
		return fmt.Errorf("(*Validator).Validate: %w", err)
	}
	if !exists {
		return &NotFoundError{Entity: string(kind)}
	}

	return nil
}
