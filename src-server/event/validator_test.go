package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/event"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
)

func TestValidatorDispatch(t *testing.T) {
	bundb := newTestDB(t)
	validator := event.NewValidator(bundb)

	userID := seedUser(t, bundb, model.USER_ROLE_STUDENT)
	subjectModel := model.Subject{
		ID:   uuid.NewString(),
		Name: "Software Engineering",
	}
	if err := subjectModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	// case: existing records resolve per kind
	if err := validator.Validate(context.Background(), event.KIND_USER, userID); err != nil {
		t.Error("existing user should validate", err)
	}
	if err := validator.Validate(context.Background(), event.KIND_SUBJECT, subjectModel.ID); err != nil {
		t.Error("existing subject should validate", err)
	}

	// case: absent records report the kind that failed
	for _, kind := range []event.Kind{
		event.KIND_USER,
		event.KIND_SUBJECT,
		event.KIND_GRADE,
		event.KIND_ASSIGNMENT,
	} {
		err := validator.Validate(context.Background(), kind, uuid.NewString())
		var notFoundErr *event.NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Error("expected not-found error", kind, err)
			continue
		}
		if notFoundErr.Entity != string(kind) {
			t.Error("wrong entity in not-found error", notFoundErr.Entity, kind)
		}
	}

	// case: unrecognized kind
	if err := validator.Validate(context.Background(), event.Kind("course"), userID); !errors.Is(err, event.ErrInvalidRelatedKind) {
		t.Error("unrecognized kind should be rejected", err)
	}
}
