package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/uptrace/bun"
)

const DefaultMeetingDurationMin = 30

type ScheduleInput struct {
	Name        string
	Description string
	DateUnixUTC int64
	StartTime   string // "HH:MM"
	DurationMin int    // 0 means DefaultMeetingDurationMin
	AdvisorID   string
	StudentID   string
}

// Meeting is one advisor/student appointment, stored as two event records
// with owner and relatedId swapped. There is no link column between them;
// Cancel finds the counterpart by matching fields.
type Meeting struct {
	StudentEvent *model.Event
	AdvisorEvent *model.Event
}

type Coordinator struct {
	db    bun.IDB
	newID func() string
}

func NewCoordinator(db bun.IDB) *Coordinator {
	return &Coordinator{
		db:    db,
		newID: uuid.NewString,
	}
}

// Schedule checks both participants concurrently, then inserts both records
// concurrently. If exactly one insert fails, the survivor is removed before
// the error is returned so no unpaired meeting record is left behind.
func (c *Coordinator) Schedule(ctx context.Context, input ScheduleInput) (*Meeting, error) {
	switch {
	case input.Name == "":
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	case input.DateUnixUTC == 0:
		return nil, &ValidationError{Field: "date", Reason: "must not be blank"}
	case input.StartTime == "":
		return nil, &ValidationError{Field: "time", Reason: "must not be blank"}
	case input.DurationMin < 0:
		return nil, &ValidationError{Field: "duration", Reason: "must not be negative"}
	case input.AdvisorID == "":
		return nil, &ValidationError{Field: "advisorId", Reason: "must not be blank"}
	case input.StudentID == "":
		return nil, &ValidationError{Field: "studentId", Reason: "must not be blank"}
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return nil, &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	if input.DurationMin == 0 {
		input.DurationMin = DefaultMeetingDurationMin
	}

	// both participant checks run concurrently; nothing is written until
	// both came back clean
	checkErrChan := make(chan error, 2)
	for _, check := range []struct {
		userID string
		entity string
	}{
		{input.AdvisorID, "advisor"},
		{input.StudentID, "student"},
	} {
		go func(userID, entity string) {
			exists, err := c.db.NewSelect().
				Model((*model.User)(nil)).
				Where("id = ?", userID).
				Exists(ctx)
			switch {
			case err != nil:
				checkErrChan <- fmt.Errorf("(*Coordinator).Schedule: can't check %s: %w", entity, err)
			case !exists:
				checkErrChan <- &NotFoundError{Entity: entity}
			default:
				checkErrChan <- nil
			}
		}(check.userID, check.entity)
	}
	var checkErr error
	for i := 0; i < 2; i++ {
		if err := <-checkErrChan; err != nil && checkErr == nil {
			checkErr = err
		}
	}
	if checkErr != nil {
		return nil, checkErr
	}

	now := time.Now().UTC().Unix()
	studentEvent := &model.Event{
		ID:          c.newID(),
		Name:        input.Name,
		Type:        model.EVENT_TYPE_MEETING,
		Description: input.Description,
		DateUnixUTC: input.DateUnixUTC,
		OwnerID:     input.StudentID,
		RelatedID:   input.AdvisorID,
		RelatedKind: string(KIND_USER),
		StartTime:   input.StartTime,
		DurationMin: input.DurationMin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	advisorEvent := &model.Event{
		ID:          c.newID(),
		Name:        input.Name,
		Type:        model.EVENT_TYPE_MEETING,
		Description: input.Description,
		DateUnixUTC: input.DateUnixUTC,
		OwnerID:     input.AdvisorID,
		RelatedID:   input.StudentID,
		RelatedKind: string(KIND_USER),
		StartTime:   input.StartTime,
		DurationMin: input.DurationMin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// both writes run concurrently and are jointly awaited
	type writeResult struct {
		eventModel *model.Event
		err        error
	}
	writeChan := make(chan writeResult, 2)
	for _, eventModel := range []*model.Event{studentEvent, advisorEvent} {
		go func(eventModel *model.Event) {
			_, err := c.db.NewInsert().
				Model(eventModel).
				Exec(ctx)
			writeChan <- writeResult{eventModel: eventModel, err: err}
		}(eventModel)
	}
	var writeErr error
	survivors := make([]*model.Event, 0, 2)
	for i := 0; i < 2; i++ {
		result := <-writeChan
		switch {
		case result.err != nil && writeErr == nil:
			writeErr = result.err
		case result.err == nil:
			survivors = append(survivors, result.eventModel)
		}
	}
	if writeErr != nil {
		// compensating delete, partial pairs must not persist
		for _, eventModel := range survivors {
			if _, err := c.db.NewDelete().
				Model((*model.Event)(nil)).
				Where("id = ?", eventModel.ID).
				Exec(ctx); err != nil {
				slog.Error("can't remove surviving meeting record",
					"id", eventModel.ID, "error", err)
			}
		}
		return nil, fmt.Errorf("(*Coordinator).Schedule: %w", writeErr)
	}

	return &Meeting{
		StudentEvent: studentEvent,
		AdvisorEvent: advisorEvent,
	}, nil
}

// Cancel removes one meeting record plus, when it still exists, its
// counterpart. Returns how many records were removed (1 or 2). A missing
// counterpart is a valid terminal state, not an error.
func (c *Coordinator) Cancel(ctx context.Context, id string) (int, error) {
	primary := new(model.Event)
	if err := c.db.NewSelect().
		Model(primary).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &NotFoundError{Entity: "meeting"}
		}
		return 0, fmt.Errorf("(*Coordinator).Cancel: %w", err)
	}
	if primary.Type != model.EVENT_TYPE_MEETING {
		return 0, &NotFoundError{Entity: "meeting"}
	}

	// the counterpart filter is built from the primary's fields, so this
	// lookup has to come after the one above
	counterpart := new(model.Event)
	counterpartFound := true
	if err := c.db.NewSelect().
		Model(counterpart).
		Where("id != ?", primary.ID).
		Where("type = ?", model.EVENT_TYPE_MEETING).
		Where("date = ?", primary.DateUnixUTC).
		Where("start_time = ?", primary.StartTime).
		Where("owner_id = ?", primary.RelatedID).
		Where("related_id = ?", primary.OwnerID).
		Limit(1).
		Scan(ctx); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("(*Coordinator).Cancel: %w", err)
		}
		counterpartFound = false
	}

	if _, err := c.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", primary.ID).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("(*Coordinator).Cancel: %w", err)
	}
	removed := 1

	if counterpartFound {
		if _, err := c.db.NewDelete().
			Model((*model.Event)(nil)).
			Where("id = ?", counterpart.ID).
			Exec(ctx); err != nil {
			// best effort; the pair is now half-canceled, which Cancel
			// on the counterpart id can still finish
			slog.Warn("can't remove meeting counterpart",
				"id", counterpart.ID, "error", err)
			return removed, nil
		}
		removed = 2
	}

	return removed, nil
}
