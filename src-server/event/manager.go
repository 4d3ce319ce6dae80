package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/uptrace/bun"
)

type CreateInput struct {
	Name        string
	Type        model.EventType
	Description string
	DateUnixUTC int64
	OwnerID     string
	RelatedID   string
	RelatedKind Kind
	StartTime   string
	DurationMin int
}

type UpdateInput struct {
	Name        *string
	Type        *model.EventType
	Description *string
	DateUnixUTC *int64
	RelatedID   *string
	RelatedKind *Kind
	StartTime   *string
	DurationMin *int
}

type ListFilter struct {
	Kind model.EventType // empty means any
	Past bool
}

// Manager owns single-event CRUD. Related references go through the
// Validator; owners must resolve to existing users.
type Manager struct {
	db        bun.IDB
	validator *Validator
}

func NewManager(db bun.IDB) *Manager {
	return &Manager{
		db:        db,
		validator: NewValidator(db),
	}
}

func (m *Manager) Create(ctx context.Context, input CreateInput) (*model.Event, error) {
	switch {
	case input.Name == "":
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	case !input.Type.Valid():
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown event type %q", input.Type)}
	case input.DateUnixUTC == 0:
		return nil, &ValidationError{Field: "date", Reason: "must not be blank"}
	case input.OwnerID == "":
		return nil, &ValidationError{Field: "owner", Reason: "must not be blank"}
	case input.DurationMin < 0:
		return nil, &ValidationError{Field: "duration", Reason: "must not be negative"}
	case input.StartTime != "":
		if _, err := time.Parse("15:04", input.StartTime); err != nil {
			return nil, &ValidationError{Field: "time", Reason: "must be HH:MM"}
		}
	}

	if err := m.validator.Validate(ctx, KIND_USER, input.OwnerID); err != nil {
		return nil, err
	}
	if input.RelatedID != "" {
		if input.RelatedKind == "" {
			return nil, &ValidationError{Field: "relatedKind", Reason: "required when relatedId is set"}
		}
		if err := m.validator.Validate(ctx, input.RelatedKind, input.RelatedID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC().Unix()
	eventModel := &model.Event{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		DateUnixUTC: input.DateUnixUTC,
		OwnerID:     input.OwnerID,
		RelatedID:   input.RelatedID,
		RelatedKind: string(input.RelatedKind),
		StartTime:   input.StartTime,
		DurationMin: input.DurationMin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := eventModel.Upsert(ctx, m.db); err != nil {
		return nil, fmt.Errorf("(*Manager).Create: %w", err)
	}

	return eventModel, nil
}

func (m *Manager) GetByID(ctx context.Context, id string) (*model.Event, error) {
	eventModel := new(model.Event)
	if err := m.db.NewSelect().
		Model(eventModel).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "event"}
		}
		return nil, fmt.Errorf("(*Manager).GetByID: %w", err)
	}
	return eventModel, nil
}

func (m *Manager) ListAll(ctx context.Context) ([]model.Event, error) {
	eventModels := make([]model.Event, 0)
	if err := m.db.NewSelect().
		Model(&eventModels).
		Order("date ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Manager).ListAll: %w", err)
	}
	return eventModels, nil
}

// ListForUser returns the user's past events (date < now, newest first) when
// filter.Past is set, upcoming events (date >= now, soonest first) otherwise.
func (m *Manager) ListForUser(ctx context.Context, userID string, filter ListFilter) ([]model.Event, error) {
	if err := m.validator.Validate(ctx, KIND_USER, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Unix()
	eventModels := make([]model.Event, 0)
	query := m.db.NewSelect().
		Model(&eventModels).
		Where("owner_id = ?", userID)
	if filter.Past {
		query = query.
			Where("date < ?", now).
			Order("date DESC")
	} else {
		query = query.
			Where("date >= ?", now).
			Order("date ASC")
	}
	if filter.Kind != "" {
		if !filter.Kind.Valid() {
			return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown event type %q", filter.Kind)}
		}
		query = query.Where("type = ?", filter.Kind)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Manager).ListForUser: %w", err)
	}
	return eventModels, nil
}

// Update persists only the supplied fields. A supplied related pair is
// re-validated; a meeting counterpart is never touched.
func (m *Manager) Update(ctx context.Context, id string, input UpdateInput) (*model.Event, error) {
	eventModel, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		eventModel.Name = *input.Name
	}
	if input.Type != nil {
		eventModel.Type = *input.Type
	}
	if input.Description != nil {
		eventModel.Description = *input.Description
	}
	if input.DateUnixUTC != nil {
		eventModel.DateUnixUTC = *input.DateUnixUTC
	}
	if input.RelatedID != nil {
		eventModel.RelatedID = *input.RelatedID
	}
	if input.RelatedKind != nil {
		eventModel.RelatedKind = string(*input.RelatedKind)
	}
	if input.StartTime != nil {
		eventModel.StartTime = *input.StartTime
	}
	if input.DurationMin != nil {
		eventModel.DurationMin = *input.DurationMin
	}

	switch {
	case eventModel.Name == "":
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	case !eventModel.Type.Valid():
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown event type %q", eventModel.Type)}
	case eventModel.DateUnixUTC == 0:
		return nil, &ValidationError{Field: "date", Reason: "must not be blank"}
	case eventModel.DurationMin < 0:
		return nil, &ValidationError{Field: "duration", Reason: "must not be negative"}
	case eventModel.StartTime != "":
		if _, err := time.Parse("15:04", eventModel.StartTime); err != nil {
			return nil, &ValidationError{Field: "time", Reason: "must be HH:MM"}
		}
	}

	if input.RelatedID != nil || input.RelatedKind != nil {
		if (eventModel.RelatedID == "") != (eventModel.RelatedKind == "") {
			return nil, &ValidationError{Field: "relatedKind", Reason: "relatedId and relatedKind must be set together"}
		}
		if eventModel.RelatedID != "" {
			if err := m.validator.Validate(ctx, Kind(eventModel.RelatedKind), eventModel.RelatedID); err != nil {
				return nil, err
			}
		}
	}

	if err := eventModel.Upsert(ctx, m.db); err != nil {
		return nil, fmt.Errorf("(*Manager).Update: %w", err)
	}
	return eventModel, nil
}

// Delete removes the record. Repeated calls after a successful delete report
// not-found rather than an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	exists, err := m.db.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	switch {
	case err != nil:
		return fmt.Errorf("(*Manager).Delete: %w", err)
	case !exists:
		return &NotFoundError{Entity: "event"}
	}

	if _, err := m.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Manager).Delete: %w", err)
	}
	return nil
}
