package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type EventType string

const (
	EVENT_TYPE_ASSIGNMENT = EventType("assignment")
	EVENT_TYPE_EXAM       = EventType("exam")
	EVENT_TYPE_REMINDER   = EventType("reminder")
	EVENT_TYPE_MEETING    = EventType("meeting")
)

func (t EventType) Valid() bool {
	switch t {
	case EVENT_TYPE_ASSIGNMENT, EVENT_TYPE_EXAM, EVENT_TYPE_REMINDER, EVENT_TYPE_MEETING:
		return true
	default:
		return false
	}
}

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk"`                     // required
	Name        string    `bun:"name,notnull"`              // required
	Type        EventType `bun:"type,notnull,type:varchar"` // required
	Description string    `bun:"description"`

	DateUnixUTC int64 `bun:"date,notnull"` // required

	OwnerID     string `bun:"owner_id,notnull"` // required
	RelatedID   string `bun:"related_id"`
	RelatedKind string `bun:"related_kind,type:varchar"`

	// meeting-specific
	StartTime   string `bun:"start_time"`   // "HH:MM"
	DurationMin int    `bun:"duration_min"` // minutes

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`

	Owner *User `bun:"rel:belongs-to,join:owner_id=id"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Name == "":
		return fmt.Errorf("(*Event).Upsert: name is blank")
	case !e.Type.Valid():
		return fmt.Errorf("(*Event).Upsert: invalid event type %q", e.Type)
	case e.DateUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: date is blank")
	case e.OwnerID == "":
		return fmt.Errorf("(*Event).Upsert: owner id is blank")
	case (e.RelatedID == "") != (e.RelatedKind == ""):
		return fmt.Errorf("(*Event).Upsert: related id and related kind must be set together")
	case e.DurationMin < 0:
		return fmt.Errorf("(*Event).Upsert: duration must not be negative")
	case e.StartTime != "":
		if _, err := time.Parse("15:04", e.StartTime); err != nil {
			return fmt.Errorf("(*Event).Upsert: start time is not HH:MM: %w", err)
		}
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if e.UpdatedAt == 0 {
			e.UpdatedAt = e.CreatedAt
		}
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}
