package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Assignment struct {
	bun.BaseModel `bun:"table:assignments"`

	ID             string `bun:"id,pk,notnull"`
	Title          string `bun:"title,notnull"`
	SubjectID      string `bun:"subject_id"`
	UserID         string `bun:"user_id"`
	DueDateUnixUTC int64  `bun:"due_date"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`

	Subject *Subject `bun:"rel:belongs-to,join:subject_id=id"`
	User    *User    `bun:"rel:belongs-to,join:user_id=id"`
}

func (a *Assignment) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case a.ID == "":
		return fmt.Errorf("(*Assignment).Upsert: assignment id is blank")
	case a.Title == "":
		return fmt.Errorf("(*Assignment).Upsert: title is blank")
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().UTC().Unix()
	}
	a.UpdatedAt = time.Now().UTC().Unix()

	if _, err := db.
		NewInsert().
		Model(a).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("subject_id = EXCLUDED.subject_id").
		Set("user_id = EXCLUDED.user_id").
		Set("due_date = EXCLUDED.due_date").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Assignment).Upsert: %w", err)
	}

	return nil
}
