package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Subject struct {
	bun.BaseModel `bun:"table:subjects"`

	ID     string `bun:"id,pk,notnull"`
	Name   string `bun:"name,notnull"`
	Term   string `bun:"term"`
	UserID string `bun:"user_id"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
}

func (s *Subject) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("(*Subject).Upsert: subject id is blank")
	case s.Name == "":
		return fmt.Errorf("(*Subject).Upsert: name is blank")
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().UTC().Unix()
	}
	s.UpdatedAt = time.Now().UTC().Unix()

	if _, err := db.
		NewInsert().
		Model(s).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("term = EXCLUDED.term").
		Set("user_id = EXCLUDED.user_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Subject).Upsert: %w", err)
	}

	return nil
}
