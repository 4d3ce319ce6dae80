package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Grade struct {
	bun.BaseModel `bun:"table:grades"`

	ID        string  `bun:"id,pk,notnull"`
	SubjectID string  `bun:"subject_id,notnull"`
	UserID    string  `bun:"user_id,notnull"`
	Score     float64 `bun:"score"`
	OutOf     float64 `bun:"out_of"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`

	Subject *Subject `bun:"rel:belongs-to,join:subject_id=id"`
	User    *User    `bun:"rel:belongs-to,join:user_id=id"`
}

func (g *Grade) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case g.ID == "":
		return fmt.Errorf("(*Grade).Upsert: grade id is blank")
	case g.SubjectID == "":
		return fmt.Errorf("(*Grade).Upsert: subject id is blank")
	case g.UserID == "":
		return fmt.Errorf("(*Grade).Upsert: user id is blank")
	case g.OutOf < 0 || g.Score < 0:
		return fmt.Errorf("(*Grade).Upsert: score and out-of must not be negative")
	}
	if g.CreatedAt == 0 {
		g.CreatedAt = time.Now().UTC().Unix()
	}
	g.UpdatedAt = time.Now().UTC().Unix()

	if _, err := db.
		NewInsert().
		Model(g).
		On("CONFLICT (id) DO UPDATE").
		Set("subject_id = EXCLUDED.subject_id").
		Set("user_id = EXCLUDED.user_id").
		Set("score = EXCLUDED.score").
		Set("out_of = EXCLUDED.out_of").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Grade).Upsert: %w", err)
	}

	return nil
}
