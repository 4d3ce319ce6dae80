package model

import (
	"github.com/uptrace/bun"
)

type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret           string `bun:"secret,pk"`          // required
	UserID           string `bun:"user_id,notnull"`    // required
	CreatedAtUnixUTC int64  `bun:"created_at,notnull"` // required
}
