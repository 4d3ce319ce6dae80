package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type UserRole string

const (
	USER_ROLE_STUDENT = UserRole("student")
	USER_ROLE_ADVISOR = UserRole("advisor")
	USER_ROLE_ADMIN   = UserRole("admin")
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string   `bun:"id,pk,notnull,unique"`
	UserName  string   `bun:"user_name,notnull"`
	FirstName string   `bun:"first_name"`
	LastName  string   `bun:"last_name"`
	Email     string   `bun:"email,unique"`
	Role      UserRole `bun:"role,type:varchar"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (u *User) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case u.ID == "":
		return fmt.Errorf("(*User).Upsert: user id is blank")
	case u.UserName == "":
		return fmt.Errorf("(*User).Upsert: user name is blank")
	}
	if u.CreatedAt == 0 {
		u.CreatedAt = time.Now().UTC().Unix()
	}
	u.UpdatedAt = time.Now().UTC().Unix()

	if _, err := db.
		NewInsert().
		Model(u).
		On("CONFLICT (id) DO UPDATE").
		Set("user_name = EXCLUDED.user_name").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("email = EXCLUDED.email").
		Set("role = EXCLUDED.role").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*User).Upsert: %w", err)
	}

	return nil
}
