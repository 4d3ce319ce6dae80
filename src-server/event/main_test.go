package event_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func seedUser(t *testing.T, bundb *bun.DB, role model.UserRole) string {
	t.Helper()
	userModel := model.User{
		ID:       uuid.NewString(),
		UserName: "user-" + uuid.NewString()[:8],
		Role:     role,
	}
	if err := userModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}
	return userModel.ID
}

func countEvents(t *testing.T, bundb *bun.DB) int {
	t.Helper()
	count, err := bundb.NewSelect().
		Model((*model.Event)(nil)).
		Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return count
}
