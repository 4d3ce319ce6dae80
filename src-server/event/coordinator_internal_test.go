package event

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Forces both records onto the same primary key so the second insert fails,
// then checks the surviving record was compensated away.
func TestScheduleCompensatesFailedWrite(t *testing.T) {
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}

	advisorModel := model.User{ID: uuid.NewString(), UserName: "advisor"}
	studentModel := model.User{ID: uuid.NewString(), UserName: "student"}
	for _, userModel := range []*model.User{&advisorModel, &studentModel} {
		if err := userModel.Upsert(context.Background(), bundb); err != nil {
			t.Fatal(err)
		}
	}

	coordinator := NewCoordinator(bundb)
	duplicateID := uuid.NewString()
	coordinator.newID = func() string { return duplicateID }

	if _, err := coordinator.Schedule(context.Background(), ScheduleInput{
		Name:        "Advising",
		DateUnixUTC: time.Now().UTC().Unix() + 3600,
		StartTime:   "14:30",
		AdvisorID:   advisorModel.ID,
		StudentID:   studentModel.ID,
	}); err == nil {
		t.Fatal("colliding ids should fail the schedule")
	}

	count, err := bundb.NewSelect().
		Model((*model.Event)(nil)).
		Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("surviving record should have been removed", count)
	}
}
