package reminderrepo

import (
	"context"
	"testing"
	"time"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

func rec(id domain.ReminderID, trip domain.TripID, day string, scheduledAt domain.TimeOfDay) reminderrepo.Record {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return reminderrepo.Record{
		Reminder: domain.Reminder{
			ID:                id,
			TripID:            trip,
			Type:              domain.ReminderTypeDeparture,
			RelatedActivityID: domain.ActivityID("act-" + string(id)),
			Day:               domain.DayOf(d),
			ScheduledAt:       scheduledAt,
			MinutesBefore:     45,
			Enabled:           true,
		},
	}
}

func TestRepo_ListOrdersByDayAndTime(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	for _, rc := range []reminderrepo.Record{
		rec("r3", "trip-1", "2026-09-02", 540),
		rec("r2", "trip-1", "2026-09-01", 900),
		rec("r1", "trip-1", "2026-09-01", 540),
		rec("other", "trip-2", "2026-09-01", 540),
	} {
		if err := r.Upsert(ctx, rc); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got, err := r.ListByTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	want := []domain.ReminderID{"r1", "r2", "r3"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, rc := range got {
		if rc.Reminder.ID != want[i] {
			t.Fatalf("position %d = %s, want %s", i, rc.Reminder.ID, want[i])
		}
	}
}

func TestRepo_ReplaceForTripIsScoped(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	if err := r.Upsert(ctx, rec("mine", "trip-1", "2026-09-01", 540)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := r.Upsert(ctx, rec("theirs", "trip-2", "2026-09-01", 540)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := r.ReplaceForTrip(ctx, "trip-1", []reminderrepo.Record{rec("new", "trip-1", "2026-09-01", 600)}); err != nil {
		t.Fatalf("ReplaceForTrip: %v", err)
	}

	if _, err := r.GetByID(ctx, "mine"); err != reminderrepo.ErrNotFound {
		t.Errorf("old record survives the replace: %v", err)
	}
	if _, err := r.GetByID(ctx, "new"); err != nil {
		t.Errorf("replacement missing: %v", err)
	}
	if _, err := r.GetByID(ctx, "theirs"); err != nil {
		t.Errorf("other trip's record lost: %v", err)
	}
}

func TestRepo_DeleteByActivity(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	keep := rec("keep", "trip-1", "2026-09-01", 540)
	drop := rec("drop", "trip-1", "2026-09-01", 600)
	drop.Reminder.RelatedActivityID = "doomed"
	for _, rc := range []reminderrepo.Record{keep, drop} {
		if err := r.Upsert(ctx, rc); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	if err := r.DeleteByActivity(ctx, "doomed"); err != nil {
		t.Fatalf("DeleteByActivity: %v", err)
	}
	if _, err := r.GetByID(ctx, "drop"); err != reminderrepo.ErrNotFound {
		t.Errorf("reminder for the deleted activity survives: %v", err)
	}
	if _, err := r.GetByID(ctx, "keep"); err != nil {
		t.Errorf("unrelated reminder lost: %v", err)
	}
}
