// Package contracttest holds behavioral suites shared by the memory and
// postgres adapters. Each suite takes a factory so the same assertions run
// against both implementations.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	activityrepoport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
	idempotencyport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/idempotency"
	reminderrepoport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

type CleanupFunc = func()

type ActivityRepoFactory func(t *testing.T) (activityrepoport.Repository, CleanupFunc)
type ReminderRepoFactory func(t *testing.T) (reminderrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunActivityRepo(t *testing.T, newRepo ActivityRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	day := domain.DayOf(time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
	tripID := domain.TripID(uuid.NewString())
	otherTrip := domain.TripID(uuid.NewString())

	mk := func(start domain.TimeOfDay, order int) activityrepoport.Record {
		return activityrepoport.Record{
			Activity: domain.Activity{
				ID:       domain.ActivityID(uuid.NewString()),
				TripID:   tripID,
				Title:    "Visit",
				Category: "culture",
				Day:      day,
				Start:    start,
				Location: domain.Location{Name: "Somewhere"},
				Order:    order,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	// Insert out of start order; lists must come back canonical.
	late := mk(14*60, 1)
	early := mk(9*60, 0)
	if err := repo.Create(ctx, late); err != nil {
		t.Fatalf("Create late: %v", err)
	}
	if err := repo.Create(ctx, early); err != nil {
		t.Fatalf("Create early: %v", err)
	}

	// ID uniqueness.
	if err := repo.Create(ctx, late); !errors.Is(err, activityrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, early.Activity.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Activity.Title != "Visit" || got.Activity.Start != 9*60 {
		t.Fatalf("unexpected record: %+v", got.Activity)
	}

	list, err := repo.ListByTrip(ctx, tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(list) != 2 || list[0].Activity.ID != early.Activity.ID {
		t.Fatalf("unexpected ordering: %#v", list)
	}

	// Day filter scopes to the calendar day.
	otherDay := domain.DayOf(day.AddDate(0, 0, 1))
	byDay, err := repo.ListByTripDay(ctx, tripID, otherDay)
	if err != nil {
		t.Fatalf("ListByTripDay: %v", err)
	}
	if len(byDay) != 0 {
		t.Fatalf("expected empty day, got %#v", byDay)
	}
	byDay, err = repo.ListByTripDay(ctx, tripID, day)
	if err != nil {
		t.Fatalf("ListByTripDay: %v", err)
	}
	if len(byDay) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(byDay))
	}

	// Trip scoping.
	if other, err := repo.ListByTrip(ctx, otherTrip); err != nil || len(other) != 0 {
		t.Fatalf("expected empty other trip, got %v err=%v", other, err)
	}

	// Save updates in place; SaveAll is the batch form.
	upd := got
	newStart := domain.TimeOfDay(10 * 60)
	upd.Activity.Start = newStart
	upd.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(ctx, upd); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, early.Activity.ID)
	if err != nil || got.Activity.Start != newStart {
		t.Fatalf("expected start %d, got %+v err=%v", newStart, got.Activity, err)
	}

	missing := mk(11*60, 9)
	if err := repo.Save(ctx, missing); !errors.Is(err, activityrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on save of missing, got %v", err)
	}
	if err := repo.SaveAll(ctx, []activityrepoport.Record{upd, missing}); !errors.Is(err, activityrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on batch with missing, got %v", err)
	}

	// Delete.
	if err := repo.Delete(ctx, late.Activity.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, late.Activity.ID); !errors.Is(err, activityrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.GetByID(ctx, late.Activity.ID); !errors.Is(err, activityrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func RunReminderRepo(t *testing.T, newRepo ReminderRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	day := domain.DayOf(time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC))
	tripID := domain.TripID(uuid.NewString())
	activityID := domain.ActivityID(uuid.NewString())

	mk := func(typ domain.ReminderType, at domain.TimeOfDay) reminderrepoport.Record {
		return reminderrepoport.Record{
			Reminder: domain.Reminder{
				ID:                domain.ReminderID(uuid.NewString()),
				TripID:            tripID,
				Type:              typ,
				RelatedActivityID: activityID,
				ScheduledAt:       at,
				Day:               day,
				MinutesBefore:     30,
				Enabled:           true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	dep := mk(domain.ReminderTypeDeparture, 8*60+30)
	prep := mk(domain.ReminderTypePreparation, 8*60)
	if err := repo.Upsert(ctx, dep); err != nil {
		t.Fatalf("Upsert dep: %v", err)
	}
	if err := repo.Upsert(ctx, prep); err != nil {
		t.Fatalf("Upsert prep: %v", err)
	}

	got, err := repo.GetByID(ctx, dep.Reminder.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Reminder.Type != domain.ReminderTypeDeparture {
		t.Fatalf("unexpected reminder: %+v", got.Reminder)
	}
	if _, err := repo.GetByID(ctx, domain.ReminderID(uuid.NewString())); !errors.Is(err, reminderrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Ordering by (day, scheduledAt, id).
	list, err := repo.ListByTrip(ctx, tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(list) != 2 || list[0].Reminder.ID != prep.Reminder.ID {
		t.Fatalf("unexpected ordering: %#v", list)
	}

	// Upsert by ID replaces the editable fields.
	dep.Reminder.MinutesBefore = 45
	dep.Reminder.Enabled = false
	dep.UpdatedAt = now.Add(time.Minute)
	if err := repo.Upsert(ctx, dep); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	got, err = repo.GetByID(ctx, dep.Reminder.ID)
	if err != nil || got.Reminder.MinutesBefore != 45 || got.Reminder.Enabled {
		t.Fatalf("expected updated reminder, got %+v err=%v", got.Reminder, err)
	}

	// ReplaceForTrip swaps the whole set.
	replacement := mk(domain.ReminderTypeCheckIn, 7*60)
	if err := repo.ReplaceForTrip(ctx, tripID, []reminderrepoport.Record{replacement}); err != nil {
		t.Fatalf("ReplaceForTrip: %v", err)
	}
	list, err = repo.ListByTrip(ctx, tripID)
	if err != nil || len(list) != 1 || list[0].Reminder.ID != replacement.Reminder.ID {
		t.Fatalf("expected replaced set, got %#v err=%v", list, err)
	}

	// DeleteByActivity cascades the activity's reminders.
	if err := repo.DeleteByActivity(ctx, activityID); err != nil {
		t.Fatalf("DeleteByActivity: %v", err)
	}
	list, err = repo.ListByTrip(ctx, tripID)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty trip, got %#v err=%v", list, err)
	}
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Method:   "POST",
		Route:    "/trips/{tripId}/schedule/autofix",
		BodyHash: "abc123",
	}
	rec := idempotencyport.Record{
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"ok":true}` || got.ContentType != "application/json" || got.StatusCode != 200 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// A different body hash is a different request.
	fp2 := fp
	fp2.BodyHash = "def456"
	if _, ok, err := store.Get(ctx, fp2); err != nil || ok {
		t.Fatalf("expected miss for different body, got ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"ok":false}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"ok":false}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}
