package reminderrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

// Repo is an in-memory implementation of reminderrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ReminderID]reminderrepo.Record
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ReminderID]reminderrepo.Record),
	}
}

func (r *Repo) GetByID(ctx context.Context, id domain.ReminderID) (reminderrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return reminderrepo.Record{}, reminderrepo.ErrNotFound
	}
	return rec, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]reminderrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reminderrepo.Record, 0)
	for _, rec := range r.byID {
		if rec.Reminder.TripID == tripID {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *Repo) Upsert(ctx context.Context, rec reminderrepo.Record) error {
	_ = ctx
	if rec.Reminder.ID == "" {
		return reminderrepo.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.Reminder.ID] = rec
	return nil
}

func (r *Repo) ReplaceForTrip(ctx context.Context, tripID domain.TripID, recs []reminderrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.byID {
		if rec.Reminder.TripID == tripID {
			delete(r.byID, id)
		}
	}
	for _, rec := range recs {
		r.byID[rec.Reminder.ID] = rec
	}
	return nil
}

func (r *Repo) DeleteByActivity(ctx context.Context, activityID domain.ActivityID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.byID {
		if rec.Reminder.RelatedActivityID == activityID {
			delete(r.byID, id)
		}
	}
	return nil
}

func sortRecords(recs []reminderrepo.Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].Reminder, recs[j].Reminder
		if !domain.SameDay(a.Day, b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.ScheduledAt != b.ScheduledAt {
			return a.ScheduledAt < b.ScheduledAt
		}
		return a.ID < b.ID
	})
}
