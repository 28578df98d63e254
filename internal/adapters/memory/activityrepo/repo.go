package activityrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
)

// Repo is an in-memory implementation of activityrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ActivityID]activityrepo.Record
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ActivityID]activityrepo.Record),
	}
}

func (r *Repo) Create(ctx context.Context, rec activityrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.Activity.ID]; ok {
		return activityrepo.ErrAlreadyExists
	}
	r.byID[rec.Activity.ID] = cloneRecord(rec)
	return nil
}

func (r *Repo) Save(ctx context.Context, rec activityrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.Activity.ID]; !ok {
		return activityrepo.ErrNotFound
	}
	r.byID[rec.Activity.ID] = cloneRecord(rec)
	return nil
}

func (r *Repo) SaveAll(ctx context.Context, recs []activityrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		if _, ok := r.byID[rec.Activity.ID]; !ok {
			return activityrepo.ErrNotFound
		}
	}
	for _, rec := range recs {
		r.byID[rec.Activity.ID] = cloneRecord(rec)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ActivityID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return activityrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (activityrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return activityrepo.Record{}, activityrepo.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]activityrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]activityrepo.Record, 0)
	for _, rec := range r.byID {
		if rec.Activity.TripID == tripID {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *Repo) ListByTripDay(ctx context.Context, tripID domain.TripID, day domain.Day) ([]activityrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]activityrepo.Record, 0)
	for _, rec := range r.byID {
		if rec.Activity.TripID == tripID && domain.SameDay(rec.Activity.Day, day) {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func cloneRecord(rec activityrepo.Record) activityrepo.Record {
	cp := rec
	cp.Activity.End = cloneTimeOfDayPtr(rec.Activity.End)
	cp.Activity.OpenFrom = cloneTimeOfDayPtr(rec.Activity.OpenFrom)
	cp.Activity.OpenUntil = cloneTimeOfDayPtr(rec.Activity.OpenUntil)
	cp.Activity.Location.Latitude = cloneFloatPtr(rec.Activity.Location.Latitude)
	cp.Activity.Location.Longitude = cloneFloatPtr(rec.Activity.Location.Longitude)
	return cp
}

func cloneTimeOfDayPtr(p *domain.TimeOfDay) *domain.TimeOfDay {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortRecords(recs []activityrepo.Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].Activity, recs[j].Activity
		if !domain.SameDay(a.Day, b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
}
