package activities

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
	clockport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/clock"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

// Service owns activity CRUD. The schedule engine consumes what this service
// persists; it enforces the per-day invariants the engine relies on (unique
// order values, valid times).
type Service struct {
	activities activityrepo.Repository
	reminders  reminderrepo.Repository
	clk        clockport.Clock

	newActivityID func() domain.ActivityID
}

func NewService(activities activityrepo.Repository, reminders reminderrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		activities: activities,
		reminders:  reminders,
		clk:        clk,
		newActivityID: func() domain.ActivityID {
			return domain.ActivityID(uuid.NewString())
		},
	}
}

// SetNewActivityIDForTest overrides activity ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewActivityIDForTest(fn func() domain.ActivityID) {
	if fn != nil {
		s.newActivityID = fn
	}
}

func (s *Service) ListActivities(ctx context.Context, tripID domain.TripID, day *domain.Day) ([]domain.Activity, error) {
	var (
		recs []activityrepo.Record
		err  error
	)
	if day != nil {
		recs, err = s.activities.ListByTripDay(ctx, tripID, *day)
	} else {
		recs, err = s.activities.ListByTrip(ctx, tripID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Activity)
	}
	return out, nil
}

func (s *Service) GetActivity(ctx context.Context, tripID domain.TripID, id domain.ActivityID) (domain.Activity, error) {
	rec, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return domain.Activity{}, notFound()
		}
		return domain.Activity{}, err
	}
	if rec.Activity.TripID != tripID {
		return domain.Activity{}, notFound()
	}
	return rec.Activity, nil
}

func (s *Service) CreateActivity(ctx context.Context, tripID domain.TripID, in CreateActivityInput) (domain.Activity, error) {
	title := domain.NormalizeTitle(in.Title)
	if title == "" {
		return domain.Activity{}, validation("title", "must be non-empty")
	}
	if in.Day.IsZero() {
		return domain.Activity{}, validation("day", "must be set")
	}
	if !in.Start.Valid() {
		return domain.Activity{}, validation("startTime", "must be a valid time of day")
	}
	if in.End != nil && *in.End <= in.Start {
		return domain.Activity{}, validation("endTime", "must be after startTime")
	}
	loc, err := locationFromInput(in.Location)
	if err != nil {
		return domain.Activity{}, err
	}

	order, err := s.nextOrder(ctx, tripID, in.Day)
	if err != nil {
		return domain.Activity{}, err
	}

	now := s.clk.Now()
	a := domain.Activity{
		ID:        s.newActivityID(),
		TripID:    tripID,
		Title:     title,
		Category:  domain.NormalizeCategory(in.Category),
		Day:       domain.DayOf(in.Day),
		Start:     in.Start,
		End:       cloneTimeOfDayPtr(in.End),
		Location:  loc,
		Order:     order,
		Locked:    in.Locked,
		OpenFrom:  cloneTimeOfDayPtr(in.OpenFrom),
		OpenUntil: cloneTimeOfDayPtr(in.OpenUntil),
	}
	if err := s.activities.Create(ctx, activityrepo.Record{Activity: a, CreatedAt: now, UpdatedAt: now}); err != nil {
		if errors.Is(err, activityrepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Activity{}, &Error{Status: 409, Code: "ACTIVITY_ID_CONFLICT", Message: "activity id conflict"}
		}
		return domain.Activity{}, err
	}
	return a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, tripID domain.TripID, id domain.ActivityID, in UpdateActivityInput) (domain.Activity, error) {
	rec, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return domain.Activity{}, notFound()
		}
		return domain.Activity{}, err
	}
	a := rec.Activity
	if a.TripID != tripID {
		return domain.Activity{}, notFound()
	}

	if in.Title.IsSpecified() {
		if in.Title.IsNull() {
			return domain.Activity{}, validation("title", "cannot be null")
		}
		title := domain.NormalizeTitle(in.Title.Value())
		if title == "" {
			return domain.Activity{}, validation("title", "must be non-empty")
		}
		a.Title = title
	}
	if in.Category.IsSpecified() {
		if in.Category.IsNull() {
			a.Category = ""
		} else {
			a.Category = domain.NormalizeCategory(in.Category.Value())
		}
	}

	dayChanged := false
	if in.Day.IsSpecified() {
		if in.Day.IsNull() {
			return domain.Activity{}, validation("day", "cannot be null")
		}
		day := domain.DayOf(in.Day.Value())
		dayChanged = !domain.SameDay(a.Day, day)
		a.Day = day
	}
	if in.Start.IsSpecified() {
		if in.Start.IsNull() {
			return domain.Activity{}, validation("startTime", "cannot be null")
		}
		if !in.Start.Value().Valid() {
			return domain.Activity{}, validation("startTime", "must be a valid time of day")
		}
		a.Start = in.Start.Value()
	}
	if in.End.IsSpecified() {
		if in.End.IsNull() {
			a.End = nil
		} else {
			v := in.End.Value()
			a.End = &v
		}
	}
	if a.End != nil && *a.End <= a.Start {
		return domain.Activity{}, validation("endTime", "must be after startTime")
	}

	if in.Location.IsSpecified() {
		if in.Location.IsNull() {
			return domain.Activity{}, validation("location", "cannot be null")
		}
		loc, err := locationFromInput(in.Location.Value())
		if err != nil {
			return domain.Activity{}, err
		}
		a.Location = loc
	}
	if in.Locked.IsSpecified() && !in.Locked.IsNull() {
		a.Locked = in.Locked.Value()
	}
	if in.OpenFrom.IsSpecified() {
		if in.OpenFrom.IsNull() {
			a.OpenFrom = nil
		} else {
			v := in.OpenFrom.Value()
			a.OpenFrom = &v
		}
	}
	if in.OpenUntil.IsSpecified() {
		if in.OpenUntil.IsNull() {
			a.OpenUntil = nil
		} else {
			v := in.OpenUntil.Value()
			a.OpenUntil = &v
		}
	}

	// Moving to another day re-slots the activity at the end of that day so
	// order values stay unique per day.
	if dayChanged {
		order, err := s.nextOrder(ctx, tripID, a.Day)
		if err != nil {
			return domain.Activity{}, err
		}
		a.Order = order
	}

	rec.Activity = a
	rec.UpdatedAt = s.clk.Now()
	if err := s.activities.Save(ctx, rec); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

func (s *Service) DeleteActivity(ctx context.Context, tripID domain.TripID, id domain.ActivityID) error {
	rec, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	if rec.Activity.TripID != tripID {
		return notFound()
	}
	if err := s.activities.Delete(ctx, id); err != nil {
		return err
	}
	// Derived reminders go with the activity.
	return s.reminders.DeleteByActivity(ctx, id)
}

func (s *Service) nextOrder(ctx context.Context, tripID domain.TripID, day domain.Day) (int, error) {
	existing, err := s.activities.ListByTripDay(ctx, tripID, domain.DayOf(day))
	if err != nil {
		return 0, err
	}
	next := 0
	for _, r := range existing {
		if r.Activity.Order >= next {
			next = r.Activity.Order + 1
		}
	}
	return next, nil
}

func locationFromInput(in LocationInput) (domain.Location, error) {
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return domain.Location{}, validation("location", "latitude and longitude must be set together")
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return domain.Location{}, validation("location", "latitude must be within [-90, 90]")
		}
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return domain.Location{}, validation("location", "longitude must be within [-180, 180]")
		}
	}
	return domain.Location{
		Name:      domain.NormalizeTitle(in.Name),
		Latitude:  cloneFloatPtr(in.Latitude),
		Longitude: cloneFloatPtr(in.Longitude),
	}, nil
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimeOfDayPtr(p *domain.TimeOfDay) *domain.TimeOfDay {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
