package schedule

import (
	"context"
	"errors"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
	clockport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/clock"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/narrative"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

// Service runs the engine against persisted schedules. The engine itself is
// pure; this layer loads inputs, scopes one estimator memo cache per request,
// and persists accepted changes.
type Service struct {
	activities activityrepo.Repository
	reminders  reminderrepo.Repository
	estimator  geoestimator.Estimator
	clk        clockport.Clock

	detector  *Detector
	optimizer *Optimizer
	applier   *AutoFixApplier
	scheduler *ReminderScheduler
}

func NewService(activities activityrepo.Repository, reminders reminderrepo.Repository, estimator geoestimator.Estimator, clk clockport.Clock, narrator narrative.Generator) *Service {
	detector := NewDetector(narrator)
	return &Service{
		activities: activities,
		reminders:  reminders,
		estimator:  estimator,
		clk:        clk,
		detector:   detector,
		optimizer:  NewOptimizer(detector),
		applier:    NewAutoFixApplier(),
		scheduler:  NewReminderScheduler(),
	}
}

// Review is the full read-only engine output for a trip's schedule.
type Review struct {
	Activities   []domain.Activity
	Conflicts    []domain.Conflict
	Optimization domain.OptimizationResult
	Reminders    []domain.Reminder
}

// AutoFixOutcome reports the applied schedule and the conflicts that remain
// after a re-detection pass.
type AutoFixOutcome struct {
	Activities []domain.Activity
	Residual   []domain.Conflict
}

// GetReview computes conflicts, an optimization suggestion, and a reminder
// preview in one pass. Nothing is persisted; the caller decides what to
// accept. day restricts the review to one calendar day when non-nil.
func (s *Service) GetReview(ctx context.Context, tripID domain.TripID, day *domain.Day, settings Settings) (Review, error) {
	acts, err := s.loadActivities(ctx, tripID, day)
	if err != nil {
		return Review{}, err
	}

	est := NewMemoEstimator(s.estimator)
	conflicts, err := s.detector.Detect(ctx, acts, est, settings)
	if err != nil {
		return Review{}, err
	}
	opt, err := s.optimizer.Optimize(ctx, acts, conflicts, est, settings)
	if err != nil {
		return Review{}, err
	}
	existing, err := s.existingReminders(ctx, tripID)
	if err != nil {
		return Review{}, err
	}

	return Review{
		Activities:   acts,
		Conflicts:    conflicts,
		Optimization: opt,
		Reminders:    s.scheduler.Generate(acts, existing, settings),
	}, nil
}

// Optimize returns a reordering suggestion without persisting it.
func (s *Service) Optimize(ctx context.Context, tripID domain.TripID, day *domain.Day, settings Settings) (domain.OptimizationResult, error) {
	acts, err := s.loadActivities(ctx, tripID, day)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	est := NewMemoEstimator(s.estimator)
	conflicts, err := s.detector.Detect(ctx, acts, est, settings)
	if err != nil {
		return domain.OptimizationResult{}, err
	}
	return s.optimizer.Optimize(ctx, acts, conflicts, est, settings)
}

// ApplyAutoFixes re-detects, applies exactly the requested fixes, persists
// the shifted activities, and reports residual conflicts from a fresh
// detection pass over the saved schedule.
func (s *Service) ApplyAutoFixes(ctx context.Context, tripID domain.TripID, conflictIDs []domain.ConflictID, settings Settings) (AutoFixOutcome, error) {
	recs, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return AutoFixOutcome{}, err
	}
	acts := toActivities(recs)

	est := NewMemoEstimator(s.estimator)
	conflicts, err := s.detector.Detect(ctx, acts, est, settings)
	if err != nil {
		return AutoFixOutcome{}, err
	}

	fixed, err := s.applier.Apply(acts, conflicts, conflictIDs)
	if err != nil {
		return AutoFixOutcome{}, err
	}

	if err := s.saveShifted(ctx, recs, fixed); err != nil {
		return AutoFixOutcome{}, err
	}

	residual, err := s.detector.Detect(ctx, fixed, est, settings)
	if err != nil {
		return AutoFixOutcome{}, err
	}
	domain.SortActivities(fixed)
	return AutoFixOutcome{Activities: fixed, Residual: residual}, nil
}

// RegenerateReminders rebuilds the trip's reminder set from its current
// schedule, preserving user overrides by (activity, type), and persists the
// result.
func (s *Service) RegenerateReminders(ctx context.Context, tripID domain.TripID, settings Settings) ([]domain.Reminder, error) {
	recs, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	acts := toActivities(recs)
	if err := ValidateActivities(acts); err != nil {
		return nil, err
	}

	existingRecs, err := s.reminders.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	createdAt := make(map[domain.ReminderID]reminderrepo.Record, len(existingRecs))
	existing := make([]domain.Reminder, 0, len(existingRecs))
	for _, r := range existingRecs {
		createdAt[r.Reminder.ID] = r
		existing = append(existing, r.Reminder)
	}

	generated := s.scheduler.Generate(acts, existing, settings)

	now := s.clk.Now()
	out := make([]reminderrepo.Record, 0, len(generated))
	for _, r := range generated {
		r.TripID = tripID
		rec := reminderrepo.Record{Reminder: r, CreatedAt: now, UpdatedAt: now}
		if prev, ok := createdAt[r.ID]; ok {
			rec.CreatedAt = prev.CreatedAt
		}
		out = append(out, rec)
	}
	if err := s.reminders.ReplaceForTrip(ctx, tripID, out); err != nil {
		return nil, err
	}
	return generated, nil
}

// ReminderPatch carries user overrides; nil fields are left unchanged.
type ReminderPatch struct {
	MinutesBefore *int
	Enabled       *bool
}

func (s *Service) UpdateReminder(ctx context.Context, tripID domain.TripID, id domain.ReminderID, patch ReminderPatch) (domain.Reminder, error) {
	rec, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reminderrepo.ErrNotFound) {
			return domain.Reminder{}, &Error{Status: 404, Code: "REMINDER_NOT_FOUND", Message: "reminder not found"}
		}
		return domain.Reminder{}, err
	}
	if rec.Reminder.TripID != tripID {
		return domain.Reminder{}, &Error{Status: 404, Code: "REMINDER_NOT_FOUND", Message: "reminder not found"}
	}

	if patch.MinutesBefore != nil {
		if *patch.MinutesBefore < 0 {
			return domain.Reminder{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid minutesBefore", Details: map[string]any{"minutesBefore": "must be >= 0"}}
		}
		rec.Reminder.MinutesBefore = *patch.MinutesBefore
	}
	if patch.Enabled != nil {
		rec.Reminder.Enabled = *patch.Enabled
	}

	// Re-derive the scheduled time from the related activity's current start.
	if act, err := s.activities.GetByID(ctx, rec.Reminder.RelatedActivityID); err == nil {
		rec.Reminder.Day = act.Activity.Day
		rec.Reminder.ScheduledAt = leadTime(act.Activity.Start, rec.Reminder.MinutesBefore)
	}

	rec.UpdatedAt = s.clk.Now()
	if err := s.reminders.Upsert(ctx, rec); err != nil {
		return domain.Reminder{}, err
	}
	return rec.Reminder, nil
}

func (s *Service) loadActivities(ctx context.Context, tripID domain.TripID, day *domain.Day) ([]domain.Activity, error) {
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
	return toActivities(recs), nil
}

func (s *Service) existingReminders(ctx context.Context, tripID domain.TripID) ([]domain.Reminder, error) {
	recs, err := s.reminders.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reminder, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Reminder)
	}
	return out, nil
}

// saveShifted persists only the activities whose times actually changed.
func (s *Service) saveShifted(ctx context.Context, before []activityrepo.Record, after []domain.Activity) error {
	prior := make(map[domain.ActivityID]activityrepo.Record, len(before))
	for _, r := range before {
		prior[r.Activity.ID] = r
	}

	now := s.clk.Now()
	changed := make([]activityrepo.Record, 0)
	for _, a := range after {
		prev, ok := prior[a.ID]
		if !ok {
			continue
		}
		if prev.Activity.Start == a.Start && prev.Activity.Order == a.Order {
			continue
		}
		changed = append(changed, activityrepo.Record{
			Activity:  a,
			CreatedAt: prev.CreatedAt,
			UpdatedAt: now,
		})
	}
	if len(changed) == 0 {
		return nil
	}
	return s.activities.SaveAll(ctx, changed)
}

func toActivities(recs []activityrepo.Record) []domain.Activity {
	out := make([]domain.Activity, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Activity)
	}
	return out
}
