package reminderrepo

import (
	"context"
	"time"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// Record is the persistence shape used by the reminder repository.
type Record struct {
	Reminder domain.Reminder

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted reminders.
type Repository interface {
	GetByID(ctx context.Context, id domain.ReminderID) (Record, error)

	// ListByTrip returns the trip's reminders ordered by (day, scheduledAt, id).
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]Record, error)

	// Upsert inserts or replaces by reminder ID.
	Upsert(ctx context.Context, r Record) error

	// ReplaceForTrip atomically replaces the trip's reminder set with rs.
	// Used by regeneration, which has already merged user overrides.
	ReplaceForTrip(ctx context.Context, tripID domain.TripID, rs []Record) error

	DeleteByActivity(ctx context.Context, activityID domain.ActivityID) error
}
