package activityrepo

import (
	"context"
	"time"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// Record is the persistence shape used by the activity repository.
// It is not an HTTP DTO.
type Record struct {
	Activity domain.Activity

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted activities.
//
// Result ordering expectations:
// - List methods return activities in canonical (day, start, order, id) order.
type Repository interface {
	Create(ctx context.Context, r Record) error
	Save(ctx context.Context, r Record) error
	Delete(ctx context.Context, id domain.ActivityID) error

	GetByID(ctx context.Context, id domain.ActivityID) (Record, error)

	// ListByTrip returns every activity of the trip.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]Record, error)

	// ListByTripDay returns the trip's activities on one calendar day.
	ListByTripDay(ctx context.Context, tripID domain.TripID, day domain.Day) ([]Record, error)

	// SaveAll persists a batch of updated activities atomically (one schedule
	// rewrite from the optimizer or auto-fix applier).
	SaveAll(ctx context.Context, rs []Record) error
}
