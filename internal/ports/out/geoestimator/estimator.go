package geoestimator

import (
	"context"
	"errors"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// ErrEstimationUnavailable signals an estimator I/O failure (unreachable
// provider, unroutable pair). Callers degrade to time-only checks; it is never
// fatal to a detection or optimization pass.
var ErrEstimationUnavailable = errors.New("travel estimation unavailable")

// Estimate is a travel leg estimate between two coordinates.
type Estimate struct {
	Minutes    int
	DistanceKm float64
}

// Estimator provides travel-time estimates between coordinates.
//
// In the real deployment this is a network call to a mapping provider, so it
// is modeled as an injectable capability: deterministic fakes in tests, a
// haversine adapter as the in-process default. Implementations must be safe
// for concurrent use; callers memoize per (origin, dest, mode) within a single
// engine pass.
type Estimator interface {
	TravelTime(ctx context.Context, origin, dest domain.Coordinates, mode domain.TransportMode) (Estimate, error)
}
