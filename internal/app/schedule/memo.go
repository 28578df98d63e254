package schedule

import (
	"context"
	"sync"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
)

type memoKey struct {
	origin domain.Coordinates
	dest   domain.Coordinates
	mode   domain.TransportMode
}

type memoEntry struct {
	est geoestimator.Estimate
	err error
}

// MemoEstimator caches estimates per (origin, dest, mode) for the duration of
// one engine pass. Construct one per request; the cache is never shared across
// requests, so the mutex only matters when a single pass fans out per-day work
// to goroutines. Failures are cached too: a pair is asked about once per pass.
type MemoEstimator struct {
	inner geoestimator.Estimator

	mu    sync.Mutex
	cache map[memoKey]memoEntry
}

func NewMemoEstimator(inner geoestimator.Estimator) *MemoEstimator {
	return &MemoEstimator{
		inner: inner,
		cache: make(map[memoKey]memoEntry),
	}
}

func (m *MemoEstimator) TravelTime(ctx context.Context, origin, dest domain.Coordinates, mode domain.TransportMode) (geoestimator.Estimate, error) {
	k := memoKey{origin: origin, dest: dest, mode: mode}

	m.mu.Lock()
	e, ok := m.cache[k]
	m.mu.Unlock()
	if ok {
		return e.est, e.err
	}

	// Misses are computed outside the lock; a stampede on the same pair costs
	// an extra provider call, never an incorrect result.
	est, err := m.inner.TravelTime(ctx, origin, dest, mode)

	m.mu.Lock()
	m.cache[k] = memoEntry{est: est, err: err}
	m.mu.Unlock()
	return est, err
}

// travelBetween estimates the leg between two locations, consulting preferred
// modes in order. ok is false when either endpoint lacks coordinates or every
// mode fails; callers treat that as "no distance data" and skip
// distance-based checks.
func travelBetween(ctx context.Context, est geoestimator.Estimator, from, to domain.Location, modes []domain.TransportMode) (geoestimator.Estimate, bool) {
	if !from.Resolved() || !to.Resolved() {
		return geoestimator.Estimate{}, false
	}
	for _, mode := range modes {
		e, err := est.TravelTime(ctx, from.Coords(), to.Coords(), mode)
		if err == nil {
			return e, true
		}
	}
	return geoestimator.Estimate{}, false
}
