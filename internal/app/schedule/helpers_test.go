package schedule

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
)

// lineEstimator places every location on a line: travel minutes between two
// points is the absolute latitude difference, regardless of mode. Fully
// deterministic and easy to reason about in fixtures.
type lineEstimator struct{}

func (*lineEstimator) TravelTime(_ context.Context, o, d domain.Coordinates, _ domain.TransportMode) (geoestimator.Estimate, error) {
	delta := math.Abs(o.Latitude - d.Latitude)
	return geoestimator.Estimate{Minutes: int(delta), DistanceKm: delta}, nil
}

type failingEstimator struct{}

func (failingEstimator) TravelTime(context.Context, domain.Coordinates, domain.Coordinates, domain.TransportMode) (geoestimator.Estimate, error) {
	return geoestimator.Estimate{}, geoestimator.ErrEstimationUnavailable
}

func testDay(t *testing.T, s string) domain.Day {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return domain.DayOf(d)
}

func tod(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	v, err := domain.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return v
}

func at(lat float64) domain.Location {
	lon := 0.0
	return domain.Location{Name: "place", Latitude: &lat, Longitude: &lon}
}

func nowhere() domain.Location {
	return domain.Location{Name: "unknown place"}
}

// act builds a fixture activity; end may be "" for an open end.
func act(t *testing.T, id, day, start, end string, loc domain.Location) domain.Activity {
	t.Helper()
	a := domain.Activity{
		ID:       domain.ActivityID(id),
		TripID:   "trip-1",
		Title:    "Activity " + id,
		Day:      testDay(t, day),
		Start:    tod(t, start),
		Location: loc,
	}
	if end != "" {
		e := tod(t, end)
		a.End = &e
	}
	return a
}

func activityByID(t *testing.T, as []domain.Activity, id domain.ActivityID) domain.Activity {
	t.Helper()
	for _, a := range as {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("activity %s not found", id)
	return domain.Activity{}
}
