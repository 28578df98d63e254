// Package haversine provides the in-process travel-time estimator:
// great-circle distance with per-mode average speeds. It is the default when
// no external mapping provider is configured.
package haversine

import (
	"context"
	"math"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
)

const earthRadiusKm = 6371.0

type modeProfile struct {
	speedKmh        float64
	overheadMinutes int
}

// Average urban speeds; the overhead absorbs parking, waiting, and the walk
// to/from the vehicle.
var profiles = map[domain.TransportMode]modeProfile{
	domain.TransportModeWalking: {speedKmh: 4.5, overheadMinutes: 0},
	domain.TransportModeDriving: {speedKmh: 35, overheadMinutes: 8},
	domain.TransportModeTransit: {speedKmh: 22, overheadMinutes: 10},
}

// Estimator implements geoestimator.Estimator using haversine distance.
// It is stateless and safe for concurrent use.
type Estimator struct{}

func New() Estimator { return Estimator{} }

func (Estimator) TravelTime(_ context.Context, origin, dest domain.Coordinates, mode domain.TransportMode) (geoestimator.Estimate, error) {
	p, ok := profiles[mode]
	if !ok {
		return geoestimator.Estimate{}, geoestimator.ErrEstimationUnavailable
	}

	km := DistanceKm(origin, dest)
	minutes := p.overheadMinutes + int(math.Ceil(km/p.speedKmh*60))
	return geoestimator.Estimate{Minutes: minutes, DistanceKm: km}, nil
}

// DistanceKm is the great-circle distance between two coordinates.
func DistanceKm(a, b domain.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
