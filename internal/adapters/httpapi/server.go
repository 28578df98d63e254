package httpapi

import (
	"github.com/wayfarer-travel/itinerary-api/internal/app/activities"
	"github.com/wayfarer-travel/itinerary-api/internal/app/schedule"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/idempotency"
)

// Server is the HTTP adapter. It decodes requests, delegates to the app
// services, and maps app errors onto the wire envelope.
type Server struct {
	Activities *activities.Service
	Schedule   *schedule.Service
	Idem       idempotency.Store

	// Defaults seeds per-request engine settings; request bodies override
	// individual fields. The zero value falls back to the engine defaults.
	Defaults schedule.Settings
}

func NewServer(activitiesSvc *activities.Service, scheduleSvc *schedule.Service, idem idempotency.Store) *Server {
	return &Server{
		Activities: activitiesSvc,
		Schedule:   scheduleSvc,
		Idem:       idem,
	}
}
