package schedule

import "github.com/wayfarer-travel/itinerary-api/internal/domain"

// WorkingHours is an optional daily scheduling window. When set, the
// optimizer never places an activity outside it.
type WorkingHours struct {
	Start domain.TimeOfDay
	End   domain.TimeOfDay
}

// Settings configures detection and optimization. Construct with
// DefaultSettings and override fields explicitly; the zero value of any field
// falls back to its documented default.
type Settings struct {
	// BufferMinutes is inserted after every travel leg to absorb estimation
	// error. Default 15.
	BufferMinutes int

	// MaxTravelMinutes is the soft ceiling on a single leg; beyond it the
	// detector flags LONG_DISTANCE and the optimizer penalizes the leg.
	// Default 60.
	MaxTravelMinutes int

	// AggressiveOptimization allows moving activities across days (deferring
	// working-hours overflow to the next day). When false the optimizer only
	// reorders within the same day. Default false.
	AggressiveOptimization bool

	// PreferredTransportModes is consulted in order; the first mode the
	// estimator can serve wins. Default [DRIVING, WALKING].
	PreferredTransportModes []domain.TransportMode

	// WorkingHours is optional; nil means unconstrained.
	WorkingHours *WorkingHours
}

func DefaultSettings() Settings {
	return Settings{
		BufferMinutes:    15,
		MaxTravelMinutes: 60,
		PreferredTransportModes: []domain.TransportMode{
			domain.TransportModeDriving,
			domain.TransportModeWalking,
		},
	}
}

// withDefaults fills unset fields so partially-populated settings behave like
// the documented defaults (missing keys never error).
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.BufferMinutes <= 0 {
		s.BufferMinutes = def.BufferMinutes
	}
	if s.MaxTravelMinutes <= 0 {
		s.MaxTravelMinutes = def.MaxTravelMinutes
	}
	if len(s.PreferredTransportModes) == 0 {
		s.PreferredTransportModes = def.PreferredTransportModes
	}
	if s.WorkingHours != nil && s.WorkingHours.End <= s.WorkingHours.Start {
		s.WorkingHours = nil
	}
	return s
}
