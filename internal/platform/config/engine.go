package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wayfarer-travel/itinerary-api/internal/app/schedule"
	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// EngineConfig holds deployment-level defaults for the schedule engine.
// Per-request settings in an API body override these.
type EngineConfig struct {
	BufferMinutes    int
	MaxTravelMinutes int
}

func LoadEngineConfigFromEnv() (EngineConfig, error) {
	def := schedule.DefaultSettings()
	cfg := EngineConfig{
		BufferMinutes:    def.BufferMinutes,
		MaxTravelMinutes: def.MaxTravelMinutes,
	}

	if v := os.Getenv("ENGINE_BUFFER_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n >= domain.MinutesPerDay {
			return EngineConfig{}, fmt.Errorf("ENGINE_BUFFER_MINUTES must be a minute count in [0, %d): %q", domain.MinutesPerDay, v)
		}
		cfg.BufferMinutes = n
	}
	if v := os.Getenv("ENGINE_MAX_TRAVEL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n >= domain.MinutesPerDay {
			return EngineConfig{}, fmt.Errorf("ENGINE_MAX_TRAVEL_MINUTES must be a minute count in (0, %d): %q", domain.MinutesPerDay, v)
		}
		cfg.MaxTravelMinutes = n
	}

	return cfg, nil
}
