package narrative

import (
	"context"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// Generator turns structured conflict facts into human-readable suggestion
// text. The production implementation is an external LLM-backed service; this
// subsystem only ever hands it structured facts, never raw prompts. A static
// template adapter ships in-repo as the fallback.
type Generator interface {
	SuggestedFix(ctx context.Context, c domain.Conflict, involved []domain.Activity) (string, error)
}
