// Package static is the fallback narrative generator: fixed templates over
// the structured conflict facts. The production deployment swaps in an
// LLM-backed implementation behind the same port.
package static

import (
	"context"
	"fmt"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

type Generator struct{}

func New() Generator { return Generator{} }

func (Generator) SuggestedFix(_ context.Context, c domain.Conflict, involved []domain.Activity) (string, error) {
	names := titlesByID(involved)

	switch c.Type {
	case domain.ConflictTypeOverlap:
		return fmt.Sprintf("%s overlaps %s by %d min; push %s back to start when %s ends.",
			names(c.ShiftActivityID), names(c.EarlierActivityID), c.DeficitMinutes,
			names(c.ShiftActivityID), names(c.EarlierActivityID)), nil
	case domain.ConflictTypeTightConnection:
		return fmt.Sprintf("Only a tight connection before %s: the trip takes about %d min. Start it %d min later.",
			names(c.ShiftActivityID), c.TravelMinutes, c.RequiredGapMinutes), nil
	case domain.ConflictTypeLongDistance:
		return fmt.Sprintf("These stops are about %d min apart, %d min over your travel limit. Consider a closer alternative.",
			c.TravelMinutes, c.TravelExcessOver), nil
	case domain.ConflictTypeVenueUnavailable:
		return fmt.Sprintf("%s is scheduled outside the venue's opening hours.", names(firstID(c))), nil
	default:
		return "", nil
	}
}

func titlesByID(involved []domain.Activity) func(domain.ActivityID) string {
	m := make(map[domain.ActivityID]string, len(involved))
	for _, a := range involved {
		m[a.ID] = a.Title
	}
	return func(id domain.ActivityID) string {
		if t, ok := m[id]; ok && t != "" {
			return t
		}
		return "this activity"
	}
}

func firstID(c domain.Conflict) domain.ActivityID {
	if len(c.ActivityIDs) > 0 {
		return c.ActivityIDs[0]
	}
	return ""
}
