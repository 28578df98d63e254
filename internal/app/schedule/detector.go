package schedule

import (
	"context"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/narrative"
)

// Detector scans a day's ordered activities and produces typed conflicts.
//
// Detection is a pure function of its inputs: conflicts are recomputed from
// scratch on every pass, keyed by content, so equal schedules yield equal
// conflict sets. Only adjacent pairs in (start, order) order are compared;
// callers are expected to re-run detection after applying fixes rather than
// assuming a single pass is complete.
type Detector struct {
	narrator narrative.Generator
}

// NewDetector constructs a Detector. narrator may be nil, in which case
// SuggestedFix text is left empty (the facts fields are always populated).
func NewDetector(narrator narrative.Generator) *Detector {
	return &Detector{narrator: narrator}
}

// Detect validates the batch and returns every conflict on every day of the
// given activities. Estimator failures degrade to time-only checks for the
// affected pair; they never fail the pass.
func (d *Detector) Detect(ctx context.Context, activities []domain.Activity, est geoestimator.Estimator, settings Settings) ([]domain.Conflict, error) {
	if err := ValidateActivities(activities); err != nil {
		return nil, err
	}
	settings = settings.withDefaults()

	byID := make(map[domain.ActivityID]domain.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}

	conflicts := []domain.Conflict{}
	for _, day := range domain.GroupByDay(activities) {
		conflicts = append(conflicts, d.detectDay(ctx, day, est, settings)...)
	}

	for i := range conflicts {
		conflicts[i].SuggestedFix = d.suggestFix(ctx, conflicts[i], byID)
	}
	return conflicts, nil
}

// detectDay assumes day is non-empty and canonically sorted.
func (d *Detector) detectDay(ctx context.Context, day []domain.Activity, est geoestimator.Estimator, settings Settings) []domain.Conflict {
	var out []domain.Conflict

	for _, a := range day {
		if c, ok := venueConflict(a); ok {
			out = append(out, c)
		}
	}

	for i := 0; i+1 < len(day); i++ {
		a, b := day[i], day[i+1]
		aEnd := a.EndEffective()
		pair := []domain.ActivityID{a.ID, b.ID}

		if aEnd > b.Start {
			out = append(out, domain.Conflict{
				ID:                domain.NewConflictID(domain.ConflictTypeOverlap, pair),
				Type:              domain.ConflictTypeOverlap,
				Severity:          domain.SeverityHigh,
				ActivityIDs:       pair,
				AutoFixAvailable:  true,
				EarlierActivityID: a.ID,
				ShiftActivityID:   b.ID,
				DeficitMinutes:    int(aEnd - b.Start),
			})
			continue
		}

		leg, ok := travelBetween(ctx, est, a.Location, b.Location, settings.PreferredTransportModes)
		if !ok {
			// Missing coordinates and estimator failures look the same here:
			// no distance data, so only the time checks above apply.
			continue
		}

		gap := int(b.Start - aEnd)
		if gap < leg.Minutes+settings.BufferMinutes {
			deficit := leg.Minutes - gap
			severity := domain.SeverityMedium
			if deficit >= 15 {
				severity = domain.SeverityHigh
			}
			out = append(out, domain.Conflict{
				ID:                 domain.NewConflictID(domain.ConflictTypeTightConnection, pair),
				Type:               domain.ConflictTypeTightConnection,
				Severity:           severity,
				ActivityIDs:        pair,
				AutoFixAvailable:   true,
				EarlierActivityID:  a.ID,
				ShiftActivityID:    b.ID,
				RequiredGapMinutes: leg.Minutes + settings.BufferMinutes,
				DeficitMinutes:     deficit,
				TravelMinutes:      leg.Minutes,
			})
		} else if leg.Minutes > settings.MaxTravelMinutes {
			excess := leg.Minutes - settings.MaxTravelMinutes
			severity := domain.SeverityHigh
			switch {
			case excess < 15:
				severity = domain.SeverityLow
			case excess < 45:
				severity = domain.SeverityMedium
			}
			// No deterministic fix for a far-apart pair; flagged for review.
			out = append(out, domain.Conflict{
				ID:               domain.NewConflictID(domain.ConflictTypeLongDistance, pair),
				Type:             domain.ConflictTypeLongDistance,
				Severity:         severity,
				ActivityIDs:      pair,
				TravelMinutes:    leg.Minutes,
				TravelExcessOver: excess,
			})
		}
	}
	return out
}

func venueConflict(a domain.Activity) (domain.Conflict, bool) {
	outside := false
	if a.OpenFrom != nil && a.Start < *a.OpenFrom {
		outside = true
	}
	if a.OpenUntil != nil && a.EndEffective() > *a.OpenUntil {
		outside = true
	}
	if !outside {
		return domain.Conflict{}, false
	}
	ids := []domain.ActivityID{a.ID}
	return domain.Conflict{
		ID:          domain.NewConflictID(domain.ConflictTypeVenueUnavailable, ids),
		Type:        domain.ConflictTypeVenueUnavailable,
		Severity:    domain.SeverityHigh,
		ActivityIDs: ids,
	}, true
}

func (d *Detector) suggestFix(ctx context.Context, c domain.Conflict, byID map[domain.ActivityID]domain.Activity) string {
	if d.narrator == nil {
		return ""
	}
	involved := make([]domain.Activity, 0, len(c.ActivityIDs))
	for _, id := range c.ActivityIDs {
		if a, ok := byID[id]; ok {
			involved = append(involved, a)
		}
	}
	text, err := d.narrator.SuggestedFix(ctx, c, involved)
	if err != nil {
		// Suggestion text is cosmetic; the structured facts stand on their own.
		return ""
	}
	return text
}

// ValidateActivities rejects a batch containing activities with missing
// required fields. Partial schedules produce misleading conflict sets, so the
// whole batch is rejected rather than silently skipping records.
func ValidateActivities(activities []domain.Activity) error {
	for _, a := range activities {
		switch {
		case a.ID == "":
			return malformedActivity("id", "must be non-empty")
		case a.Day.IsZero():
			return malformedActivity("day", "must be set")
		case !a.Start.Valid():
			return malformedActivity("startTime", "must be a valid time of day")
		case a.End != nil && *a.End <= a.Start:
			return malformedActivity("endTime", "must be after startTime")
		}
	}
	return nil
}
