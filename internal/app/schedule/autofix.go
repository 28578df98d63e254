package schedule

import (
	"sort"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// AutoFixApplier applies the deterministic shift fixes attached to
// auto-fixable conflicts. It performs exactly one pass over the requested
// conflict set and never loops to a fixed point: residual conflicts must
// surface to the user on re-detection rather than being silently iterated
// away.
type AutoFixApplier struct{}

func NewAutoFixApplier() *AutoFixApplier { return &AutoFixApplier{} }

// Apply returns a new activity list with exactly the requested fixes applied.
// Unrelated activities are untouched. It fails with INVALID_FIX when any
// requested ID is unknown or not auto-fixable; nothing is applied partially.
//
// Fixes are applied in chronological order of each conflict's earlier
// activity, with the required gap recomputed against the current (mutating)
// schedule, so a shift never un-fixes a fix already applied earlier in the
// day.
func (f *AutoFixApplier) Apply(activities []domain.Activity, conflicts []domain.Conflict, conflictIDs []domain.ConflictID) ([]domain.Activity, error) {
	if err := ValidateActivities(activities); err != nil {
		return nil, err
	}

	byID := make(map[domain.ConflictID]domain.Conflict, len(conflicts))
	for _, c := range conflicts {
		byID[c.ID] = c
	}

	selected := make([]domain.Conflict, 0, len(conflictIDs))
	seen := make(map[domain.ConflictID]bool, len(conflictIDs))
	for _, id := range conflictIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := byID[id]
		if !ok {
			return nil, invalidFix("unknown conflict", map[string]any{"conflictId": string(id)})
		}
		if !c.AutoFixAvailable {
			return nil, invalidFix("conflict is not auto-fixable", map[string]any{
				"conflictId": string(id),
				"type":       string(c.Type),
			})
		}
		selected = append(selected, c)
	}

	out := append([]domain.Activity(nil), activities...)
	pos := make(map[domain.ActivityID]int, len(out))
	for i, a := range out {
		pos[a.ID] = i
	}

	for _, c := range selected {
		if _, ok := pos[c.EarlierActivityID]; !ok {
			return nil, invalidFix("conflict references a missing activity", map[string]any{
				"conflictId": string(c.ID),
				"activityId": string(c.EarlierActivityID),
			})
		}
		if _, ok := pos[c.ShiftActivityID]; !ok {
			return nil, invalidFix("conflict references a missing activity", map[string]any{
				"conflictId": string(c.ID),
				"activityId": string(c.ShiftActivityID),
			})
		}
	}

	// Chronological order of the earlier activity in each conflict.
	sort.SliceStable(selected, func(i, j int) bool {
		a := out[pos[selected[i].EarlierActivityID]]
		b := out[pos[selected[j].EarlierActivityID]]
		if !domain.SameDay(a.Day, b.Day) {
			return a.Day.Before(b.Day)
		}
		return startsBefore(a, b)
	})

	for _, c := range selected {
		earlier := out[pos[c.EarlierActivityID]]
		target := earlier.EndEffective().AddMinutes(c.RequiredGapMinutes)

		i := pos[c.ShiftActivityID]
		// Never pull an activity earlier: a previous fix may already have
		// pushed it past this conflict's target.
		if out[i].Start < target {
			out[i] = retimed(out[i], target)
		}
	}
	return out, nil
}
