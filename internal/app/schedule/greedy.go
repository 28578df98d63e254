package schedule

import (
	"context"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
)

// GreedyStrategy is the default sequencing strategy: a forward
// nearest-neighbor walk with conflict-priority re-sequencing.
//
// Locked activities (anchors) keep their exact start times and act as hard
// boundaries for the walk. At each step the cheapest remaining unlocked
// activity is chosen by estimated travel time plus a penalty for how far its
// original slot would have to shift. Chosen activities keep their original
// slot when it is still reachable; otherwise they start after the previous
// activity's end plus travel plus buffer.
type GreedyStrategy struct{}

func (GreedyStrategy) SequenceDay(ctx context.Context, day []domain.Activity, est geoestimator.Estimator, settings Settings) ([]domain.Activity, []domain.ActivityID) {
	if len(day) <= 1 {
		return append([]domain.Activity(nil), day...), nil
	}

	var locked, unlocked []domain.Activity
	for _, a := range day {
		if a.Locked {
			locked = append(locked, a)
		} else {
			unlocked = append(unlocked, a)
		}
	}

	seq := make([]domain.Activity, 0, len(day))
	var unresolved []domain.ActivityID

	// The walk starts from the day's earliest activity; its slot is never
	// shifted.
	var cur domain.Activity
	if len(unlocked) == 0 || (len(locked) > 0 && startsBefore(locked[0], unlocked[0])) {
		cur, locked = locked[0], locked[1:]
	} else {
		cur, unlocked = unlocked[0], unlocked[1:]
	}
	seq = append(seq, cur)

	for len(unlocked) > 0 || len(locked) > 0 {
		if len(unlocked) == 0 {
			cur, locked = locked[0], locked[1:]
			seq = append(seq, cur)
			continue
		}

		curEnd := cur.EndEffective()
		next, rest := pickNext(ctx, cur, unlocked, est, settings)

		travel := 0
		if leg, ok := travelBetween(ctx, est, cur.Location, next.Location, settings.PreferredTransportModes); ok {
			travel = leg.Minutes
		}
		tentative := curEnd.AddMinutes(travel + settings.BufferMinutes)

		start := next.Start
		if tentative > start {
			start = tentative
		}
		if wh := settings.WorkingHours; wh != nil && start < wh.Start {
			start = wh.Start
		}

		// Anchors are hard boundaries: when the pick cannot finish before the
		// next anchor starts, serve the anchor first and retry the pick after.
		if len(locked) > 0 && start.AddMinutes(next.DurationMinutes()) > locked[0].Start {
			cur, locked = locked[0], locked[1:]
			seq = append(seq, cur)
			continue
		}

		if wh := settings.WorkingHours; wh != nil && start.AddMinutes(next.DurationMinutes()) > wh.End {
			if settings.AggressiveOptimization {
				// Push past the window onto the next day's window start.
				next.Day = next.Day.AddDate(0, 0, 1)
				next = retimed(next, wh.Start)
				seq = append(seq, next)
				unlocked = rest
				continue
			}
			// Same-day only: leave the slot untouched and surface it.
			unresolved = append(unresolved, next.ID)
			seq = append(seq, next)
			cur = next
			unlocked = rest
			continue
		}

		if start != next.Start {
			next = retimed(next, start)
		}
		seq = append(seq, next)
		cur = next
		unlocked = rest
	}

	return seq, unresolved
}

// pickNext returns the cheapest candidate by travel time plus slot-shift
// penalty, ties broken by lowest activity ID, plus the remaining candidates.
func pickNext(ctx context.Context, cur domain.Activity, cands []domain.Activity, est geoestimator.Estimator, settings Settings) (domain.Activity, []domain.Activity) {
	curEnd := cur.EndEffective()

	best := 0
	bestCost := -1
	for i, c := range cands {
		travel := 0
		if leg, ok := travelBetween(ctx, est, cur.Location, c.Location, settings.PreferredTransportModes); ok {
			travel = leg.Minutes
		}
		penalty := 0
		if tentative := curEnd.AddMinutes(travel + settings.BufferMinutes); tentative > c.Start {
			penalty = int(tentative - c.Start)
		}
		cost := travel + penalty
		if bestCost < 0 || cost < bestCost || (cost == bestCost && c.ID < cands[best].ID) {
			best, bestCost = i, cost
		}
	}

	chosen := cands[best]
	rest := make([]domain.Activity, 0, len(cands)-1)
	rest = append(rest, cands[:best]...)
	rest = append(rest, cands[best+1:]...)
	return chosen, rest
}

func startsBefore(a, b domain.Activity) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.ID < b.ID
}

// retimed shifts an activity's start, preserving its explicit duration.
func retimed(a domain.Activity, start domain.TimeOfDay) domain.Activity {
	if a.End != nil {
		e := *a.End + (start - a.Start)
		a.End = &e
	}
	a.Start = start
	return a
}
