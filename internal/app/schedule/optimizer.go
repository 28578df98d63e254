package schedule

import (
	"context"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/geoestimator"
)

// Strategy sequences one day's activities. day is non-empty and canonically
// sorted. Implementations must be deterministic: identical inputs produce
// identical sequences (ties broken by lowest activity ID).
//
// The default is a greedy nearest-neighbor pass; per-day activity counts are
// small (typically <= 15), so a TSP-optimal solver is deliberately not
// required, but a stronger one can be plugged in without changing the
// Optimizer contract.
type Strategy interface {
	SequenceDay(ctx context.Context, day []domain.Activity, est geoestimator.Estimator, settings Settings) (seq []domain.Activity, unresolved []domain.ActivityID)
}

// Optimizer proposes a reordering/retiming of a schedule that reduces total
// travel time and resolves conflicts. It never worsens a schedule: when the
// strategy's candidate is not an improvement, the original ordering is
// returned with zero gain.
type Optimizer struct {
	detector *Detector
	strategy Strategy
}

func NewOptimizer(detector *Detector) *Optimizer {
	return &Optimizer{detector: detector, strategy: GreedyStrategy{}}
}

func NewOptimizerWithStrategy(detector *Detector, strategy Strategy) *Optimizer {
	return &Optimizer{detector: detector, strategy: strategy}
}

func (o *Optimizer) Optimize(ctx context.Context, activities []domain.Activity, conflicts []domain.Conflict, est geoestimator.Estimator, settings Settings) (domain.OptimizationResult, error) {
	if err := ValidateActivities(activities); err != nil {
		return domain.OptimizationResult{}, err
	}
	settings = settings.withDefaults()

	original := append([]domain.Activity(nil), activities...)
	domain.SortActivities(original)

	if len(original) == 0 {
		return emptyResult(), nil
	}

	var candidate []domain.Activity
	var unresolved []domain.ActivityID
	for _, day := range domain.GroupByDay(original) {
		seq, unres := o.strategy.SequenceDay(ctx, day, est, settings)
		candidate = append(candidate, seq...)
		unresolved = append(unresolved, unres...)
	}
	assignOrders(candidate)

	originalTravel := totalTravelMinutes(ctx, est, original, settings)
	candidateTravel := totalTravelMinutes(ctx, est, candidate, settings)
	reduced := originalTravel - candidateTravel

	resolved := o.countResolved(ctx, conflicts, candidate, est, settings)

	if reduced <= 0 && resolved == 0 {
		res := emptyResult()
		res.ReorderedActivities = original
		return res, nil
	}
	if reduced < 0 {
		reduced = 0
	}

	gain := 100 * reduced / maxInt(1, originalTravel)
	if gain > 100 {
		gain = 100
	}

	result := domain.OptimizationResult{
		ReorderedActivities:      candidate,
		TravelTimeReducedMinutes: reduced,
		ConflictsResolved:        resolved,
		EfficiencyGainPercent:    gain,
		Improvements:             diffImprovements(original, candidate),
		UnresolvedActivityIDs:    unresolved,
	}
	domain.SortActivities(result.ReorderedActivities)
	return result, nil
}

func (o *Optimizer) countResolved(ctx context.Context, conflicts []domain.Conflict, candidate []domain.Activity, est geoestimator.Estimator, settings Settings) int {
	if len(conflicts) == 0 {
		return 0
	}
	after, err := o.detector.Detect(ctx, candidate, est, settings)
	if err != nil {
		return 0
	}
	still := make(map[string]bool, len(after))
	for _, c := range after {
		still[c.ConflictKey()] = true
	}
	resolved := 0
	for _, c := range conflicts {
		if !still[c.ConflictKey()] {
			resolved++
		}
	}
	return resolved
}

func emptyResult() domain.OptimizationResult {
	return domain.OptimizationResult{
		ReorderedActivities: []domain.Activity{},
		Improvements:        []domain.Improvement{},
	}
}

// totalTravelMinutes sums the estimated travel of consecutive same-day legs.
// Legs without distance data contribute zero.
func totalTravelMinutes(ctx context.Context, est geoestimator.Estimator, activities []domain.Activity, settings Settings) int {
	total := 0
	for _, day := range domain.GroupByDay(activities) {
		for i := 0; i+1 < len(day); i++ {
			if leg, ok := travelBetween(ctx, est, day[i].Location, day[i+1].Location, settings.PreferredTransportModes); ok {
				total += leg.Minutes
			}
		}
	}
	return total
}

// assignOrders rewrites Order as the position within each day, preserving
// slice order, so (start, order) stays a total order after retiming.
func assignOrders(activities []domain.Activity) {
	counters := make(map[string]int)
	for i := range activities {
		key := activities[i].Day.Format("2006-01-02")
		activities[i].Order = counters[key]
		counters[key]++
	}
}

func diffImprovements(original, candidate []domain.Activity) []domain.Improvement {
	type slot struct {
		day   string
		pos   int
		start domain.TimeOfDay
	}
	index := func(as []domain.Activity) map[domain.ActivityID]slot {
		m := make(map[domain.ActivityID]slot, len(as))
		for _, day := range domain.GroupByDay(as) {
			for i, a := range day {
				m[a.ID] = slot{day: a.Day.Format("2006-01-02"), pos: i, start: a.Start}
			}
		}
		return m
	}
	before := index(original)
	after := index(candidate)

	out := []domain.Improvement{}
	for _, a := range original {
		b, c := before[a.ID], after[a.ID]
		shifted := int(c.start - b.start)
		if shifted < 0 {
			shifted = -shifted
		}
		var kind domain.ImprovementKind
		switch {
		case b.day != c.day:
			kind = domain.ImprovementDeferred
		case b.pos != c.pos:
			kind = domain.ImprovementReordered
		case b.start != c.start:
			kind = domain.ImprovementRetimed
		default:
			continue
		}
		out = append(out, domain.Improvement{
			ActivityID:     a.ID,
			Kind:           kind,
			MinutesShifted: shifted,
			Impact:         impactScore(kind, shifted),
		})
	}
	return out
}

func impactScore(kind domain.ImprovementKind, minutesShifted int) int {
	base := 2
	switch kind {
	case domain.ImprovementReordered:
		base = 4
	case domain.ImprovementDeferred:
		base = 6
	}
	s := base + minutesShifted/30
	if s > 10 {
		s = 10
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
