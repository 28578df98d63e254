package domain

type ImprovementKind string

const (
	ImprovementReordered ImprovementKind = "REORDERED"
	ImprovementRetimed   ImprovementKind = "RETIMED"
	ImprovementDeferred  ImprovementKind = "DEFERRED"
)

// Improvement is one discrete change the optimizer made, as structured facts.
// Human-readable phrasing is the narrative collaborator's job.
type Improvement struct {
	ActivityID ActivityID
	Kind       ImprovementKind

	// MinutesShifted is how far the activity's start moved (absolute value).
	MinutesShifted int

	// Impact scores the change 0-10.
	Impact int
}

// OptimizationResult is the outcome of one optimization pass over a schedule.
type OptimizationResult struct {
	// ReorderedActivities carries the same activity identities with possibly
	// different Start/Order values. Locked activities are untouched.
	ReorderedActivities []Activity

	TravelTimeReducedMinutes int
	ConflictsResolved        int

	// EfficiencyGainPercent is the percentage reduction in total
	// inter-activity travel time, clamped to [0,100].
	EfficiencyGainPercent int

	Improvements []Improvement

	// UnresolvedActivityIDs lists activities that could not be placed inside
	// the working-hours window without aggressive optimization.
	UnresolvedActivityIDs []ActivityID
}
