package schedule

import (
	"context"
	"reflect"
	"testing"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

func optimize(t *testing.T, as []domain.Activity, settings Settings) domain.OptimizationResult {
	t.Helper()
	est := &lineEstimator{}
	detector := NewDetector(nil)
	conflicts, err := detector.Detect(context.Background(), as, est, settings)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	res, err := NewOptimizer(detector).Optimize(context.Background(), as, conflicts, est, settings)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	return res
}

func activityIDs(as []domain.Activity) []domain.ActivityID {
	ids := make([]domain.ActivityID, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestOptimizer_ReordersToReduceTravel(t *testing.T) {
	t.Parallel()

	// Visiting c between a and b cuts the day's travel from 70 to 40 minutes.
	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "10:00", "11:00", at(40)),
		act(t, "c", "2026-09-01", "12:00", "13:00", at(10)),
	}

	res := optimize(t, as, DefaultSettings())

	want := []domain.ActivityID{"a", "c", "b"}
	if got := activityIDs(res.ReorderedActivities); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if res.TravelTimeReducedMinutes != 30 {
		t.Errorf("travel reduced = %d, want 30", res.TravelTimeReducedMinutes)
	}
	if res.ConflictsResolved != 1 {
		t.Errorf("conflicts resolved = %d, want 1", res.ConflictsResolved)
	}
	if res.EfficiencyGainPercent != 42 {
		t.Errorf("gain = %d%%, want 42%%", res.EfficiencyGainPercent)
	}
	if len(res.UnresolvedActivityIDs) != 0 {
		t.Errorf("unresolved = %v, want none", res.UnresolvedActivityIDs)
	}

	// c keeps its reachable original slot; b is pushed behind it.
	if c := activityByID(t, res.ReorderedActivities, "c"); c.Start != tod(t, "12:00") {
		t.Errorf("c.Start = %s, want 12:00", c.Start)
	}
	if b := activityByID(t, res.ReorderedActivities, "b"); b.Start != tod(t, "13:45") {
		t.Errorf("b.Start = %s, want 13:45", b.Start)
	}

	kinds := make(map[domain.ActivityID]domain.ImprovementKind, len(res.Improvements))
	for _, im := range res.Improvements {
		kinds[im.ActivityID] = im.Kind
	}
	if kinds["b"] != domain.ImprovementReordered || kinds["c"] != domain.ImprovementReordered {
		t.Errorf("improvement kinds = %v, want b and c reordered", kinds)
	}
}

func TestOptimizer_NeverWorsensASchedule(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "11:00", "12:00", at(10)),
	}

	res := optimize(t, as, DefaultSettings())

	if got := activityIDs(res.ReorderedActivities); !reflect.DeepEqual(got, []domain.ActivityID{"a", "b"}) {
		t.Fatalf("order = %v, want original", got)
	}
	if res.TravelTimeReducedMinutes != 0 || res.EfficiencyGainPercent != 0 {
		t.Errorf("reduced/gain = %d/%d, want 0/0", res.TravelTimeReducedMinutes, res.EfficiencyGainPercent)
	}
	if len(res.Improvements) != 0 {
		t.Errorf("improvements = %v, want none", res.Improvements)
	}
	if b := activityByID(t, res.ReorderedActivities, "b"); b.Start != tod(t, "11:00") {
		t.Errorf("b.Start = %s, slot must be untouched", b.Start)
	}
}

func TestOptimizer_LockedActivityKeepsItsStart(t *testing.T) {
	t.Parallel()

	anchor := act(t, "anchor", "2026-09-01", "10:30", "11:30", at(100))
	anchor.Locked = true
	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		anchor,
		act(t, "c", "2026-09-01", "13:00", "14:00", at(5)),
	}

	res := optimize(t, as, DefaultSettings())

	if got := activityByID(t, res.ReorderedActivities, "anchor"); got.Start != tod(t, "10:30") {
		t.Fatalf("anchor.Start = %s, want 10:30 exactly", got.Start)
	}
	// c is retimed to clear the travel from the anchor plus buffer.
	if c := activityByID(t, res.ReorderedActivities, "c"); c.Start != tod(t, "13:20") {
		t.Errorf("c.Start = %s, want 13:20", c.Start)
	}
	for _, im := range res.Improvements {
		if im.ActivityID == "anchor" {
			t.Errorf("locked activity must never appear in improvements: %+v", im)
		}
	}
}

func TestOptimizer_EmptySchedule(t *testing.T) {
	t.Parallel()

	res := optimize(t, nil, DefaultSettings())

	if len(res.ReorderedActivities) != 0 || len(res.Improvements) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
	if res.EfficiencyGainPercent != 0 {
		t.Errorf("gain = %d, want 0", res.EfficiencyGainPercent)
	}
}

func TestOptimizer_WorkingHoursOverflow(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.WorkingHours = &WorkingHours{Start: tod(t, "09:00"), End: tod(t, "18:00")}

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "17:00", at(0)),
		act(t, "b", "2026-09-01", "17:20", "18:20", at(30)),
	}

	t.Run("same-day only leaves the slot untouched", func(t *testing.T) {
		t.Parallel()

		res := optimize(t, as, settings)
		if b := activityByID(t, res.ReorderedActivities, "b"); b.Start != tod(t, "17:20") {
			t.Errorf("b.Start = %s, want original 17:20", b.Start)
		}
		if res.TravelTimeReducedMinutes != 0 {
			t.Errorf("reduced = %d, want 0", res.TravelTimeReducedMinutes)
		}
	})

	t.Run("aggressive defers to the next day", func(t *testing.T) {
		t.Parallel()

		aggressive := settings
		aggressive.AggressiveOptimization = true

		res := optimize(t, as, aggressive)
		b := activityByID(t, res.ReorderedActivities, "b")
		if !domain.SameDay(b.Day, testDay(t, "2026-09-02")) {
			t.Fatalf("b.Day = %s, want deferred to 2026-09-02", b.Day.Format("2006-01-02"))
		}
		if b.Start != tod(t, "09:00") {
			t.Errorf("b.Start = %s, want the window start 09:00", b.Start)
		}

		var deferred bool
		for _, im := range res.Improvements {
			if im.ActivityID == "b" && im.Kind == domain.ImprovementDeferred {
				deferred = true
			}
		}
		if !deferred {
			t.Errorf("improvements = %+v, want b deferred", res.Improvements)
		}
	})
}

func TestOptimizer_IsDeterministic(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "10:00", "11:00", at(40)),
		act(t, "c", "2026-09-01", "12:00", "13:00", at(10)),
		act(t, "d", "2026-09-02", "09:00", "10:00", at(20)),
	}

	first := optimize(t, as, DefaultSettings())
	second := optimize(t, as, DefaultSettings())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across runs:\n%+v\n%+v", first, second)
	}
}
