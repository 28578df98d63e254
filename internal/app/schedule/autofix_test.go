package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

func detectAll(t *testing.T, as []domain.Activity) []domain.Conflict {
	t.Helper()
	got, err := NewDetector(nil).Detect(context.Background(), as, &lineEstimator{}, DefaultSettings())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	return got
}

func allConflictIDs(cs []domain.Conflict) []domain.ConflictID {
	ids := make([]domain.ConflictID, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestAutoFix_ShiftsOverlapAfterEarlierEnd(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "09:30", "10:30", at(0)),
	}
	conflicts := detectAll(t, as)
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}

	fixed, err := NewAutoFixApplier().Apply(as, conflicts, allConflictIDs(conflicts))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	b := activityByID(t, fixed, "b")
	if b.Start != tod(t, "10:00") {
		t.Errorf("b.Start = %s, want 10:00", b.Start)
	}
	if b.End == nil || *b.End != tod(t, "11:00") {
		t.Errorf("b.End = %v, want 11:00 (duration preserved)", b.End)
	}
	if a := activityByID(t, fixed, "a"); a.Start != tod(t, "09:00") {
		t.Errorf("a.Start = %s, earlier activity must not move", a.Start)
	}
	// The input schedule is not mutated.
	if as[1].Start != tod(t, "09:30") {
		t.Errorf("input mutated: b.Start = %s", as[1].Start)
	}
}

func TestAutoFix_ShiftsTightConnectionPastTravelAndBuffer(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "10:10", "11:00", at(50)),
	}
	conflicts := detectAll(t, as)
	if len(conflicts) != 1 || conflicts[0].Type != domain.ConflictTypeTightConnection {
		t.Fatalf("got %+v, want one TIGHT_CONNECTION", conflicts)
	}

	fixed, err := NewAutoFixApplier().Apply(as, conflicts, allConflictIDs(conflicts))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// 10:00 end + 50 travel + 15 buffer.
	if b := activityByID(t, fixed, "b"); b.Start != tod(t, "11:05") {
		t.Errorf("b.Start = %s, want 11:05", b.Start)
	}
}

func TestAutoFix_ChainedFixesRecomputeTargets(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "09:30", "10:30", at(0)),
		act(t, "c", "2026-09-01", "10:00", "11:00", at(0)),
	}
	conflicts := detectAll(t, as)
	if len(conflicts) != 2 {
		t.Fatalf("got %d conflicts, want 2 overlaps", len(conflicts))
	}

	fixed, err := NewAutoFixApplier().Apply(as, conflicts, allConflictIDs(conflicts))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	b := activityByID(t, fixed, "b")
	c := activityByID(t, fixed, "c")
	if b.Start != tod(t, "10:00") {
		t.Errorf("b.Start = %s, want 10:00", b.Start)
	}
	// c's target is recomputed against b's post-fix end, not its original one.
	if c.Start != tod(t, "11:00") {
		t.Errorf("c.Start = %s, want 11:00", c.Start)
	}
}

func TestAutoFix_DuplicateIDsAppliedOnce(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "09:30", "10:30", at(0)),
	}
	conflicts := detectAll(t, as)
	ids := []domain.ConflictID{conflicts[0].ID, conflicts[0].ID}

	fixed, err := NewAutoFixApplier().Apply(as, conflicts, ids)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if b := activityByID(t, fixed, "b"); b.Start != tod(t, "10:00") {
		t.Errorf("b.Start = %s, want 10:00", b.Start)
	}
}

func TestAutoFix_UnknownConflictRejected(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "09:30", "10:30", at(0)),
	}
	conflicts := detectAll(t, as)

	_, err := NewAutoFixApplier().Apply(as, conflicts, []domain.ConflictID{conflicts[0].ID, "nope"})
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_FIX" {
		t.Fatalf("err = %v, want INVALID_FIX", err)
	}
}

func TestAutoFix_NonFixableConflictRejected(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "15:00", "16:00", at(90)),
	}
	conflicts := detectAll(t, as)
	if len(conflicts) != 1 || conflicts[0].Type != domain.ConflictTypeLongDistance {
		t.Fatalf("got %+v, want one LONG_DISTANCE", conflicts)
	}

	_, err := NewAutoFixApplier().Apply(as, conflicts, allConflictIDs(conflicts))
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_FIX" {
		t.Fatalf("err = %v, want INVALID_FIX", err)
	}
}

func TestAutoFix_NeverPullsActivityEarlier(t *testing.T) {
	t.Parallel()

	// The conflict was detected against an earlier snapshot; b has since been
	// moved past the fix target and must stay where it is.
	snapshot := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "09:30", "10:30", at(0)),
	}
	conflicts := detectAll(t, snapshot)

	current := []domain.Activity{
		act(t, "a", "2026-09-01", "09:00", "10:00", at(0)),
		act(t, "b", "2026-09-01", "12:00", "13:00", at(0)),
	}
	fixed, err := NewAutoFixApplier().Apply(current, conflicts, allConflictIDs(conflicts))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if b := activityByID(t, fixed, "b"); b.Start != tod(t, "12:00") {
		t.Errorf("b.Start = %s, want 12:00 (never pulled earlier)", b.Start)
	}
}
