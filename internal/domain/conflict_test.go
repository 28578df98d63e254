package domain

import "testing"

func TestNewConflictIDIsStable(t *testing.T) {
	t.Parallel()

	a := NewConflictID(ConflictTypeOverlap, []ActivityID{"x", "y"})
	b := NewConflictID(ConflictTypeOverlap, []ActivityID{"y", "x"})
	if a != b {
		t.Errorf("conflict ID depends on activity order: %s vs %s", a, b)
	}

	c := NewConflictID(ConflictTypeTightConnection, []ActivityID{"x", "y"})
	if a == c {
		t.Error("different conflict types must not collide")
	}
	d := NewConflictID(ConflictTypeOverlap, []ActivityID{"x", "z"})
	if a == d {
		t.Error("different activity sets must not collide")
	}
}

func TestConflictKeyMatchesAcrossPasses(t *testing.T) {
	t.Parallel()

	first := Conflict{Type: ConflictTypeOverlap, ActivityIDs: []ActivityID{"a", "b"}}
	second := Conflict{Type: ConflictTypeOverlap, ActivityIDs: []ActivityID{"b", "a"}}
	if first.ConflictKey() != second.ConflictKey() {
		t.Errorf("keys differ for the same content: %s vs %s", first.ConflictKey(), second.ConflictKey())
	}
}
