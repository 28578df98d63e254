package static

import (
	"context"
	"strings"
	"testing"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

func TestSuggestedFixUsesActivityTitles(t *testing.T) {
	t.Parallel()

	involved := []domain.Activity{
		{ID: "a", Title: "Louvre"},
		{ID: "b", Title: "Orsay"},
	}
	c := domain.Conflict{
		Type:              domain.ConflictTypeOverlap,
		ActivityIDs:       []domain.ActivityID{"a", "b"},
		EarlierActivityID: "a",
		ShiftActivityID:   "b",
		DeficitMinutes:    30,
	}

	got, err := New().SuggestedFix(context.Background(), c, involved)
	if err != nil {
		t.Fatalf("SuggestedFix: %v", err)
	}
	if !strings.Contains(got, "Orsay") || !strings.Contains(got, "Louvre") || !strings.Contains(got, "30") {
		t.Errorf("text = %q, want both titles and the deficit", got)
	}
}

func TestSuggestedFixFallsBackWithoutTitles(t *testing.T) {
	t.Parallel()

	c := domain.Conflict{
		Type:        domain.ConflictTypeVenueUnavailable,
		ActivityIDs: []domain.ActivityID{"a"},
	}
	got, err := New().SuggestedFix(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("SuggestedFix: %v", err)
	}
	if !strings.Contains(got, "this activity") {
		t.Errorf("text = %q, want the generic fallback", got)
	}
}

func TestSuggestedFixUnknownTypeIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := New().SuggestedFix(context.Background(), domain.Conflict{Type: "SOMETHING_ELSE"}, nil)
	if err != nil || got != "" {
		t.Fatalf("got %q, %v; want empty and nil", got, err)
	}
}
