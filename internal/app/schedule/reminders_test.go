package schedule

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

func newTestScheduler() *ReminderScheduler {
	s := NewReminderScheduler()
	n := 0
	s.SetNewReminderIDForTest(func() domain.ReminderID {
		n++
		return domain.ReminderID(fmt.Sprintf("rem-%03d", n))
	})
	return s
}

func remindersOfType(rs []domain.Reminder, typ domain.ReminderType) []domain.Reminder {
	var out []domain.Reminder
	for _, r := range rs {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

func TestReminders_DepartureRequiresCoordinates(t *testing.T) {
	t.Parallel()

	located := act(t, "a", "2026-09-01", "10:00", "11:00", at(0))
	unlocated := act(t, "b", "2026-09-01", "14:00", "15:00", nowhere())

	got := newTestScheduler().Generate([]domain.Activity{located, unlocated}, nil, DefaultSettings())

	if len(got) != 1 {
		t.Fatalf("got %d reminders, want 1: %+v", len(got), got)
	}
	r := got[0]
	if r.Type != domain.ReminderTypeDeparture || r.RelatedActivityID != "a" {
		t.Fatalf("reminder = %+v, want a DEPARTURE for a", r)
	}
	// Lead is buffer + 30.
	if r.MinutesBefore != 45 {
		t.Errorf("minutesBefore = %d, want 45", r.MinutesBefore)
	}
	if r.ScheduledAt != tod(t, "09:15") {
		t.Errorf("scheduledAt = %s, want 09:15", r.ScheduledAt)
	}
	if !r.Enabled {
		t.Error("new reminders start enabled")
	}
}

func TestReminders_CategoryDerivedTypes(t *testing.T) {
	t.Parallel()

	flight := act(t, "f", "2026-09-01", "08:00", "11:00", at(0))
	flight.Category = "flight"
	hotel := act(t, "h", "2026-09-01", "15:00", "15:30", at(10))
	hotel.Category = "hotel"

	got := newTestScheduler().Generate([]domain.Activity{flight, hotel}, nil, DefaultSettings())

	if n := len(remindersOfType(got, domain.ReminderTypePreparation)); n != 2 {
		t.Errorf("got %d PREPARATION reminders, want 2 (flight and hotel)", n)
	}
	checkIns := remindersOfType(got, domain.ReminderTypeCheckIn)
	if len(checkIns) != 1 || checkIns[0].RelatedActivityID != "h" {
		t.Fatalf("check-in reminders = %+v, want one for the hotel", checkIns)
	}
	if checkIns[0].MinutesBefore != 120 {
		t.Errorf("check-in lead = %d, want 120", checkIns[0].MinutesBefore)
	}
	prep := remindersOfType(got, domain.ReminderTypePreparation)[0]
	if prep.MinutesBefore != 60 {
		t.Errorf("preparation lead = %d, want 60", prep.MinutesBefore)
	}
}

func TestReminders_RegenerationPreservesOverrides(t *testing.T) {
	t.Parallel()

	s := newTestScheduler()
	a := act(t, "a", "2026-09-01", "10:00", "11:00", at(0))

	first := s.Generate([]domain.Activity{a}, nil, DefaultSettings())
	if len(first) != 1 {
		t.Fatalf("got %d reminders, want 1", len(first))
	}

	// User edits, then the activity moves.
	first[0].MinutesBefore = 90
	first[0].Enabled = false
	moved := a
	moved.Start = tod(t, "12:00")
	end := tod(t, "13:00")
	moved.End = &end

	second := s.Generate([]domain.Activity{moved}, first, DefaultSettings())
	if len(second) != 1 {
		t.Fatalf("got %d reminders after regeneration, want 1", len(second))
	}
	r := second[0]
	if r.ID != first[0].ID {
		t.Errorf("id changed on regeneration: %s -> %s", first[0].ID, r.ID)
	}
	if r.MinutesBefore != 90 {
		t.Errorf("minutesBefore = %d, want preserved 90", r.MinutesBefore)
	}
	if r.Enabled {
		t.Error("enabled flag must be preserved")
	}
	if r.ScheduledAt != tod(t, "10:30") {
		t.Errorf("scheduledAt = %s, want re-derived 10:30", r.ScheduledAt)
	}
}

func TestReminders_RegenerationIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestScheduler()
	flight := act(t, "f", "2026-09-01", "08:00", "11:00", at(0))
	flight.Category = "flight"
	other := act(t, "a", "2026-09-02", "10:00", "11:00", at(5))
	as := []domain.Activity{flight, other}

	first := s.Generate(as, nil, DefaultSettings())
	second := s.Generate(as, first, DefaultSettings())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("regeneration over its own output changed reminders:\n%+v\n%+v", first, second)
	}
}

func TestReminders_DroppedWithActivity(t *testing.T) {
	t.Parallel()

	s := newTestScheduler()
	a := act(t, "a", "2026-09-01", "10:00", "11:00", at(0))
	b := act(t, "b", "2026-09-01", "14:00", "15:00", at(10))

	first := s.Generate([]domain.Activity{a, b}, nil, DefaultSettings())
	if len(first) != 2 {
		t.Fatalf("got %d reminders, want 2", len(first))
	}

	second := s.Generate([]domain.Activity{a}, first, DefaultSettings())
	if len(second) != 1 || second[0].RelatedActivityID != "a" {
		t.Fatalf("reminders = %+v, want only a's to survive", second)
	}
}

func TestReminders_ClampAtMidnight(t *testing.T) {
	t.Parallel()

	early := act(t, "a", "2026-09-01", "00:10", "01:00", at(0))
	got := newTestScheduler().Generate([]domain.Activity{early}, nil, DefaultSettings())

	if len(got) != 1 {
		t.Fatalf("got %d reminders, want 1", len(got))
	}
	if got[0].ScheduledAt != 0 {
		t.Errorf("scheduledAt = %s, want clamped to 00:00", got[0].ScheduledAt)
	}
}

func TestReminders_OrderedByDayAndTime(t *testing.T) {
	t.Parallel()

	as := []domain.Activity{
		act(t, "late", "2026-09-02", "10:00", "11:00", at(0)),
		act(t, "second", "2026-09-01", "16:00", "17:00", at(5)),
		act(t, "first", "2026-09-01", "09:00", "10:00", at(10)),
	}

	got := newTestScheduler().Generate(as, nil, DefaultSettings())
	if len(got) != 3 {
		t.Fatalf("got %d reminders, want 3", len(got))
	}
	want := []domain.ActivityID{"first", "second", "late"}
	for i, r := range got {
		if r.RelatedActivityID != want[i] {
			t.Fatalf("reminder %d relates to %s, want %s", i, r.RelatedActivityID, want[i])
		}
	}
}
