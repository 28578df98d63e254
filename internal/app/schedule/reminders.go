package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

// Categories that warrant a preparation reminder (bookings with check-in
// formalities).
var bookingSensitiveCategories = map[string]bool{
	"flight":   true,
	"hotel":    true,
	"check-in": true,
	"checkin":  true,
}

var accommodationCategories = map[string]bool{
	"accommodation": true,
	"hotel":         true,
}

// ReminderScheduler derives timed reminders from a finalized activity list.
//
// Regeneration is a merge-by-key upsert: an existing reminder with the same
// (relatedActivityId, type) survives with its ID and user-set
// MinutesBefore/Enabled intact; only its scheduled time is re-derived from
// the activity's current start.
type ReminderScheduler struct {
	newReminderID func() domain.ReminderID
}

func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		newReminderID: func() domain.ReminderID {
			return domain.ReminderID(uuid.NewString())
		},
	}
}

// SetNewReminderIDForTest overrides reminder ID generation for deterministic
// tests. It should not be used in production code.
func (s *ReminderScheduler) SetNewReminderIDForTest(fn func() domain.ReminderID) {
	if fn != nil {
		s.newReminderID = fn
	}
}

type reminderKey struct {
	activityID domain.ActivityID
	typ        domain.ReminderType
}

// Generate emits reminders for every activity in the list, preserving
// existing user overrides. Reminders for activities no longer present are
// dropped. The output is ordered by (day, scheduledAt, id).
func (s *ReminderScheduler) Generate(activities []domain.Activity, existing []domain.Reminder, settings Settings) []domain.Reminder {
	settings = settings.withDefaults()

	prior := make(map[reminderKey]domain.Reminder, len(existing))
	for _, r := range existing {
		prior[reminderKey{activityID: r.RelatedActivityID, typ: r.Type}] = r
	}

	out := []domain.Reminder{}
	emit := func(a domain.Activity, typ domain.ReminderType, defaultLead int) {
		r, ok := prior[reminderKey{activityID: a.ID, typ: typ}]
		if !ok {
			r = domain.Reminder{
				ID:                s.newReminderID(),
				TripID:            a.TripID,
				Type:              typ,
				RelatedActivityID: a.ID,
				MinutesBefore:     defaultLead,
				Enabled:           true,
			}
		}
		r.Day = a.Day
		r.ScheduledAt = leadTime(a.Start, r.MinutesBefore)
		out = append(out, r)
	}

	for _, a := range activities {
		cat := domain.NormalizeCategory(a.Category)

		if a.Location.Resolved() {
			emit(a, domain.ReminderTypeDeparture, settings.BufferMinutes+30)
		}
		if bookingSensitiveCategories[cat] {
			emit(a, domain.ReminderTypePreparation, domain.DefaultLeadMinutes(domain.ReminderTypePreparation))
		}
		if accommodationCategories[cat] {
			emit(a, domain.ReminderTypeCheckIn, domain.DefaultLeadMinutes(domain.ReminderTypeCheckIn))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !domain.SameDay(a.Day, b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.ScheduledAt != b.ScheduledAt {
			return a.ScheduledAt < b.ScheduledAt
		}
		return a.ID < b.ID
	})
	return out
}

// leadTime clamps at midnight; a reminder before the day starts is pinned to
// 00:00 rather than spilling into the previous day.
func leadTime(start domain.TimeOfDay, minutesBefore int) domain.TimeOfDay {
	t := start.AddMinutes(-minutesBefore)
	if t < 0 {
		return 0
	}
	return t
}
