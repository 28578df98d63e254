package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time within a day, stored as minutes since
// midnight. Itineraries have one implicit timezone, so no zone is carried.
type TimeOfDay int

const MinutesPerDay = 24 * 60

// ParseTimeOfDay parses "15:04" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// AddMinutes returns the time shifted by m minutes. The result is not wrapped;
// values past midnight are representable so that overlap math stays linear.
func (t TimeOfDay) AddMinutes(m int) TimeOfDay { return t + TimeOfDay(m) }

func (t TimeOfDay) Valid() bool { return t >= 0 && t < MinutesPerDay }

// Day is a calendar date with date-only semantics (midnight UTC).
type Day = time.Time

// DayOf truncates a timestamp to its date-only representation.
func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two dates fall on the same calendar day.
func SameDay(a, b Day) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
