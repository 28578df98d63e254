package domain

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want TimeOfDay
	}{
		{in: "00:00", want: 0},
		{in: "09:05", want: 545},
		{in: "23:59", want: 1439},
	} {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("round trip of %q = %q", tc.in, got.String())
		}
	}

	for _, bad := range []string{"", "24:00", "9:5:0", "noon", "12:60"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q) succeeded, want error", bad)
		}
	}
}

func TestTimeOfDayAddMinutesPastMidnight(t *testing.T) {
	t.Parallel()

	late, _ := ParseTimeOfDay("23:30")
	got := late.AddMinutes(60)
	if got != 1470 {
		t.Errorf("23:30 + 60 = %d, want unwrapped 1470", got)
	}
	if got.Valid() {
		t.Error("a time past midnight is not a valid wall-clock time")
	}
}

func TestDayOfTruncatesToDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 9, 1, 17, 45, 12, 0, time.UTC)
	got := DayOf(ts)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("DayOf = %v, want midnight", got)
	}
	if !SameDay(got, ts) {
		t.Error("DayOf must stay on the same calendar day")
	}
}

func TestSameDayIgnoresClockTime(t *testing.T) {
	t.Parallel()

	d := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !SameDay(d, d.Add(3*time.Hour)) {
		t.Error("same calendar day with different clock times must match")
	}
	if SameDay(d, d.AddDate(0, 0, 1)) {
		t.Error("consecutive days must not match")
	}
}
