package domain

import "sort"

// TransportMode selects how travel time between two activities is estimated.
type TransportMode string

const (
	TransportModeWalking TransportMode = "WALKING"
	TransportModeDriving TransportMode = "DRIVING"
	TransportModeTransit TransportMode = "TRANSIT"
)

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Location is a named place. Latitude/longitude may be absent when the place
// has not been geocoded yet; distance-based checks are skipped in that case.
type Location struct {
	Name string

	Latitude  *float64
	Longitude *float64
}

// Resolved reports whether the location carries usable coordinates.
func (l Location) Resolved() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Coords returns the resolved coordinates. Only valid when Resolved is true.
func (l Location) Coords() Coordinates {
	return Coordinates{Latitude: *l.Latitude, Longitude: *l.Longitude}
}

// Activity is a single scheduled itinerary item.
type Activity struct {
	ID       ActivityID
	TripID   TripID
	Title    string
	Category string

	// Day is date-only; Start/End are times of day within it.
	Day   Day
	Start TimeOfDay
	End   *TimeOfDay

	Location Location

	// Order breaks ties between activities sharing a start time. Unique per day.
	Order int

	// Locked marks a user-fixed time (an anchor). The optimizer never moves it.
	Locked bool

	// Venue window; nil means unknown/always open.
	OpenFrom  *TimeOfDay
	OpenUntil *TimeOfDay
}

// Category default durations, used when an activity has no end time.
var categoryDefaultMinutes = map[string]int{
	"food":          90,
	"flight":        180,
	"accommodation": 30,
	"transport":     60,
	"culture":       120,
	"nature":        120,
}

const defaultActivityMinutes = 60

// DurationMinutes is End-Start when an end time is set, else a category-based
// default.
func (a Activity) DurationMinutes() int {
	if a.End != nil && *a.End > a.Start {
		return int(*a.End - a.Start)
	}
	if d, ok := categoryDefaultMinutes[NormalizeCategory(a.Category)]; ok {
		return d
	}
	return defaultActivityMinutes
}

// EndEffective is the activity's end time, derived from the default duration
// when no explicit end is set.
func (a Activity) EndEffective() TimeOfDay {
	return a.Start.AddMinutes(a.DurationMinutes())
}

// SortActivities orders activities by (day, start, order, id). This is the
// canonical same-day ordering the detector and optimizer rely on.
func SortActivities(as []Activity) {
	sort.Slice(as, func(i, j int) bool {
		a, b := as[i], as[j]
		if !SameDay(a.Day, b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
}

// GroupByDay splits activities into per-day groups, each sorted canonically.
// Group order follows the first appearance of each day after sorting.
func GroupByDay(as []Activity) [][]Activity {
	sorted := append([]Activity(nil), as...)
	SortActivities(sorted)

	var groups [][]Activity
	for _, a := range sorted {
		if n := len(groups); n > 0 && SameDay(groups[n-1][0].Day, a.Day) {
			groups[n-1] = append(groups[n-1], a)
			continue
		}
		groups = append(groups, []Activity{a})
	}
	return groups
}
