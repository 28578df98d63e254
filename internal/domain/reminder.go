package domain

type ReminderType string

const (
	ReminderTypeDeparture   ReminderType = "DEPARTURE"
	ReminderTypePreparation ReminderType = "PREPARATION"
	ReminderTypeCheckIn     ReminderType = "CHECK_IN"
	ReminderTypeArrival     ReminderType = "ARRIVAL"
)

// DefaultLeadMinutes is the per-type default for MinutesBefore.
func DefaultLeadMinutes(t ReminderType) int {
	switch t {
	case ReminderTypePreparation:
		return 60
	case ReminderTypeCheckIn:
		return 120
	case ReminderTypeArrival:
		return 15
	default:
		return 30
	}
}

// Reminder is a timed notification derived from a scheduled activity.
// MinutesBefore and Enabled are user-editable after generation; regeneration
// preserves them (merge by (RelatedActivityID, Type)).
type Reminder struct {
	ID                ReminderID
	TripID            TripID
	Type              ReminderType
	RelatedActivityID ActivityID

	// ScheduledAt is the activity's start minus MinutesBefore. It may be
	// negative-free only within the day; early-morning activities clamp at 0.
	ScheduledAt   TimeOfDay
	Day           Day
	MinutesBefore int
	Enabled       bool
}
