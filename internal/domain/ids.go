package domain

// TripID is an internal identifier for a trip record.
type TripID string

// ActivityID identifies a scheduled activity. It is stable for the lifetime of
// the activity record.
type ActivityID string

// ConflictID identifies a detected scheduling conflict. Conflict IDs are
// content-derived (type + involved activities), so re-detecting the same
// schedule yields the same IDs.
type ConflictID string

// ReminderID is an internal identifier for a reminder record.
type ReminderID string
