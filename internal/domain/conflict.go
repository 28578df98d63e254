package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

type ConflictType string

const (
	ConflictTypeOverlap          ConflictType = "OVERLAP"
	ConflictTypeTightConnection  ConflictType = "TIGHT_CONNECTION"
	ConflictTypeLongDistance     ConflictType = "LONG_DISTANCE"
	ConflictTypeVenueUnavailable ConflictType = "VENUE_UNAVAILABLE"
)

type ConflictSeverity string

const (
	SeverityLow    ConflictSeverity = "LOW"
	SeverityMedium ConflictSeverity = "MEDIUM"
	SeverityHigh   ConflictSeverity = "HIGH"
)

// Conflict is a detected scheduling problem between activities on one day.
// Conflicts are recomputed from scratch on every detection pass and never
// persisted; equal schedules produce equal conflict sets.
type Conflict struct {
	ID       ConflictID
	Type     ConflictType
	Severity ConflictSeverity

	// ActivityIDs lists the involved activities. Set semantics: order is
	// canonicalized, equality ignores input order.
	ActivityIDs []ActivityID

	// AutoFixAvailable is true only when a deterministic, non-ambiguous time
	// shift resolves the conflict.
	AutoFixAvailable bool

	// The deterministic fix, when available: move ShiftActivityID so it
	// starts RequiredGapMinutes after EarlierActivityID's effective end. The
	// gap is recomputed at apply time so earlier fixes in the same batch stay
	// fixed. Zero values when no auto fix exists.
	EarlierActivityID  ActivityID
	ShiftActivityID    ActivityID
	RequiredGapMinutes int

	// Structured facts for the narrative collaborator.
	DeficitMinutes   int
	TravelMinutes    int
	TravelExcessOver int
	SuggestedFix     string
}

// conflictNamespace seeds deterministic conflict IDs.
var conflictNamespace = uuid.MustParse("7b9a41d2-6c0e-4f7a-9a68-2f1d3c5b8e90")

// NewConflictID derives a stable, content-keyed conflict ID so that repeated
// detection over the same schedule is idempotent.
func NewConflictID(t ConflictType, ids []ActivityID) ConflictID {
	key := canonicalConflictKey(t, ids)
	return ConflictID(uuid.NewSHA1(conflictNamespace, []byte(key)).String())
}

// ConflictKey is the content identity of a conflict: type plus the involved
// activity set. Used to compare conflict sets across detection passes.
func (c Conflict) ConflictKey() string {
	return canonicalConflictKey(c.Type, c.ActivityIDs)
}

func canonicalConflictKey(t ConflictType, ids []ActivityID) string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, string(id))
	}
	sort.Strings(ss)
	return string(t) + "|" + strings.Join(ss, "|")
}
