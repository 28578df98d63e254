package activities

import "github.com/wayfarer-travel/itinerary-api/internal/domain"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// LocationInput carries a place; coordinates stay unresolved when omitted.
type LocationInput struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

type CreateActivityInput struct {
	Title    string
	Category string

	Day   domain.Day
	Start domain.TimeOfDay
	End   *domain.TimeOfDay

	Location LocationInput
	Locked   bool

	OpenFrom  *domain.TimeOfDay
	OpenUntil *domain.TimeOfDay
}

type UpdateActivityInput struct {
	// Title is optional and cannot be null.
	Title    Optional[string]
	Category Optional[string]

	Day   Optional[domain.Day]
	Start Optional[domain.TimeOfDay]
	// End set to null clears the explicit end (category default applies).
	End Optional[domain.TimeOfDay]

	Location Optional[LocationInput]
	Locked   Optional[bool]

	OpenFrom  Optional[domain.TimeOfDay]
	OpenUntil Optional[domain.TimeOfDay]
}
