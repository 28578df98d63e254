package httpapi

import (
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/wayfarer-travel/itinerary-api/internal/app/schedule"
	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

type LocationDTO struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type ActivityDTO struct {
	ActivityId string             `json:"activityId"`
	TripId     string             `json:"tripId"`
	Title      string             `json:"title"`
	Category   string             `json:"category,omitempty"`
	Day        openapi_types.Date `json:"day"`
	StartTime  string             `json:"startTime"`
	EndTime    *string            `json:"endTime,omitempty"`
	Location   LocationDTO        `json:"location"`
	Order      int                `json:"order"`
	Locked     bool               `json:"locked"`
	OpenFrom   *string            `json:"openFrom,omitempty"`
	OpenUntil  *string            `json:"openUntil,omitempty"`
}

type CreateActivityRequest struct {
	Title     string             `json:"title"`
	Category  string             `json:"category,omitempty"`
	Day       openapi_types.Date `json:"day"`
	StartTime string             `json:"startTime"`
	EndTime   *string            `json:"endTime,omitempty"`
	Location  *LocationDTO       `json:"location,omitempty"`
	Locked    bool               `json:"locked,omitempty"`
	OpenFrom  *string            `json:"openFrom,omitempty"`
	OpenUntil *string            `json:"openUntil,omitempty"`
}

// UpdateActivityRequest is a tri-state patch: omitted fields are untouched,
// null clears where the domain allows it.
type UpdateActivityRequest struct {
	Title     nullable.Nullable[string]             `json:"title,omitempty"`
	Category  nullable.Nullable[string]             `json:"category,omitempty"`
	Day       nullable.Nullable[openapi_types.Date] `json:"day,omitempty"`
	StartTime nullable.Nullable[string]             `json:"startTime,omitempty"`
	EndTime   nullable.Nullable[string]             `json:"endTime,omitempty"`
	Location  nullable.Nullable[LocationDTO]        `json:"location,omitempty"`
	Locked    nullable.Nullable[bool]               `json:"locked,omitempty"`
	OpenFrom  nullable.Nullable[string]             `json:"openFrom,omitempty"`
	OpenUntil nullable.Nullable[string]             `json:"openUntil,omitempty"`
}

type ConflictDTO struct {
	ConflictId       string   `json:"conflictId"`
	Type             string   `json:"type"`
	Severity         string   `json:"severity"`
	ActivityIds      []string `json:"activityIds"`
	AutoFixAvailable bool     `json:"autoFixAvailable"`
	SuggestedFix     string   `json:"suggestedFix,omitempty"`
	DeficitMinutes   int      `json:"deficitMinutes,omitempty"`
	TravelMinutes    int      `json:"travelMinutes,omitempty"`
	TravelExcessOver int      `json:"travelExcessOver,omitempty"`
}

type ImprovementDTO struct {
	ActivityId     string `json:"activityId"`
	Kind           string `json:"kind"`
	MinutesShifted int    `json:"minutesShifted"`
	Impact         int    `json:"impact"`
}

type OptimizationDTO struct {
	ReorderedActivities      []ActivityDTO    `json:"reorderedActivities"`
	TravelTimeReducedMinutes int              `json:"travelTimeReducedMinutes"`
	ConflictsResolved        int              `json:"conflictsResolved"`
	EfficiencyGainPercent    int              `json:"efficiencyGainPercent"`
	Improvements             []ImprovementDTO `json:"improvements"`
	UnresolvedActivityIds    []string         `json:"unresolvedActivityIds,omitempty"`
}

type ReminderDTO struct {
	ReminderId        string             `json:"reminderId"`
	Type              string             `json:"type"`
	RelatedActivityId string             `json:"relatedActivityId"`
	Day               openapi_types.Date `json:"day"`
	ScheduledAt       string             `json:"scheduledAt"`
	MinutesBefore     int                `json:"minutesBefore"`
	Enabled           bool               `json:"enabled"`
}

type WorkingHoursDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SettingsDTO is a partial settings override; absent fields use defaults.
type SettingsDTO struct {
	BufferMinutes           int              `json:"bufferMinutes,omitempty"`
	MaxTravelMinutes        int              `json:"maxTravelMinutes,omitempty"`
	AggressiveOptimization  bool             `json:"aggressiveOptimization,omitempty"`
	PreferredTransportModes []string         `json:"preferredTransportModes,omitempty"`
	WorkingHours            *WorkingHoursDTO `json:"workingHours,omitempty"`
}

type ActivitiesResponse struct {
	Activities []ActivityDTO `json:"activities"`
}

type ActivityResponse struct {
	Activity ActivityDTO `json:"activity"`
}

type ReviewResponse struct {
	Activities   []ActivityDTO   `json:"activities"`
	Conflicts    []ConflictDTO   `json:"conflicts"`
	Optimization OptimizationDTO `json:"optimization"`
	Reminders    []ReminderDTO   `json:"reminders"`
}

type OptimizeRequest struct {
	Day      *openapi_types.Date `json:"day,omitempty"`
	Settings *SettingsDTO        `json:"settings,omitempty"`
}

type OptimizationResponse struct {
	Optimization OptimizationDTO `json:"optimization"`
}

type AutoFixRequest struct {
	ConflictIds []string     `json:"conflictIds"`
	Settings    *SettingsDTO `json:"settings,omitempty"`
}

type AutoFixResponse struct {
	Activities        []ActivityDTO `json:"activities"`
	ResidualConflicts []ConflictDTO `json:"residualConflicts"`
}

type RegenerateRemindersRequest struct {
	Settings *SettingsDTO `json:"settings,omitempty"`
}

type RemindersResponse struct {
	Reminders []ReminderDTO `json:"reminders"`
}

type UpdateReminderRequest struct {
	MinutesBefore *int  `json:"minutesBefore,omitempty"`
	Enabled       *bool `json:"enabled,omitempty"`
}

type ReminderResponse struct {
	Reminder ReminderDTO `json:"reminder"`
}

func activityFromDomain(a domain.Activity) ActivityDTO {
	return ActivityDTO{
		ActivityId: string(a.ID),
		TripId:     string(a.TripID),
		Title:      a.Title,
		Category:   a.Category,
		Day:        openapi_types.Date{Time: domain.DayOf(a.Day)},
		StartTime:  a.Start.String(),
		EndTime:    timeOfDayString(a.End),
		Location: LocationDTO{
			Name:      a.Location.Name,
			Latitude:  a.Location.Latitude,
			Longitude: a.Location.Longitude,
		},
		Order:     a.Order,
		Locked:    a.Locked,
		OpenFrom:  timeOfDayString(a.OpenFrom),
		OpenUntil: timeOfDayString(a.OpenUntil),
	}
}

func activitiesFromDomain(as []domain.Activity) []ActivityDTO {
	out := make([]ActivityDTO, 0, len(as))
	for _, a := range as {
		out = append(out, activityFromDomain(a))
	}
	return out
}

func conflictFromDomain(c domain.Conflict) ConflictDTO {
	ids := make([]string, 0, len(c.ActivityIDs))
	for _, id := range c.ActivityIDs {
		ids = append(ids, string(id))
	}
	return ConflictDTO{
		ConflictId:       string(c.ID),
		Type:             string(c.Type),
		Severity:         string(c.Severity),
		ActivityIds:      ids,
		AutoFixAvailable: c.AutoFixAvailable,
		SuggestedFix:     c.SuggestedFix,
		DeficitMinutes:   c.DeficitMinutes,
		TravelMinutes:    c.TravelMinutes,
		TravelExcessOver: c.TravelExcessOver,
	}
}

func conflictsFromDomain(cs []domain.Conflict) []ConflictDTO {
	out := make([]ConflictDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, conflictFromDomain(c))
	}
	return out
}

func optimizationFromDomain(o domain.OptimizationResult) OptimizationDTO {
	improvements := make([]ImprovementDTO, 0, len(o.Improvements))
	for _, im := range o.Improvements {
		improvements = append(improvements, ImprovementDTO{
			ActivityId:     string(im.ActivityID),
			Kind:           string(im.Kind),
			MinutesShifted: im.MinutesShifted,
			Impact:         im.Impact,
		})
	}
	unresolved := make([]string, 0, len(o.UnresolvedActivityIDs))
	for _, id := range o.UnresolvedActivityIDs {
		unresolved = append(unresolved, string(id))
	}
	return OptimizationDTO{
		ReorderedActivities:      activitiesFromDomain(o.ReorderedActivities),
		TravelTimeReducedMinutes: o.TravelTimeReducedMinutes,
		ConflictsResolved:        o.ConflictsResolved,
		EfficiencyGainPercent:    o.EfficiencyGainPercent,
		Improvements:             improvements,
		UnresolvedActivityIds:    unresolved,
	}
}

func reminderFromDomain(r domain.Reminder) ReminderDTO {
	return ReminderDTO{
		ReminderId:        string(r.ID),
		Type:              string(r.Type),
		RelatedActivityId: string(r.RelatedActivityID),
		Day:               openapi_types.Date{Time: domain.DayOf(r.Day)},
		ScheduledAt:       r.ScheduledAt.String(),
		MinutesBefore:     r.MinutesBefore,
		Enabled:           r.Enabled,
	}
}

func remindersFromDomain(rs []domain.Reminder) []ReminderDTO {
	out := make([]ReminderDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, reminderFromDomain(r))
	}
	return out
}

// settings merges a request's partial override onto the server's deployment
// defaults. Unset request fields keep the defaults.
func (srv *Server) settings(dto *SettingsDTO) (schedule.Settings, error) {
	s := srv.Defaults
	if dto == nil {
		return s, nil
	}
	if dto.BufferMinutes > 0 {
		s.BufferMinutes = dto.BufferMinutes
	}
	if dto.MaxTravelMinutes > 0 {
		s.MaxTravelMinutes = dto.MaxTravelMinutes
	}
	s.AggressiveOptimization = dto.AggressiveOptimization
	var modes []domain.TransportMode
	for _, m := range dto.PreferredTransportModes {
		switch mode := domain.TransportMode(m); mode {
		case domain.TransportModeWalking, domain.TransportModeDriving, domain.TransportModeTransit:
			modes = append(modes, mode)
		default:
			return schedule.Settings{}, &schedule.Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid transport mode",
				Details: map[string]any{"preferredTransportModes": m},
			}
		}
	}
	if len(modes) > 0 {
		s.PreferredTransportModes = modes
	}
	if dto.WorkingHours != nil {
		start, err := domain.ParseTimeOfDay(dto.WorkingHours.Start)
		if err != nil {
			return schedule.Settings{}, &schedule.Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid workingHours.start"}
		}
		end, err := domain.ParseTimeOfDay(dto.WorkingHours.End)
		if err != nil {
			return schedule.Settings{}, &schedule.Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid workingHours.end"}
		}
		s.WorkingHours = &schedule.WorkingHours{Start: start, End: end}
	}
	return s, nil
}

func timeOfDayString(t *domain.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
