package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"

	"github.com/wayfarer-travel/itinerary-api/internal/app/activities"
	"github.com/wayfarer-travel/itinerary-api/internal/domain"
)

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))

	day, ok := dayQueryParam(w, r)
	if !ok {
		return
	}
	acts, err := s.Activities.ListActivities(r.Context(), tripID, day)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{Activities: activitiesFromDomain(acts)})
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))

	var body CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	start, err := domain.ParseTimeOfDay(body.StartTime)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid startTime", nil)
		return
	}
	end, ok := timeOfDayParam(w, r, "endTime", body.EndTime)
	if !ok {
		return
	}
	openFrom, ok := timeOfDayParam(w, r, "openFrom", body.OpenFrom)
	if !ok {
		return
	}
	openUntil, ok := timeOfDayParam(w, r, "openUntil", body.OpenUntil)
	if !ok {
		return
	}

	in := activities.CreateActivityInput{
		Title:     body.Title,
		Category:  body.Category,
		Day:       domain.DayOf(body.Day.Time),
		Start:     start,
		End:       end,
		Locked:    body.Locked,
		OpenFrom:  openFrom,
		OpenUntil: openUntil,
	}
	if body.Location != nil {
		in.Location = activities.LocationInput{
			Name:      body.Location.Name,
			Latitude:  body.Location.Latitude,
			Longitude: body.Location.Longitude,
		}
	}

	a, err := s.Activities.CreateActivity(r.Context(), tripID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ActivityResponse{Activity: activityFromDomain(a)})
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))
	activityID := domain.ActivityID(chi.URLParam(r, "activityId"))

	var body UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	in := activities.UpdateActivityInput{}

	if body.Title.IsSpecified() {
		if body.Title.IsNull() {
			in.Title = activities.Null[string]()
		} else {
			in.Title = activities.Some(body.Title.MustGet())
		}
	}
	if body.Category.IsSpecified() {
		if body.Category.IsNull() {
			in.Category = activities.Null[string]()
		} else {
			in.Category = activities.Some(body.Category.MustGet())
		}
	}
	if body.Day.IsSpecified() {
		if body.Day.IsNull() {
			in.Day = activities.Null[domain.Day]()
		} else {
			in.Day = activities.Some(domain.DayOf(body.Day.MustGet().Time))
		}
	}

	var ok bool
	if in.Start, ok = optionalTimeOfDay(w, r, "startTime", body.StartTime); !ok {
		return
	}
	if in.End, ok = optionalTimeOfDay(w, r, "endTime", body.EndTime); !ok {
		return
	}
	if in.OpenFrom, ok = optionalTimeOfDay(w, r, "openFrom", body.OpenFrom); !ok {
		return
	}
	if in.OpenUntil, ok = optionalTimeOfDay(w, r, "openUntil", body.OpenUntil); !ok {
		return
	}

	if body.Location.IsSpecified() {
		if body.Location.IsNull() {
			in.Location = activities.Null[activities.LocationInput]()
		} else {
			loc := body.Location.MustGet()
			in.Location = activities.Some(activities.LocationInput{
				Name:      loc.Name,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			})
		}
	}
	if body.Locked.IsSpecified() {
		if body.Locked.IsNull() {
			in.Locked = activities.Null[bool]()
		} else {
			in.Locked = activities.Some(body.Locked.MustGet())
		}
	}

	a, err := s.Activities.UpdateActivity(r.Context(), tripID, activityID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActivityResponse{Activity: activityFromDomain(a)})
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))
	activityID := domain.ActivityID(chi.URLParam(r, "activityId"))

	if err := s.Activities.DeleteActivity(r.Context(), tripID, activityID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dayQueryParam parses the optional ?day=YYYY-MM-DD filter. Reports false
// after writing an error response.
func dayQueryParam(w http.ResponseWriter, r *http.Request) (*domain.Day, bool) {
	raw := r.URL.Query().Get("day")
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid day", map[string]any{"day": "must be YYYY-MM-DD"})
		return nil, false
	}
	d := domain.DayOf(t)
	return &d, true
}

func timeOfDayParam(w http.ResponseWriter, r *http.Request, field string, raw *string) (*domain.TimeOfDay, bool) {
	if raw == nil {
		return nil, true
	}
	t, err := domain.ParseTimeOfDay(*raw)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid "+field, map[string]any{field: "must be HH:MM"})
		return nil, false
	}
	return &t, true
}

func optionalTimeOfDay(w http.ResponseWriter, r *http.Request, field string, n nullable.Nullable[string]) (activities.Optional[domain.TimeOfDay], bool) {
	if !n.IsSpecified() {
		return activities.Unspecified[domain.TimeOfDay](), true
	}
	if n.IsNull() {
		return activities.Null[domain.TimeOfDay](), true
	}
	t, err := domain.ParseTimeOfDay(n.MustGet())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid "+field, map[string]any{field: "must be HH:MM"})
		return activities.Optional[domain.TimeOfDay]{}, false
	}
	return activities.Some(t), true
}
