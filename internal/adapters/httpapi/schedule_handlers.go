package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/itinerary-api/internal/app/schedule"
	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/idempotency"
)

func (s *Server) handleScheduleReview(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))

	day, ok := dayQueryParam(w, r)
	if !ok {
		return
	}
	settings, err := s.settings(nil)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	review, err := s.Schedule.GetReview(r.Context(), tripID, day, settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{
		Activities:   activitiesFromDomain(review.Activities),
		Conflicts:    conflictsFromDomain(review.Conflicts),
		Optimization: optimizationFromDomain(review.Optimization),
		Reminders:    remindersFromDomain(review.Reminders),
	})
}

func (s *Server) handleOptimizeSchedule(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))

	var body OptimizeRequest
	if err := decodeOptionalBody(r, &body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}
	settings, err := s.settings(body.Settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var day *domain.Day
	if body.Day != nil {
		d := domain.DayOf(body.Day.Time)
		day = &d
	}

	opt, err := s.Schedule.Optimize(r.Context(), tripID, day, settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OptimizationResponse{Optimization: optimizationFromDomain(opt)})
}

func (s *Server) handleApplyAutoFixes(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))

	var body AutoFixRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}
	settings, err := s.settings(body.Settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	// Idempotency handling:
	// - Replay if same key+route+bodyHash
	// - Reject if same key+route with different bodyHash (409)
	idemKey := r.Header.Get("Idempotency-Key")
	var bodyHash string
	if idemKey != "" && s.Idem != nil {
		bodyHash, err = hashBody(tripID, body)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		metaFP := idempotency.Fingerprint{
			Key:      idempotency.Key(idemKey),
			Method:   http.MethodPost,
			Route:    "/trips/{tripId}/schedule/autofix",
			BodyHash: "",
		}
		if meta, ok, err := s.Idem.Get(r.Context(), metaFP); err != nil {
			writeAppError(w, r, err)
			return
		} else if ok {
			if string(meta.Body) != bodyHash {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
				return
			}
		} else {
			_ = s.Idem.Put(r.Context(), metaFP, idempotency.Record{
				StatusCode:  0,
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			})
		}

		respFP := metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(r.Context(), respFP); err != nil {
			writeAppError(w, r, err)
			return
		} else if ok && rec.StatusCode == http.StatusOK && strings.HasPrefix(rec.ContentType, "application/json") {
			w.Header().Set("Content-Type", rec.ContentType)
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	conflictIDs := make([]domain.ConflictID, 0, len(body.ConflictIds))
	for _, id := range body.ConflictIds {
		conflictIDs = append(conflictIDs, domain.ConflictID(id))
	}
	outcome, err := s.Schedule.ApplyAutoFixes(r.Context(), tripID, conflictIDs, settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	resp := AutoFixResponse{
		Activities:        activitiesFromDomain(outcome.Activities),
		ResidualConflicts: conflictsFromDomain(outcome.Residual),
	}
	b, err := json.Marshal(resp)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	// Store exactly the bytes served, so replays are byte-identical.
	if idemKey != "" && s.Idem != nil {
		respFP := idempotency.Fingerprint{
			Key:      idempotency.Key(idemKey),
			Method:   http.MethodPost,
			Route:    "/trips/{tripId}/schedule/autofix",
			BodyHash: bodyHash,
		}
		_ = s.Idem.Put(r.Context(), respFP, idempotency.Record{
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   time.Now().UTC(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleRegenerateReminders(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))

	var body RegenerateRemindersRequest
	if err := decodeOptionalBody(r, &body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}
	settings, err := s.settings(body.Settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	reminders, err := s.Schedule.RegenerateReminders(r.Context(), tripID, settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RemindersResponse{Reminders: remindersFromDomain(reminders)})
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripId"))
	reminderID := domain.ReminderID(chi.URLParam(r, "reminderId"))

	var body UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	patch := schedule.ReminderPatch{MinutesBefore: body.MinutesBefore, Enabled: body.Enabled}
	rem, err := s.Schedule.UpdateReminder(r.Context(), tripID, reminderID, patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReminderResponse{Reminder: reminderFromDomain(rem)})
}

// decodeOptionalBody tolerates an empty body (all-defaults request).
func decodeOptionalBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func hashBody(tripID domain.TripID, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(string(tripID)+"|"), b...))
	return hex.EncodeToString(sum[:]), nil
}
