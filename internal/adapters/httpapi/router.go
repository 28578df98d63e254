package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes/middleware and
// delegates decoding and error mapping to the Server handlers.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/trips/{tripId}", func(r chi.Router) {
		r.Get("/activities", s.handleListActivities)
		r.Post("/activities", s.handleCreateActivity)
		r.Patch("/activities/{activityId}", s.handleUpdateActivity)
		r.Delete("/activities/{activityId}", s.handleDeleteActivity)

		r.Get("/schedule/review", s.handleScheduleReview)
		r.Post("/schedule/optimize", s.handleOptimizeSchedule)
		r.Post("/schedule/autofix", s.handleApplyAutoFixes)
		r.Post("/schedule/reminders", s.handleRegenerateReminders)

		r.Patch("/reminders/{reminderId}", s.handleUpdateReminder)
	})

	return r
}
