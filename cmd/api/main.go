package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	haversine "github.com/wayfarer-travel/itinerary-api/internal/adapters/geo/haversine"
	"github.com/wayfarer-travel/itinerary-api/internal/adapters/httpapi"
	memactivityrepo "github.com/wayfarer-travel/itinerary-api/internal/adapters/memory/activityrepo"
	memidempotency "github.com/wayfarer-travel/itinerary-api/internal/adapters/memory/idempotency"
	memreminderrepo "github.com/wayfarer-travel/itinerary-api/internal/adapters/memory/reminderrepo"
	staticnarrative "github.com/wayfarer-travel/itinerary-api/internal/adapters/narrative/static"
	postgres "github.com/wayfarer-travel/itinerary-api/internal/adapters/postgres"
	pgactivityrepo "github.com/wayfarer-travel/itinerary-api/internal/adapters/postgres/activityrepo"
	pgidempotency "github.com/wayfarer-travel/itinerary-api/internal/adapters/postgres/idempotency"
	pgreminderrepo "github.com/wayfarer-travel/itinerary-api/internal/adapters/postgres/reminderrepo"
	"github.com/wayfarer-travel/itinerary-api/internal/app/activities"
	"github.com/wayfarer-travel/itinerary-api/internal/app/schedule"
	platformclock "github.com/wayfarer-travel/itinerary-api/internal/platform/clock"
	"github.com/wayfarer-travel/itinerary-api/internal/platform/config"
	activityrepoport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
	idempotencyport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/idempotency"
	reminderrepoport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

func main() {
	port := getenv("PORT", "8080")

	engineCfg, err := config.LoadEngineConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid engine config: %v", err)
	}

	clk := platformclock.NewSystemClock()

	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		activityRepo activityrepoport.Repository
		reminderRepo reminderrepoport.Repository
		idemStore    idempotencyport.Store
		cleanup      func()
	)

	switch storageBackend {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		pool, err := postgres.NewPool(context.Background(), dsn, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}

		activityRepo = pgactivityrepo.NewRepo(pool)
		reminderRepo = pgreminderrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	default:
		activityRepo = memactivityrepo.NewRepo()
		reminderRepo = memreminderrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	estimator := haversine.New()
	narrator := staticnarrative.New()

	activitySvc := activities.NewService(activityRepo, reminderRepo, clk)
	scheduleSvc := schedule.NewService(activityRepo, reminderRepo, estimator, clk, narrator)

	api := httpapi.NewServer(activitySvc, scheduleSvc, idemStore)
	defaults := schedule.DefaultSettings()
	defaults.BufferMinutes = engineCfg.BufferMinutes
	defaults.MaxTravelMinutes = engineCfg.MaxTravelMinutes
	api.Defaults = defaults

	handler := httpapi.NewRouter(api)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
