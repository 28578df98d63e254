package activityrepo

import (
	"testing"

	"github.com/wayfarer-travel/itinerary-api/internal/adapters/contracttest"
	"github.com/wayfarer-travel/itinerary-api/internal/adapters/postgres/testutil"
	activityrepoport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
)

func TestContract_PostgresActivityRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunActivityRepo(t, func(t *testing.T) (activityrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), func() { testutil.TruncateAll(t, pool) }
	})
}
