package reminderrepo

import (
	"testing"

	"github.com/wayfarer-travel/itinerary-api/internal/adapters/contracttest"
	reminderrepoport "github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

func TestContract_ReminderRepo(t *testing.T) {
	contracttest.RunReminderRepo(t, func(t *testing.T) (reminderrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
