package stations

import (
	"testing"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tables := []struct {
		name    string
		station structs.Station
		next    string
		legal   bool
	}{
		{"open-to-lunch-soon", structs.Station{Status: structs.StationOpen}, structs.StationLunchSoon, true},
		{"lunch-soon-back-to-open", structs.Station{Status: structs.StationLunchSoon}, structs.StationOpen, true},
		{"lunch-soon-to-closed-lunch", structs.Station{Status: structs.StationLunchSoon}, structs.StationClosedLunch, true},
		{"closed-lunch-reopen", structs.Station{Status: structs.StationClosedLunch}, structs.StationOpen, true},
		{"open-close-permanently-empty", structs.Station{Status: structs.StationOpen}, structs.StationClosedPermanently, true},

		{"open-to-closed-lunch-skips-warning", structs.Station{Status: structs.StationOpen}, structs.StationClosedLunch, false},
		{"same-status", structs.Station{Status: structs.StationOpen}, structs.StationOpen, false},
		{"permanent-is-terminal", structs.Station{Status: structs.StationClosedPermanently}, structs.StationOpen, false},
		{"close-permanently-with-travelers", structs.Station{Status: structs.StationOpen, TravelingCount: 2}, structs.StationClosedPermanently, false},
		{"close-permanently-with-arrivals", structs.Station{Status: structs.StationLunchSoon, ArrivedCount: 1}, structs.StationClosedPermanently, false},
		{"close-lunch-with-arrivals", structs.Station{Status: structs.StationLunchSoon, ArrivedCount: 1}, structs.StationClosedLunch, false},
		{"close-lunch-with-travelers-only", structs.Station{Status: structs.StationLunchSoon, TravelingCount: 3}, structs.StationClosedLunch, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			err := CanTransition(table.station, table.next)
			if table.legal {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}
