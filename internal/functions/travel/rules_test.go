package travel

import (
	"testing"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/stretchr/testify/assert"
)

func TestCanStartTravel(t *testing.T) {
	open := structs.Station{Name: "Library", Status: structs.StationOpen}

	tables := []struct {
		name      string
		group     structs.Group
		stationID string
		station   structs.Station
		legal     bool
	}{
		{"idle-to-open", structs.Group{Status: structs.GroupIdle}, "st1", open, true},
		{"idle-to-lunch-soon", structs.Group{Status: structs.GroupIdle}, "st1", structs.Station{Status: structs.StationLunchSoon}, true},
		{"already-traveling", structs.Group{Status: structs.GroupTraveling}, "st1", open, false},
		{"arrived", structs.Group{Status: structs.GroupArrived}, "st1", open, false},
		{"on-lunch", structs.Group{Status: structs.GroupOnLunch}, "st1", open, false},
		{"stale-destination", structs.Group{Status: structs.GroupIdle, DestinationID: "st9"}, "st1", open, false},
		{"station-closed-lunch", structs.Group{Status: structs.GroupIdle}, "st1", structs.Station{Status: structs.StationClosedLunch}, false},
		{"station-closed-permanently", structs.Group{Status: structs.GroupIdle}, "st1", structs.Station{Status: structs.StationClosedPermanently}, false},
		{"already-completed", structs.Group{Status: structs.GroupIdle, CompletedStations: []string{"st1"}}, "st1", open, false},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			err := CanStartTravel(table.group, table.stationID, table.station)
			if table.legal {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}

func TestCanArrive(t *testing.T) {
	assert.Nil(t, CanArrive(structs.Group{Status: structs.GroupTraveling, DestinationID: "st1"}, "st1"))
	assert.NotNil(t, CanArrive(structs.Group{Status: structs.GroupTraveling, DestinationID: "st2"}, "st1"))
	assert.NotNil(t, CanArrive(structs.Group{Status: structs.GroupIdle}, "st1"))
	assert.NotNil(t, CanArrive(structs.Group{Status: structs.GroupArrived, DestinationID: "st1"}, "st1"))
}

func TestCanDepart(t *testing.T) {
	assert.Nil(t, CanDepart(structs.Group{Status: structs.GroupArrived}))
	assert.NotNil(t, CanDepart(structs.Group{Status: structs.GroupTraveling}))
	assert.NotNil(t, CanDepart(structs.Group{Status: structs.GroupIdle}))
}

func TestCanToggleLunch(t *testing.T) {
	assert.Nil(t, CanToggleLunch(structs.Group{Status: structs.GroupIdle}))
	assert.Nil(t, CanToggleLunch(structs.Group{Status: structs.GroupOnLunch}))
	assert.NotNil(t, CanToggleLunch(structs.Group{Status: structs.GroupTraveling}))
	assert.NotNil(t, CanToggleLunch(structs.Group{Status: structs.GroupArrived}))
}
