package publicapi

import (
	"testing"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/stretchr/testify/assert"
)

func TestBuildLeaderboard(t *testing.T) {
	groups := []GroupRecord{
		{ID: "g1", Group: structs.Group{Name: "Group 1", TotalScore: 30, HouseID: "h1"}},
		{ID: "g10", Group: structs.Group{Name: "Group 10", TotalScore: 80, HouseID: "h2"}},
		{ID: "g2", Group: structs.Group{Name: "Group 2", TotalScore: 80, HouseID: "h1"}},
	}
	houses := []HouseRecord{
		{ID: "h1", House: structs.House{Name: "Red", Color: "#ff0000"}},
		{ID: "h2", House: structs.House{Name: "Blue", Color: "#0000ff"}},
	}

	response := BuildLeaderboard(groups, houses, true, 1000)

	assert.Equal(t, int64(1000), response.GeneratedAt)

	// score first, natural name order breaks the 80-point tie
	assert.Equal(t, "Group 2", response.Groups[0].Name)
	assert.Equal(t, "Group 10", response.Groups[1].Name)
	assert.Equal(t, "Group 1", response.Groups[2].Name)

	assert.Len(t, response.Houses, 2)
	assert.Equal(t, "Red", response.Houses[0].Name)
	assert.Equal(t, 110, response.Houses[0].TotalScore)
	assert.Equal(t, 2, response.Houses[0].Groups)
	assert.Equal(t, "Blue", response.Houses[1].Name)
	assert.Equal(t, 80, response.Houses[1].TotalScore)
}

func TestBuildLeaderboardHouseSystemOff(t *testing.T) {
	groups := []GroupRecord{
		{ID: "g1", Group: structs.Group{Name: "Group 1", TotalScore: 30, HouseID: "h1"}},
	}

	response := BuildLeaderboard(groups, nil, false, 1000)

	assert.Empty(t, response.Houses)
	assert.Empty(t, response.Groups[0].HouseID)
}

func TestBuildLeaderboardEmpty(t *testing.T) {
	response := BuildLeaderboard(nil, nil, true, 1000)

	assert.Empty(t, response.Groups)
	assert.Empty(t, response.Houses)
}

func TestBuildGameInfo(t *testing.T) {
	state := structs.GameState{Active: true, HouseSystemEnabled: true}
	stations := []StationRecord{
		{ID: "s3", Station: structs.Station{Name: "Station 3", Area: "North", Type: structs.StationUnmanned, Status: structs.StationOpen}},
		{ID: "s10", Station: structs.Station{Name: "Station 10", Area: "North", Type: structs.StationManned, Status: structs.StationLunchSoon, TravelingCount: 2}},
		{ID: "s2", Station: structs.Station{Name: "Station 2", Area: "North", Type: structs.StationManned, Status: structs.StationOpen, ArrivedCount: 1}},
		{ID: "s1", Station: structs.Station{Name: "Station 1", Area: "East", Type: structs.StationManned, Status: structs.StationOpen}},
	}

	response := BuildGameInfo(state, stations, 1000)

	assert.True(t, response.Active)
	assert.True(t, response.HouseSystemEnabled)
	assert.Len(t, response.Stations, 4)

	// area order, manned before unmanned, natural names
	assert.Equal(t, "s1", response.Stations[0].StationID)
	assert.Equal(t, "s2", response.Stations[1].StationID)
	assert.Equal(t, "s10", response.Stations[2].StationID)
	assert.Equal(t, "s3", response.Stations[3].StationID)

	assert.Equal(t, 2, response.Stations[2].Traveling)
	assert.Equal(t, 1, response.Stations[1].Arrived)
}
