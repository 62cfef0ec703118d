package occupancy

import (
	"context"

	"firebase.google.com/go/db"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase"
)

//Board Snapshot of one station's occupancy, mirrored to Realtime DB so the
//public game-info page can read counts without touching Firestore.
type Board struct {
	Traveling int    `json:"traveling"`
	Arrived   int    `json:"arrived"`
	Status    string `json:"status"`
}

// Mirror is a Realtime DB abstraction layer interface
type Mirror interface {
	SetStation(ctx context.Context, stationID string, board Board) error
	RemoveStation(ctx context.Context, stationID string) error
	RunTransaction(ctx context.Context, stationID string, f db.UpdateFn) error
}

// Client to interact with the Realtime DB mirror
type Client struct{}

// SetStation writes the occupancy board of the given station.
func (i Client) SetStation(ctx context.Context, stationID string, board Board) error {
	client := firebase.FirebaseDbClient
	return client.NewRef(constants.DbOccupancyPrefix+stationID).Set(ctx, board)
}

// RemoveStation deletes the occupancy board of the given station.
func (i Client) RemoveStation(ctx context.Context, stationID string) error {
	client := firebase.FirebaseDbClient
	return client.NewRef(constants.DbOccupancyPrefix + stationID).Delete(ctx)
}

// RunTransaction runs f in a transaction on the station's occupancy node.
func (i Client) RunTransaction(ctx context.Context, stationID string, f db.UpdateFn) error {
	client := firebase.FirebaseDbClient
	return client.NewRef(constants.DbOccupancyPrefix + stationID).Transaction(ctx, f)
}

// MockClient mocks the mirror for unit tests
type MockClient struct {
	Boards map[string]Board
}

// SetStation writes the occupancy board (it's a mock!)
func (i *MockClient) SetStation(ctx context.Context, stationID string, board Board) error {
	if i.Boards == nil {
		i.Boards = map[string]Board{}
	}
	i.Boards[stationID] = board
	return nil
}

// RemoveStation deletes the occupancy board (it's a mock!)
func (i *MockClient) RemoveStation(ctx context.Context, stationID string) error {
	delete(i.Boards, stationID)
	return nil
}

// RunTransaction runs f in a transaction (but not, because it's a mock)
func (i *MockClient) RunTransaction(ctx context.Context, stationID string, f db.UpdateFn) error {
	return nil
}
