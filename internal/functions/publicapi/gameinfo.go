package publicapi

import (
	"encoding/json"
	"net/http"

	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/rediscache"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	v1 "github.com/oweek/raceday-backend/pkg/api/v1"
	"github.com/oweek/raceday-backend/pkg/livequery"
	"google.golang.org/api/iterator"
)

//StationRecord Station document together with its ID.
type StationRecord struct {
	ID      string
	Station structs.Station
}

//BuildGameInfo Assembles the public game-info payload: game flags plus all
//station statuses in area order (manned before unmanned within an area,
//natural name last). Pure, the handler owns the I/O.
func BuildGameInfo(state structs.GameState, stations []StationRecord, now int64) v1.GameInfoResponse {
	response := v1.GameInfoResponse{
		Active:             state.Active,
		HouseSystemEnabled: state.HouseSystemEnabled,
		Stations:           make([]v1.GameInfoStation, 0, len(stations)),
		GeneratedAt:        now,
	}

	items := make([]livequery.Item, len(stations))
	for i, record := range stations {
		items[i] = livequery.Item{ID: record.ID, Doc: record}
	}

	byArea := livequery.ByArea(
		func(i livequery.Item) string { return i.Doc.(StationRecord).Station.Area },
		func(i livequery.Item) bool { return i.Doc.(StationRecord).Station.Type == structs.StationManned },
		func(i livequery.Item) string { return i.Doc.(StationRecord).Station.Name },
	)
	sorted, _ := livequery.Project(items, nil, byArea, 0, 0)

	for _, item := range sorted {
		record := item.Doc.(StationRecord)
		response.Stations = append(response.Stations, v1.GameInfoStation{
			StationID: record.ID,
			Name:      record.Station.Name,
			Area:      record.Station.Area,
			Type:      record.Station.Type,
			Status:    record.Station.Status,
			Traveling: record.Station.TravelingCount,
			Arrived:   record.Station.ArrivedCount,
		})
	}

	return response
}

//GameInfo Serves the public game overview. Unauthenticated and Redis-cached
//like the leaderboard.
func GameInfo(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	cache := rediscache.ClientImpl{}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if cached, err := cache.Get(constants.CacheKeyGameInfo); err == nil {
		w.Write([]byte(cached))
		return
	} else if !rediscache.IsMiss(err) {
		logger.Warnf("Could not read game info cache: %v", err)
	}

	config, err := utils.LoadPublicAPIConfig(ctx)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	var state structs.GameState
	if rec, err := storeClient.Doc(constants.CollectionGame, constants.DocGameState).Get(ctx); err == nil {
		if err := rec.DataTo(&state); err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
	}

	var stations []StationRecord
	it := storeClient.Collection(constants.CollectionStations).Documents(ctx)
	defer it.Stop()
	for {
		rec, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		var station structs.Station
		if err := rec.DataTo(&station); err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		stations = append(stations, StationRecord{ID: rec.Ref.ID, Station: station})
	}

	response := BuildGameInfo(state, stations, utils.GetTimeNow().Unix())

	payload, err := json.Marshal(response)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	if err := cache.Set(constants.CacheKeyGameInfo, string(payload), config.CacheTTL); err != nil {
		logger.Warnf("Could not cache game info: %v", err)
	}

	w.Write(payload)
}
