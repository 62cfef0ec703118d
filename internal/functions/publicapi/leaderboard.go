package publicapi

import (
	"encoding/json"
	"net/http"
	"sort"

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

//GroupRecord Group document together with its ID, as read for the public
//endpoints.
type GroupRecord struct {
	ID    string
	Group structs.Group
}

//HouseRecord House document together with its ID.
type HouseRecord struct {
	ID    string
	House structs.House
}

//BuildLeaderboard Assembles the public leaderboard: groups by descending
//score with natural name order as the tie break, plus per-house aggregation
//while the house system is on. Pure, the handler owns the I/O.
func BuildLeaderboard(groups []GroupRecord, houses []HouseRecord, houseSystem bool, now int64) v1.LeaderboardResponse {
	response := v1.LeaderboardResponse{
		Groups:      make([]v1.LeaderboardGroup, 0, len(groups)),
		GeneratedAt: now,
	}

	for _, record := range groups {
		entry := v1.LeaderboardGroup{
			GroupID:    record.ID,
			Name:       record.Group.Name,
			TotalScore: record.Group.TotalScore,
		}
		if houseSystem {
			entry.HouseID = record.Group.HouseID
		}
		response.Groups = append(response.Groups, entry)
	}

	sort.SliceStable(response.Groups, func(i, j int) bool {
		if response.Groups[i].TotalScore != response.Groups[j].TotalScore {
			return response.Groups[i].TotalScore > response.Groups[j].TotalScore
		}
		return livequery.NaturalLess(response.Groups[i].Name, response.Groups[j].Name)
	})

	if !houseSystem {
		return response
	}

	standings := map[string]*v1.LeaderboardHouse{}
	for _, record := range houses {
		standings[record.ID] = &v1.LeaderboardHouse{
			HouseID: record.ID,
			Name:    record.House.Name,
			Color:   record.House.Color,
		}
	}
	for _, record := range groups {
		if standing, ok := standings[record.Group.HouseID]; ok {
			standing.TotalScore += record.Group.TotalScore
			standing.Groups++
		}
	}

	response.Houses = make([]v1.LeaderboardHouse, 0, len(standings))
	for _, standing := range standings {
		response.Houses = append(response.Houses, *standing)
	}
	sort.SliceStable(response.Houses, func(i, j int) bool {
		if response.Houses[i].TotalScore != response.Houses[j].TotalScore {
			return response.Houses[i].TotalScore > response.Houses[j].TotalScore
		}
		return livequery.NaturalLess(response.Houses[i].Name, response.Houses[j].Name)
	})

	return response
}

//Leaderboard Serves the public leaderboard. Unauthenticated, polled on a
//fixed interval, so the assembled JSON sits in Redis for a few seconds.
func Leaderboard(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	cache := rediscache.ClientImpl{}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if cached, err := cache.Get(constants.CacheKeyLeaderboard); err == nil {
		w.Write([]byte(cached))
		return
	} else if !rediscache.IsMiss(err) {
		logger.Warnf("Could not read leaderboard cache: %v", err)
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

	var groups []GroupRecord
	it := storeClient.Collection(constants.CollectionGroups).Documents(ctx)
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
		var group structs.Group
		if err := rec.DataTo(&group); err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		groups = append(groups, GroupRecord{ID: rec.Ref.ID, Group: group})
	}

	var houses []HouseRecord
	if state.HouseSystemEnabled {
		it := storeClient.Collection(constants.CollectionHouses).Documents(ctx)
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
			var house structs.House
			if err := rec.DataTo(&house); err != nil {
				logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
				http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
				return
			}
			houses = append(houses, HouseRecord{ID: rec.Ref.ID, House: house})
		}
	}

	response := BuildLeaderboard(groups, houses, state.HouseSystemEnabled, utils.GetTimeNow().Unix())

	payload, err := json.Marshal(response)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	if err := cache.Set(constants.CacheKeyLeaderboard, string(payload), config.CacheTTL); err != nil {
		logger.Warnf("Could not cache leaderboard: %v", err)
	}

	w.Write(payload)
}
