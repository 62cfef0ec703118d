package game

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/occupancy"
	"github.com/oweek/raceday-backend/internal/pubsub"
	"github.com/oweek/raceday-backend/internal/rediscache"
	"github.com/oweek/raceday-backend/internal/redismutex"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore caps a single batched write at 500 operations.
const batchLimit = 450

//ToggleGameStatus Starts or pauses the game. Travel and scoring refuse while
//the game is inactive. Admin only.
func ToggleGameStatus(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	publisher := pubsub.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	doc := storeClient.Doc(constants.CollectionGame, constants.DocGameState)

	var active bool

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var state structs.GameState

		rec, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			// no state doc yet, start from the zero value
		} else if err := rec.DataTo(&state); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		state.Active = !state.Active
		state.UpdatedAt = utils.GetTimeNow().Unix()
		active = state.Active

		return tx.Set(doc, state)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	event := pubsub.ChangeEvent{Collection: constants.CollectionGame, DocID: constants.DocGameState, Kind: "modified"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for game state: %v", err)
	}

	logger.Infof("Game active: %v", active)

	httputils.SendResponse(w, r, map[string]bool{"active": active})
}

type resetGameRequest struct {
	Confirmation string `json:"confirmation" validate:"required,eq=RESET"`
}

//ResetGame Wipes the event back to its pre-start state: group scores, statuses
//and completions, station counters, the score log and all announcements. Runs
//under an exclusive lock so two admins cannot race it. Admin only.
func ResetGame(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	mutexManager := redismutex.ClientImpl{}
	cache := rediscache.ClientImpl{}
	mirror := occupancy.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request resetGameRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	mutex, err := mutexManager.Lock("reset-game")
	if err != nil {
		logger.Warnf("Could not acquire reset-game lock: %v", err)
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Reset is already in progress"})
		return
	}
	defer func() {
		if _, err := mutex.Unlock(); err != nil {
			logger.Warnf("Could not release reset-game lock: %v", err)
		}
	}()

	logger.Info("Resetting the game")

	if err := resetGroups(ctx, storeClient); err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	if err := resetStations(ctx, storeClient, mirror, logger); err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	for _, collection := range []string{constants.CollectionScoreLog, constants.CollectionAnnouncements} {
		if err := purgeCollection(ctx, storeClient, collection); err != nil {
			logger.Warnf("Cannot handle request: %+v", err.Error())
			httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
			return
		}
	}

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc := storeClient.Doc(constants.CollectionGame, constants.DocGameState)

		var state structs.GameState
		rec, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
		} else if err := rec.DataTo(&state); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		state.Active = false
		state.UpdatedAt = utils.GetTimeNow().Unix()

		return tx.Set(doc, state)
	})
	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	if err := cache.Del(constants.CacheKeyLeaderboard, constants.CacheKeyGameInfo); err != nil {
		logger.Warnf("Could not drop public caches: %v", err)
	}

	logger.Info("Game has been reset")

	httputils.SendEmptyResponse(w, r)
}

func resetGroups(ctx context.Context, storeClient store.Storer) error {
	it := storeClient.Collection(constants.CollectionGroups).Documents(ctx)
	defer it.Stop()

	batch := storeClient.Batch()
	pending := 0

	for {
		rec, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var group structs.Group
		if err := rec.DataTo(&group); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		group.Status = structs.GroupIdle
		group.TotalScore = 0
		group.DestinationID = ""
		group.DestinationEta = 0
		group.CompletedStations = nil
		group.CompletedSideQuests = nil

		batch.Set(rec.Ref, group)
		pending++

		if pending == batchLimit {
			if _, err := batch.Commit(ctx); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			batch = storeClient.Batch()
			pending = 0
		}
	}

	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
	}

	return nil
}

func resetStations(ctx context.Context, storeClient store.Storer, mirror occupancy.Mirror, logger *zap.SugaredLogger) error {
	it := storeClient.Collection(constants.CollectionStations).Documents(ctx)
	defer it.Stop()

	batch := storeClient.Batch()
	pending := 0

	for {
		rec, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var station structs.Station
		if err := rec.DataTo(&station); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		station.Status = structs.StationOpen
		station.TravelingCount = 0
		station.ArrivedCount = 0

		batch.Set(rec.Ref, station)
		pending++

		if err := mirror.SetStation(ctx, rec.Ref.ID, occupancy.Board{Status: station.Status}); err != nil {
			logger.Warnf("Could not mirror occupancy of station %v: %v", rec.Ref.ID, err)
		}

		if pending == batchLimit {
			if _, err := batch.Commit(ctx); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			batch = storeClient.Batch()
			pending = 0
		}
	}

	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
	}

	return nil
}

func purgeCollection(ctx context.Context, storeClient store.Storer, collection string) error {
	it := storeClient.Collection(collection).Documents(ctx)
	defer it.Stop()

	batch := storeClient.Batch()
	pending := 0

	for {
		rec, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		batch.Delete(rec.Ref)
		pending++

		if pending == batchLimit {
			if _, err := batch.Commit(ctx); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			batch = storeClient.Batch()
			pending = 0
		}
	}

	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
	}

	return nil
}
