package travel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/oweek/raceday-backend/internal/audit"
	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/functions/scoring"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/occupancy"
	"github.com/oweek/raceday-backend/internal/pubsub"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func requireActiveGame(tx *firestore.Transaction, storeClient store.Storer) error {
	rec, err := tx.Get(storeClient.Doc(constants.CollectionGame, constants.DocGameState))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &errors.MalformedRequestError{Msg: "Game is not active"}
		}
		return fmt.Errorf("Error while querying Firestore: %v", err)
	}

	var state structs.GameState
	if err := rec.DataTo(&state); err != nil {
		return fmt.Errorf("Error while querying Firestore: %v", err)
	}
	if !state.Active {
		return &errors.MalformedRequestError{Msg: "Game is not active"}
	}
	return nil
}

func requireOwnGroup(tx *firestore.Transaction, storeClient store.Storer, caller *structs.User) (*firestore.DocumentRef, structs.Group, error) {
	var group structs.Group

	if caller.GroupID == "" {
		return nil, group, &errors.MalformedRequestError{Msg: "OGL is not attached to any group"}
	}

	doc := storeClient.Doc(constants.CollectionGroups, caller.GroupID)
	rec, err := tx.Get(doc)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, group, &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", caller.GroupID)}
		}
		return nil, group, fmt.Errorf("Error while querying Firestore: %v", err)
	}
	if err := rec.DataTo(&group); err != nil {
		return nil, group, fmt.Errorf("Error while querying Firestore: %v", err)
	}
	return doc, group, nil
}

func getStation(tx *firestore.Transaction, storeClient store.Storer, stationID string) (*firestore.DocumentRef, structs.Station, error) {
	var station structs.Station

	doc := storeClient.Doc(constants.CollectionStations, stationID)
	rec, err := tx.Get(doc)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, station, &errors.NotFoundError{Msg: fmt.Sprintf("Station %v does not exist", stationID)}
		}
		return nil, station, fmt.Errorf("Error while querying Firestore: %v", err)
	}
	if err := rec.DataTo(&station); err != nil {
		return nil, station, fmt.Errorf("Error while querying Firestore: %v", err)
	}
	return doc, station, nil
}

func mirrorTravel(ctx context.Context, logger *zap.SugaredLogger, stationID string, station structs.Station, groupID string) {
	mirror := occupancy.Client{}
	publisher := pubsub.Client{}

	board := occupancy.Board{
		Traveling: station.TravelingCount,
		Arrived:   station.ArrivedCount,
		Status:    station.Status,
	}
	if err := mirror.SetStation(ctx, stationID, board); err != nil {
		logger.Warnf("Could not mirror occupancy of station %v: %v", stationID, err)
	}

	for _, event := range []pubsub.ChangeEvent{
		{Collection: constants.CollectionGroups, DocID: groupID, Kind: "modified"},
		{Collection: constants.CollectionStations, DocID: stationID, Kind: "modified"},
	} {
		if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
			logger.Warnf("Could not publish change event for %v/%v: %v", event.Collection, event.DocID, err)
		}
	}
}

type startTravelRequest struct {
	StationID  string `json:"stationId" validate:"required"`
	EtaMinutes int    `json:"etaMinutes" validate:"gte=0,lte=180"`
}

//OglStartTravel Sets the calling OGL's group traveling towards a station.
//Bumps the station's traveling counter in the same transaction.
func OglStartTravel(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request startTravelRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling OglStartTravel request: %+v", request)

	var updatedStation structs.Station

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requireActiveGame(tx, storeClient); err != nil {
			return err
		}

		groupDoc, group, err := requireOwnGroup(tx, storeClient, caller)
		if err != nil {
			return err
		}

		stationDoc, station, err := getStation(tx, storeClient, request.StationID)
		if err != nil {
			return err
		}

		if err := CanStartTravel(group, request.StationID, station); err != nil {
			return err
		}

		group.Status = structs.GroupTraveling
		group.DestinationID = request.StationID
		group.DestinationEta = utils.GetTimeNow().Add(time.Duration(request.EtaMinutes) * time.Minute).Unix()
		station.TravelingCount++
		updatedStation = station

		if err := tx.Set(stationDoc, station); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	mirrorTravel(ctx, logger, request.StationID, updatedStation, caller.GroupID)

	logger.Infof("Group %v is traveling to station %v", caller.GroupID, request.StationID)

	httputils.SendEmptyResponse(w, r)
}

//OglArrive Checks the calling OGL's group in at its destination station and
//moves it from the traveling to the arrived counter.
func OglArrive(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var stationID string
	var updatedStation structs.Station

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requireActiveGame(tx, storeClient); err != nil {
			return err
		}

		groupDoc, group, err := requireOwnGroup(tx, storeClient, caller)
		if err != nil {
			return err
		}

		if err := CanArrive(group, group.DestinationID); err != nil {
			return err
		}

		stationDoc, station, err := getStation(tx, storeClient, group.DestinationID)
		if err != nil {
			return err
		}

		group.Status = structs.GroupArrived
		if station.TravelingCount > 0 {
			station.TravelingCount--
		}
		station.ArrivedCount++
		stationID = group.DestinationID
		updatedStation = station

		if err := tx.Set(stationDoc, station); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	mirrorTravel(ctx, logger, stationID, updatedStation, caller.GroupID)

	logger.Infof("Group %v arrived at station %v", caller.GroupID, stationID)

	httputils.SendEmptyResponse(w, r)
}

//OglDepart Sends the calling OGL's group back on the road. The station is
//marked completed for this group; an unmanned station also awards its points
//here because there is no SM on site to submit them.
func OglDepart(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	uid, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	entryDoc := storeClient.Collection(constants.CollectionScoreLog).NewDoc()

	var stationID string
	var updatedStation structs.Station
	var awarded *structs.ScoreLogEntry

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		awarded = nil

		if err := requireActiveGame(tx, storeClient); err != nil {
			return err
		}

		groupDoc, group, err := requireOwnGroup(tx, storeClient, caller)
		if err != nil {
			return err
		}

		if err := CanDepart(group); err != nil {
			return err
		}

		stationDoc, station, err := getStation(tx, storeClient, group.DestinationID)
		if err != nil {
			return err
		}

		stationID = group.DestinationID

		alreadyCompleted := false
		for _, s := range group.CompletedStations {
			if s == stationID {
				alreadyCompleted = true
				break
			}
		}
		if !alreadyCompleted {
			group.CompletedStations = append(group.CompletedStations, stationID)

			if station.Type == structs.StationUnmanned {
				group.TotalScore += station.Points
				entry := structs.ScoreLogEntry{
					GroupID:   caller.GroupID,
					Points:    station.Points,
					Type:      structs.ScoreTypeStation,
					SourceID:  stationID,
					AwardedBy: uid,
					CreatedAt: utils.GetTimeNow().Unix(),
				}
				if err := tx.Set(entryDoc, entry); err != nil {
					return fmt.Errorf("Error while querying Firestore: %v", err)
				}
				awarded = &entry
			}
		}

		group.Status = structs.GroupIdle
		group.DestinationID = ""
		group.DestinationEta = 0
		if station.ArrivedCount > 0 {
			station.ArrivedCount--
		}
		updatedStation = station

		if err := tx.Set(stationDoc, station); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	if awarded != nil {
		scoring.MirrorScore(logger, audit.Client{}, pubsub.Client{}, entryDoc.ID, *awarded)
	}

	mirrorTravel(ctx, logger, stationID, updatedStation, caller.GroupID)

	logger.Infof("Group %v departed from station %v", caller.GroupID, stationID)

	httputils.SendEmptyResponse(w, r)
}

//OglToggleLunch Flips the calling OGL's group between idle and on-lunch.
func OglToggleLunch(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	publisher := pubsub.Client{}

	_, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var newStatus string

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requireActiveGame(tx, storeClient); err != nil {
			return err
		}

		groupDoc, group, err := requireOwnGroup(tx, storeClient, caller)
		if err != nil {
			return err
		}

		if err := CanToggleLunch(group); err != nil {
			return err
		}

		if group.Status == structs.GroupIdle {
			group.Status = structs.GroupOnLunch
		} else {
			group.Status = structs.GroupIdle
		}
		newStatus = group.Status

		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	event := pubsub.ChangeEvent{Collection: constants.CollectionGroups, DocID: caller.GroupID, Kind: "modified"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for group %v: %v", caller.GroupID, err)
	}

	logger.Infof("Group %v is now %v", caller.GroupID, newStatus)

	httputils.SendResponse(w, r, map[string]string{"status": newStatus})
}
