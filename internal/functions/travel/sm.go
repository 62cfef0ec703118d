package travel

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type setStationRequest struct {
	StationID string `json:"stationId" validate:"required"`
}

//SetStation Records which station the calling SM staffs. Only manned stations
//can be selected.
func SetStation(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	uid, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleSM)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request setStationRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling SetStation request: %+v", request)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rec, err := tx.Get(storeClient.Doc(constants.CollectionStations, request.StationID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Station %v does not exist", request.StationID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var station structs.Station
		if err := rec.DataTo(&station); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if station.Type != structs.StationManned {
			return &errors.MalformedRequestError{Msg: fmt.Sprintf("Station %v is unmanned", station.Name)}
		}

		userDoc := storeClient.Doc(constants.CollectionUsers, uid)
		userRec, err := tx.Get(userDoc)
		if err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var user structs.User
		if err := userRec.DataTo(&user); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		user.SelectedStationID = request.StationID

		return tx.Set(userDoc, user)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("SM %v is now stationed at %v", uid, request.StationID)

	httputils.SendEmptyResponse(w, r)
}

//LeaveStation Clears the calling SM's station selection.
func LeaveStation(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	uid, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleSM)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		userDoc := storeClient.Doc(constants.CollectionUsers, uid)
		userRec, err := tx.Get(userDoc)
		if err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var user structs.User
		if err := userRec.DataTo(&user); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		user.SelectedStationID = ""

		return tx.Set(userDoc, user)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("SM %v left their station", uid)

	httputils.SendEmptyResponse(w, r)
}
