package groups

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

type assignHouseRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	HouseID string `json:"houseId" validate:"required"`
}

//AssignGroupToHouse Attaches a group to a house. Requires the house system to
//be enabled. Admin only.
func AssignGroupToHouse(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request assignHouseRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling AssignGroupToHouse request: %+v", request)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stateRec, err := tx.Get(storeClient.Doc(constants.CollectionGame, constants.DocGameState))
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var state structs.GameState
		if err == nil {
			if err := stateRec.DataTo(&state); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
		}

		if !state.HouseSystemEnabled {
			return &errors.MalformedRequestError{Msg: "The house system is disabled"}
		}

		if _, err := tx.Get(storeClient.Doc(constants.CollectionHouses, request.HouseID)); err != nil {
			return &errors.NotFoundError{Msg: fmt.Sprintf("House %v does not exist", request.HouseID)}
		}

		groupDoc := storeClient.Doc(constants.CollectionGroups, request.GroupID)
		groupRec, err := tx.Get(groupDoc)
		if err != nil {
			return &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", request.GroupID)}
		}

		var group structs.Group
		if err := groupRec.DataTo(&group); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		group.HouseID = request.HouseID
		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("Assigned group %v to house %v", request.GroupID, request.HouseID)

	httputils.SendEmptyResponse(w, r)
}
