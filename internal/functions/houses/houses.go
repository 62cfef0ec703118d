package houses

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
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type createHouseRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type createHouseResponse struct {
	HouseID string `json:"houseId"`
}

//CreateHouse Creates a new house. Admin only.
func CreateHouse(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request createHouseRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling CreateHouse request: %+v", request)

	doc := storeClient.Collection(constants.CollectionHouses).NewDoc()

	house := structs.House{
		Name:  request.Name,
		Color: request.Color,
	}

	if _, err := doc.Set(ctx, house); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	logger.Infof("Created house %v", doc.ID)

	httputils.SendResponse(w, r, createHouseResponse{HouseID: doc.ID})
}

type updateHouseRequest struct {
	HouseID string `json:"houseId" validate:"required"`
	Name    string `json:"name"`
	Color   string `json:"color" validate:"omitempty,hexcolor"`
}

//UpdateHouse Renames or recolors a house. Admin only.
func UpdateHouse(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request updateHouseRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling UpdateHouse request: %+v", request)

	doc := storeClient.Doc(constants.CollectionHouses, request.HouseID)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rec, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("House %v does not exist", request.HouseID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var house structs.House
		if err := rec.DataTo(&house); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if request.Name != "" {
			house.Name = request.Name
		}
		if request.Color != "" {
			house.Color = request.Color
		}

		return tx.Set(doc, house)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	httputils.SendEmptyResponse(w, r)
}

type deleteHouseRequest struct {
	HouseID string `json:"houseId" validate:"required"`
}

//DeleteHouse Removes a house. Refuses while groups are assigned to it. Admin only.
func DeleteHouse(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request deleteHouseRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling DeleteHouse request: %+v", request)

	it := storeClient.Find(constants.CollectionGroups, "houseId", request.HouseID).Documents(ctx)
	defer it.Stop()

	_, err = it.Next()
	if err == nil {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "House still has groups assigned"})
		return
	}
	if err != iterator.Done {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	if _, err := storeClient.Doc(constants.CollectionHouses, request.HouseID).Delete(ctx); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	logger.Infof("Deleted house %v", request.HouseID)

	httputils.SendEmptyResponse(w, r)
}

//ToggleHouseSystem Flips the house system flag on the game state. Admin only.
func ToggleHouseSystem(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	doc := storeClient.Doc(constants.CollectionGame, constants.DocGameState)

	var enabled bool

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

		state.HouseSystemEnabled = !state.HouseSystemEnabled
		state.UpdatedAt = utils.GetTimeNow().Unix()
		enabled = state.HouseSystemEnabled

		return tx.Set(doc, state)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("House system enabled: %v", enabled)

	httputils.SendResponse(w, r, map[string]bool{"houseSystemEnabled": enabled})
}
