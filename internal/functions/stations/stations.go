package stations

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
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type createStationRequest struct {
	Name   string `json:"name" validate:"required"`
	Type   string `json:"type" validate:"required,oneof=manned unmanned"`
	Area   string `json:"area" validate:"required"`
	Points int    `json:"points" validate:"gte=0"`
}

type createStationResponse struct {
	StationID string `json:"stationId"`
}

//CreateStation Creates a new station, open and empty. Admin only.
func CreateStation(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	mirror := occupancy.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request createStationRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling CreateStation request: %+v", request)

	station := structs.Station{
		Name:   request.Name,
		Type:   request.Type,
		Status: structs.StationOpen,
		Area:   request.Area,
		Points: request.Points,
	}

	doc := storeClient.Collection(constants.CollectionStations).NewDoc()

	if _, err := doc.Set(ctx, station); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	if err := mirror.SetStation(ctx, doc.ID, occupancy.Board{Status: station.Status}); err != nil {
		logger.Warnf("Could not mirror occupancy of station %v: %v", doc.ID, err)
	}

	logger.Infof("Created station %v", doc.ID)

	httputils.SendResponse(w, r, createStationResponse{StationID: doc.ID})
}

type updateStationRequest struct {
	StationID string `json:"stationId" validate:"required"`
	Name      string `json:"name"`
	Type      string `json:"type" validate:"omitempty,oneof=manned unmanned"`
	Area      string `json:"area"`
	Points    *int   `json:"points" validate:"omitempty,gte=0"`
}

//UpdateStation Edits station metadata. Status changes go through
//UpdateStationStatus instead. Admin only.
func UpdateStation(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request updateStationRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling UpdateStation request: %+v", request)

	doc := storeClient.Doc(constants.CollectionStations, request.StationID)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rec, err := tx.Get(doc)
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

		if request.Name != "" {
			station.Name = request.Name
		}
		if request.Type != "" {
			station.Type = request.Type
		}
		if request.Area != "" {
			station.Area = request.Area
		}
		if request.Points != nil {
			station.Points = *request.Points
		}

		return tx.Set(doc, station)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	httputils.SendEmptyResponse(w, r)
}

type deleteStationRequest struct {
	StationID string `json:"stationId" validate:"required"`
}

//DeleteStation Removes a station. Refuses while any group is traveling to it
//or on site. Admin only.
func DeleteStation(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	mirror := occupancy.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request deleteStationRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling DeleteStation request: %+v", request)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc := storeClient.Doc(constants.CollectionStations, request.StationID)

		rec, err := tx.Get(doc)
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

		if station.TravelingCount+station.ArrivedCount > 0 {
			return &errors.MalformedRequestError{Msg: fmt.Sprintf("Station %v still has groups en route or on site", station.Name)}
		}

		return tx.Delete(doc)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	if err := mirror.RemoveStation(ctx, request.StationID); err != nil {
		logger.Warnf("Could not remove occupancy mirror of station %v: %v", request.StationID, err)
	}

	logger.Infof("Deleted station %v", request.StationID)

	httputils.SendEmptyResponse(w, r)
}

type updateStationStatusRequest struct {
	StationID string `json:"stationId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=OPEN LUNCH_SOON CLOSED_LUNCH CLOSED_PERMANENTLY"`
}

//UpdateStationStatus Moves a station through its status machine. The SM of the
//station or an admin may call it; illegal transitions are rejected.
func UpdateStationStatus(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	mirror := occupancy.Client{}

	_, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r),
		structs.RoleAdmin, structs.RoleSM)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request updateStationStatusRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling UpdateStationStatus request: %+v", request)

	if caller.Role == structs.RoleSM && caller.SelectedStationID != request.StationID {
		httputils.SendErrorResponse(w, r, &errors.PermissionDeniedError{Msg: "SM can only manage the station they are stationed at"})
		return
	}

	var updated structs.Station

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc := storeClient.Doc(constants.CollectionStations, request.StationID)

		rec, err := tx.Get(doc)
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

		if err := CanTransition(station, request.Status); err != nil {
			return err
		}

		station.Status = request.Status
		updated = station

		return tx.Set(doc, station)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	board := occupancy.Board{
		Traveling: updated.TravelingCount,
		Arrived:   updated.ArrivedCount,
		Status:    updated.Status,
	}
	if err := mirror.SetStation(ctx, request.StationID, board); err != nil {
		logger.Warnf("Could not mirror occupancy of station %v: %v", request.StationID, err)
	}

	logger.Infof("Station %v is now %v", request.StationID, updated.Status)

	httputils.SendEmptyResponse(w, r)
}
