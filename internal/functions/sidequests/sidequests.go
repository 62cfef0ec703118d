package sidequests

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

type createSideQuestRequest struct {
	Name              string `json:"name" validate:"required"`
	Points            int    `json:"points" validate:"gte=0"`
	SubmissionType    string `json:"submissionType" validate:"required,oneof=photo video none"`
	SmManaged         bool   `json:"isSmManaged"`
	SecondStageName   string `json:"secondStageName"`
	SecondStagePoints int    `json:"secondStagePoints" validate:"gte=0"`
}

type createSideQuestResponse struct {
	SideQuestID string `json:"sideQuestId"`
}

//CreateSideQuest Creates a new side quest. Admin only.
func CreateSideQuest(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request createSideQuestRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling CreateSideQuest request: %+v", request)

	if request.SecondStageName != "" && request.SecondStagePoints == 0 {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "Second stage needs its own points"})
		return
	}

	quest := structs.SideQuest{
		Name:              request.Name,
		Points:            request.Points,
		SubmissionType:    request.SubmissionType,
		SmManaged:         request.SmManaged,
		SecondStageName:   request.SecondStageName,
		SecondStagePoints: request.SecondStagePoints,
	}

	doc := storeClient.Collection(constants.CollectionSideQuests).NewDoc()

	if _, err := doc.Set(ctx, quest); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	logger.Infof("Created side quest %v", doc.ID)

	httputils.SendResponse(w, r, createSideQuestResponse{SideQuestID: doc.ID})
}

type updateSideQuestRequest struct {
	SideQuestID       string  `json:"sideQuestId" validate:"required"`
	Name              string  `json:"name"`
	Points            *int    `json:"points" validate:"omitempty,gte=0"`
	SubmissionType    string  `json:"submissionType" validate:"omitempty,oneof=photo video none"`
	SmManaged         *bool   `json:"isSmManaged"`
	SecondStageName   *string `json:"secondStageName"`
	SecondStagePoints *int    `json:"secondStagePoints" validate:"omitempty,gte=0"`
}

//UpdateSideQuest Edits a side quest. Admin only.
func UpdateSideQuest(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request updateSideQuestRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling UpdateSideQuest request: %+v", request)

	doc := storeClient.Doc(constants.CollectionSideQuests, request.SideQuestID)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rec, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Side quest %v does not exist", request.SideQuestID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var quest structs.SideQuest
		if err := rec.DataTo(&quest); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if request.Name != "" {
			quest.Name = request.Name
		}
		if request.Points != nil {
			quest.Points = *request.Points
		}
		if request.SubmissionType != "" {
			quest.SubmissionType = request.SubmissionType
		}
		if request.SmManaged != nil {
			quest.SmManaged = *request.SmManaged
		}
		if request.SecondStageName != nil {
			quest.SecondStageName = *request.SecondStageName
		}
		if request.SecondStagePoints != nil {
			quest.SecondStagePoints = *request.SecondStagePoints
		}

		return tx.Set(doc, quest)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	httputils.SendEmptyResponse(w, r)
}

type deleteSideQuestRequest struct {
	SideQuestID string `json:"sideQuestId" validate:"required"`
}

//DeleteSideQuest Removes a side quest. Already-awarded scores stay in the log.
//Admin only.
func DeleteSideQuest(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request deleteSideQuestRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling DeleteSideQuest request: %+v", request)

	if _, err := storeClient.Doc(constants.CollectionSideQuests, request.SideQuestID).Delete(ctx); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	logger.Infof("Deleted side quest %v", request.SideQuestID)

	httputils.SendEmptyResponse(w, r)
}
