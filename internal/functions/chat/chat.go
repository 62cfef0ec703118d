package chat

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/pubsub"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type sendChatMessageRequest struct {
	RequestID string `json:"requestId" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

type sendChatMessageResponse struct {
	MessageID string `json:"messageId"`
}

//SendChatMessage Appends a message to a help-desk thread. Admins can write
//into any thread, an OGL only into threads of their own group. A resolved
//thread is reopened when the OGL writes again.
func SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	publisher := pubsub.Client{}

	uid, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r),
		structs.RoleAdmin, structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request sendChatMessageRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling SendChatMessage request: %+v", request)

	threadDoc := storeClient.Doc(constants.CollectionRequests, request.RequestID)
	messageDoc := threadDoc.Collection(constants.CollectionMessages).NewDoc()

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rec, err := tx.Get(threadDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Request %v does not exist", request.RequestID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var thread structs.HelpRequest
		if err := rec.DataTo(&thread); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if caller.Role == structs.RoleOGL && thread.GroupID != caller.GroupID {
			return &errors.PermissionDeniedError{Msg: "OGL can only write into their own group's requests"}
		}

		message := structs.ChatMessage{
			Sender:     uid,
			SenderName: caller.DisplayName,
			Text:       request.Text,
			CreatedAt:  utils.GetTimeNow().Unix(),
		}

		thread.LastMessageAt = message.CreatedAt
		if caller.Role == structs.RoleOGL && thread.Status == structs.RequestResolved {
			thread.Status = structs.RequestOpen
		}

		if err := tx.Set(messageDoc, message); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
		return tx.Set(threadDoc, thread)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	event := pubsub.ChangeEvent{Collection: constants.CollectionRequests, DocID: request.RequestID, Kind: "modified"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for request %v: %v", request.RequestID, err)
	}

	logger.Infof("Message %v added to request %v", messageDoc.ID, request.RequestID)

	httputils.SendResponse(w, r, sendChatMessageResponse{MessageID: messageDoc.ID})
}
