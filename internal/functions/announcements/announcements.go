package announcements

import (
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/firestore"
	fcm "firebase.google.com/go/messaging"
	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/messaging"
	"github.com/oweek/raceday-backend/internal/pubsub"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"github.com/stretchr/stew/slice"
	"google.golang.org/api/iterator"
)

var validTargets = []string{structs.RoleAdmin, structs.RoleSM, structs.RoleOGL}

type makeAnnouncementRequest struct {
	Message string   `json:"message" validate:"required"`
	Targets []string `json:"targets" validate:"required,min=1"`
}

type makeAnnouncementResponse struct {
	AnnouncementID string `json:"announcementId"`
}

//MakeAnnouncement Broadcasts a message to the given roles. The announcement is
//persisted and pushed to the FCM topic of every targeted role. Admin only.
func MakeAnnouncement(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	pushClient := messaging.Client{}
	publisher := pubsub.Client{}

	uid, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request makeAnnouncementRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling MakeAnnouncement request: %+v", request)

	for _, target := range request.Targets {
		if !slice.Contains(validTargets, target) {
			httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: fmt.Sprintf("Unknown target role %v", target)})
			return
		}
	}

	announcement := structs.Announcement{
		Message:   request.Message,
		Targets:   request.Targets,
		CreatedBy: uid,
		CreatedAt: utils.GetTimeNow().Unix(),
	}

	doc := storeClient.Collection(constants.CollectionAnnouncements).NewDoc()

	if _, err := doc.Set(ctx, announcement); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	for _, target := range request.Targets {
		msg := &fcm.Message{
			Topic: RoleTopic(target),
			Notification: &fcm.Notification{
				Title: "Announcement",
				Body:  request.Message,
			},
		}
		if err := pushClient.Send(ctx, msg); err != nil {
			logger.Warnf("Could not push announcement %v to topic %v: %v", doc.ID, RoleTopic(target), err)
		}
	}

	if err := publisher.Publish(constants.TopicAnnouncementMade, announcement); err != nil {
		logger.Warnf("Could not publish announcement event: %v", err)
	}
	event := pubsub.ChangeEvent{Collection: constants.CollectionAnnouncements, DocID: doc.ID, Kind: "added"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for announcement %v: %v", doc.ID, err)
	}

	logger.Infof("Announced to %v", request.Targets)

	httputils.SendResponse(w, r, makeAnnouncementResponse{AnnouncementID: doc.ID})
}

//RoleTopic FCM topic name of one role's broadcast channel.
func RoleTopic(role string) string {
	return "role-" + strings.ToLower(role)
}

type deleteAnnouncementRequest struct {
	AnnouncementID string `json:"announcementId" validate:"required"`
}

//DeleteAnnouncement Removes one announcement. Admin only.
func DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
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

	var request deleteAnnouncementRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling DeleteAnnouncement request: %+v", request)

	if _, err := storeClient.Doc(constants.CollectionAnnouncements, request.AnnouncementID).Delete(ctx); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	event := pubsub.ChangeEvent{Collection: constants.CollectionAnnouncements, DocID: request.AnnouncementID, Kind: "removed"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for announcement %v: %v", request.AnnouncementID, err)
	}

	logger.Infof("Deleted announcement %v", request.AnnouncementID)

	httputils.SendEmptyResponse(w, r)
}

//DeleteAllAnnouncements Purges the whole announcement feed. Admin only.
func DeleteAllAnnouncements(w http.ResponseWriter, r *http.Request) {
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

	it := storeClient.Collection(constants.CollectionAnnouncements).Documents(ctx)
	refs, err := collectRefs(it)
	it.Stop()
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	batch := storeClient.Batch()
	pending := 0

	for _, ref := range refs {
		batch.Delete(ref)
		pending++

		if pending == 450 {
			if _, err := batch.Commit(ctx); err != nil {
				logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
				httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
				return
			}
			batch = storeClient.Batch()
			pending = 0
		}
	}

	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
			return
		}
	}

	event := pubsub.ChangeEvent{Collection: constants.CollectionAnnouncements, Kind: "removed"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for announcements: %v", err)
	}

	logger.Infof("Deleted all %v announcements", len(refs))

	httputils.SendEmptyResponse(w, r)
}

type snapshotIterator interface {
	Next() (*firestore.DocumentSnapshot, error)
}

//collectRefs Drains the iterator into document refs. A mid-iteration failure
//is an error, not the end of the feed.
func collectRefs(it snapshotIterator) ([]*firestore.DocumentRef, error) {
	var refs []*firestore.DocumentRef
	for {
		rec, err := it.Next()
		if err == iterator.Done {
			return refs, nil
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, rec.Ref)
	}
}
