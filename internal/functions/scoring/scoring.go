package scoring

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/oweek/raceday-backend/internal/audit"
	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/pubsub"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type submitScoreRequest struct {
	GroupID     string `json:"groupId" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=STATION SIDE_QUEST"`
	SourceID    string `json:"sourceId" validate:"required"`
	SecondStage bool   `json:"secondStage"`
	Note        string `json:"note"`
}

type submitScoreResponse struct {
	EntryID string `json:"entryId"`
	Points  int    `json:"points"`
}

//SubmitScore Awards a station or side quest to a group. SMs score their own
//station and SM-managed side quests; admins can score anything. One Firestore
//transaction appends the score log entry, bumps the group total and marks the
//completion, so a partial award can never be observed.
func SubmitScore(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	auditClient := audit.Client{}
	publisher := pubsub.Client{}

	uid, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r),
		structs.RoleAdmin, structs.RoleSM)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request submitScoreRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling SubmitScore request: %+v", request)

	if caller.Role == structs.RoleSM && request.Type == structs.ScoreTypeStation && caller.SelectedStationID != request.SourceID {
		httputils.SendErrorResponse(w, r, &errors.PermissionDeniedError{Msg: "SM can only score the station they are stationed at"})
		return
	}

	if err := CheckSecondStage(request.Type, request.SecondStage); err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	entryDoc := storeClient.Collection(constants.CollectionScoreLog).NewDoc()

	var entry structs.ScoreLogEntry

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
		if !state.Active {
			return &errors.MalformedRequestError{Msg: "Game is not active"}
		}

		groupDoc := storeClient.Doc(constants.CollectionGroups, request.GroupID)
		groupRec, err := tx.Get(groupDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", request.GroupID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
		var group structs.Group
		if err := groupRec.DataTo(&group); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var points int

		switch request.Type {
		case structs.ScoreTypeStation:
			rec, err := tx.Get(storeClient.Doc(constants.CollectionStations, request.SourceID))
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return &errors.NotFoundError{Msg: fmt.Sprintf("Station %v does not exist", request.SourceID)}
				}
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			var station structs.Station
			if err := rec.DataTo(&station); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			points = station.Points

		case structs.ScoreTypeSideQuest:
			rec, err := tx.Get(storeClient.Doc(constants.CollectionSideQuests, request.SourceID))
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return &errors.NotFoundError{Msg: fmt.Sprintf("Side quest %v does not exist", request.SourceID)}
				}
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			var quest structs.SideQuest
			if err := rec.DataTo(&quest); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			if caller.Role == structs.RoleSM && !quest.SmManaged {
				return &errors.PermissionDeniedError{Msg: "Side quest is not scored by SMs"}
			}
			if request.SecondStage {
				if quest.SecondStageName == "" {
					return &errors.MalformedRequestError{Msg: fmt.Sprintf("Side quest %v has no second stage", quest.Name)}
				}
				points = quest.SecondStagePoints
			} else {
				points = quest.Points
			}
		}

		key := CompletionKey(request.SourceID, request.SecondStage)

		if err := CheckNotCompleted(group, request.Type, key); err != nil {
			return err
		}

		switch request.Type {
		case structs.ScoreTypeStation:
			group.CompletedStations = append(group.CompletedStations, key)
		case structs.ScoreTypeSideQuest:
			group.CompletedSideQuests = append(group.CompletedSideQuests, key)
		}
		group.TotalScore += points

		entry = structs.ScoreLogEntry{
			GroupID:   request.GroupID,
			Points:    points,
			Type:      request.Type,
			SourceID:  request.SourceID,
			Note:      request.Note,
			AwardedBy: uid,
			CreatedAt: utils.GetTimeNow().Unix(),
		}

		if err := tx.Set(entryDoc, entry); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	MirrorScore(logger, auditClient, publisher, entryDoc.ID, entry)

	logger.Infof("Awarded %v points to group %v for %v %v", entry.Points, request.GroupID, request.Type, request.SourceID)

	httputils.SendResponse(w, r, submitScoreResponse{EntryID: entryDoc.ID, Points: entry.Points})
}

type adminUpdateScoreRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Points  int    `json:"points" validate:"required"`
	Note    string `json:"note" validate:"required"`
}

//AdminUpdateScore Applies a signed manual correction to a group's score. The
//correction lands in the score log like any other award, it is never an edit
//of history. Admin only.
func AdminUpdateScore(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	auditClient := audit.Client{}
	publisher := pubsub.Client{}

	uid, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request adminUpdateScoreRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling AdminUpdateScore request: %+v", request)

	entryDoc := storeClient.Collection(constants.CollectionScoreLog).NewDoc()

	var entry structs.ScoreLogEntry

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		groupDoc := storeClient.Doc(constants.CollectionGroups, request.GroupID)
		groupRec, err := tx.Get(groupDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", request.GroupID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}
		var group structs.Group
		if err := groupRec.DataTo(&group); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		group.TotalScore += request.Points

		entry = structs.ScoreLogEntry{
			GroupID:   request.GroupID,
			Points:    request.Points,
			Type:      structs.ScoreTypeAdmin,
			Note:      request.Note,
			AwardedBy: uid,
			CreatedAt: utils.GetTimeNow().Unix(),
		}

		if err := tx.Set(entryDoc, entry); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		return tx.Set(groupDoc, group)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	MirrorScore(logger, auditClient, publisher, entryDoc.ID, entry)

	logger.Infof("Corrected score of group %v by %v points", request.GroupID, request.Points)

	httputils.SendResponse(w, r, submitScoreResponse{EntryID: entryDoc.ID, Points: entry.Points})
}

//MirrorScore Best-effort post-commit fan-out of one committed score log entry:
//the audit table row and the score events. The Firestore transaction is the
//source of truth, failures here are logged, not surfaced. Every handler that
//appends to the score log calls this after commit.
func MirrorScore(logger *zap.SugaredLogger, auditClient audit.Recorder, publisher pubsub.EventPublisher, entryID string, entry structs.ScoreLogEntry) {
	record := &audit.ScoreRecord{
		EntryID:   entryID,
		GroupID:   entry.GroupID,
		Points:    entry.Points,
		Type:      entry.Type,
		SourceID:  entry.SourceID,
		Note:      entry.Note,
		AwardedBy: entry.AwardedBy,
		CreatedAt: entry.CreatedAt,
	}
	if err := auditClient.PersistScoreRecord(record); err != nil {
		logger.Warnf("Could not mirror score entry %v to the audit table: %v", entryID, err)
	}

	if err := publisher.Publish(constants.TopicScoreSubmitted, entry); err != nil {
		logger.Warnf("Could not publish score event for entry %v: %v", entryID, err)
	}
	event := pubsub.ChangeEvent{Collection: constants.CollectionGroups, DocID: entry.GroupID, Kind: "modified"}
	if err := publisher.Publish(constants.TopicCollectionChanged, event); err != nil {
		logger.Warnf("Could not publish change event for group %v: %v", entry.GroupID, err)
	}
}
