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

type assignOglRequest struct {
	UID     string `json:"uid" validate:"required"`
	GroupID string `json:"groupId" validate:"required"`
}

//AssignOglToGroup Moves an OGL account to a group, detaching it from its
//previous group first. Admin only.
func AssignOglToGroup(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request assignOglRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling AssignOglToGroup request: %+v", request)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		userDoc := storeClient.Doc(constants.CollectionUsers, request.UID)

		userRec, err := tx.Get(userDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("User %v does not exist", request.UID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var user structs.User
		if err := userRec.DataTo(&user); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if user.Role != structs.RoleOGL {
			return &errors.MalformedRequestError{Msg: fmt.Sprintf("User %v is not an OGL", request.UID)}
		}

		newGroupDoc := storeClient.Doc(constants.CollectionGroups, request.GroupID)
		newGroupRec, err := tx.Get(newGroupDoc)
		if err != nil {
			return &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", request.GroupID)}
		}

		var newGroup structs.Group
		if err := newGroupRec.DataTo(&newGroup); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if user.GroupID != "" && user.GroupID != request.GroupID {
			oldGroupDoc := storeClient.Doc(constants.CollectionGroups, user.GroupID)
			oldGroupRec, err := tx.Get(oldGroupDoc)
			if err == nil {
				var oldGroup structs.Group
				if err := oldGroupRec.DataTo(&oldGroup); err != nil {
					return fmt.Errorf("Error while querying Firestore: %v", err)
				}

				oldGroup.OglIDs = removeString(oldGroup.OglIDs, request.UID)
				if err := tx.Set(oldGroupDoc, oldGroup); err != nil {
					return err
				}
			}
		}

		if !containsString(newGroup.OglIDs, request.UID) {
			newGroup.OglIDs = append(newGroup.OglIDs, request.UID)
		}
		if err := tx.Set(newGroupDoc, newGroup); err != nil {
			return err
		}

		user.GroupID = request.GroupID
		return tx.Set(userDoc, user)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("Assigned OGL %v to group %v", request.UID, request.GroupID)

	httputils.SendEmptyResponse(w, r)
}

func removeString(values []string, value string) []string {
	var out []string
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
