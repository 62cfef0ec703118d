package users

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

type deleteUserRequest struct {
	UID string `json:"uid" validate:"required"`
}

//DeleteUser Removes an account and detaches it from its group. Admin only.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	callerUID, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request deleteUserRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling DeleteUser request: %+v", request)

	if request.UID == callerUID {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "Cannot delete your own account"})
		return
	}

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		userDoc := storeClient.Doc(constants.CollectionUsers, request.UID)

		rec, err := tx.Get(userDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("User %v does not exist", request.UID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var user structs.User
		if err := rec.DataTo(&user); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if user.GroupID != "" {
			groupDoc := storeClient.Doc(constants.CollectionGroups, user.GroupID)
			groupRec, err := tx.Get(groupDoc)
			if err == nil {
				var group structs.Group
				if err := groupRec.DataTo(&group); err != nil {
					return fmt.Errorf("Error while querying Firestore: %v", err)
				}

				group.OglIDs = removeString(group.OglIDs, request.UID)
				if err := tx.Set(groupDoc, group); err != nil {
					return err
				}
			}
		}

		return tx.Delete(userDoc)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	if err := authClient.DeleteUser(ctx, request.UID); err != nil {
		logger.Warnf("User doc removed but auth record for %v remains: %v", request.UID, err)
	}

	logger.Infof("Deleted user %v", request.UID)

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
