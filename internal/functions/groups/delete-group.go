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

type deleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Force   bool   `json:"force"`
}

//checkDeletable Deleting a group that is traveling or on site would leave the
//destination station's counters inflated forever, so only resting groups go.
//Force does not override this, it only covers attached OGLs.
func checkDeletable(group structs.Group) error {
	switch group.Status {
	case "", structs.GroupIdle, structs.GroupOnLunch:
		return nil
	}
	return &errors.MalformedRequestError{Msg: fmt.Sprintf("Group %v is traveling or at a station, depart it first", group.Name)}
}

//DeleteGroup Removes a group. Refuses while OGLs are attached unless forced;
//a forced delete detaches them. Admin only.
func DeleteGroup(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request deleteGroupRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling DeleteGroup request: %+v", request)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		groupDoc := storeClient.Doc(constants.CollectionGroups, request.GroupID)

		rec, err := tx.Get(groupDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", request.GroupID)}
			}
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		var group structs.Group
		if err := rec.DataTo(&group); err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		if err := checkDeletable(group); err != nil {
			return err
		}

		if len(group.OglIDs) > 0 && !request.Force {
			return &errors.MalformedRequestError{Msg: fmt.Sprintf("Group %v still has %v OGLs attached", group.Name, len(group.OglIDs))}
		}

		// reads must all happen before the first write
		detached := make(map[*firestore.DocumentRef]structs.User)
		for _, uid := range group.OglIDs {
			userDoc := storeClient.Doc(constants.CollectionUsers, uid)
			userRec, err := tx.Get(userDoc)
			if err != nil {
				continue
			}

			var user structs.User
			if err := userRec.DataTo(&user); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}

			user.GroupID = ""
			detached[userDoc] = user
		}

		for userDoc, user := range detached {
			if err := tx.Set(userDoc, user); err != nil {
				return err
			}
		}

		return tx.Delete(groupDoc)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("Deleted group %v", request.GroupID)

	httputils.SendEmptyResponse(w, r)
}
