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
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/api/iterator"
)

type createUserRequest struct {
	Username    string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=ADMIN SM OGL"`
	GroupID     string `json:"groupId"`
}

type createUserResponse struct {
	UID string `json:"uid"`
}

//CreateUser Creates a new account with a fixed role. Admin only.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request createUserRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling CreateUser request: username %v role %v", request.Username, request.Role)

	if request.GroupID != "" && request.Role != structs.RoleOGL {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "Only OGL accounts can be attached to a group"})
		return
	}

	taken, err := usernameTaken(ctx, storeClient, request.Username)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}
	if taken {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: fmt.Sprintf("Username %v is already taken", request.Username)})
		return
	}

	uid, err := authClient.CreateUser(ctx, request.Email, request.Password, request.DisplayName)
	if err != nil {
		logger.Warnf("Cannot create auth user: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	user := structs.User{
		Role:        request.Role,
		DisplayName: request.DisplayName,
		Username:    request.Username,
		Email:       request.Email,
		GroupID:     request.GroupID,
		CreatedAt:   utils.GetTimeNow().Unix(),
	}

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if user.GroupID != "" {
			groupDoc := storeClient.Doc(constants.CollectionGroups, user.GroupID)
			rec, err := tx.Get(groupDoc)
			if err != nil {
				return &errors.NotFoundError{Msg: fmt.Sprintf("Group %v does not exist", user.GroupID)}
			}

			var group structs.Group
			if err := rec.DataTo(&group); err != nil {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}

			group.OglIDs = append(group.OglIDs, uid)
			if err := tx.Set(groupDoc, group); err != nil {
				return err
			}
		}

		return tx.Set(storeClient.Doc(constants.CollectionUsers, uid), user)
	})

	if err != nil {
		logger.Warnf("Cannot handle request: %+v", err.Error())
		// do not leave the auth record orphaned
		if delErr := authClient.DeleteUser(ctx, uid); delErr != nil {
			logger.Warnf("Could not roll back auth user %v: %v", uid, delErr)
		}
		httputils.SendErrorResponse(w, r, err)
		return
	}

	logger.Infof("Created user %v with role %v", uid, user.Role)

	httputils.SendResponse(w, r, createUserResponse{UID: uid})
}

func usernameTaken(ctx context.Context, storeClient store.Storer, username string) (bool, error) {
	it := storeClient.Find(constants.CollectionUsers, "username", username).Documents(ctx)
	defer it.Stop()

	_, err := it.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
