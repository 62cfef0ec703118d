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
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type changePushTokenRequest struct {
	PushRegistrationToken string `json:"pushRegistrationToken" validate:"required"`
}

//ChangePushToken Stores the caller's push delivery token on their user record.
func ChangePushToken(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	uid, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r),
		structs.RoleAdmin, structs.RoleSM, structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request changePushTokenRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling ChangePushToken request for %v", uid)

	doc := storeClient.Doc(constants.CollectionUsers, uid)

	err = storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rec, err := tx.Get(doc)

		if err != nil {
			if status.Code(err) != codes.NotFound {
				return fmt.Errorf("Error while querying Firestore: %v", err)
			}
			// not found:

			return fmt.Errorf("Could not find user record for %v: %v", uid, err)
		}

		var user structs.User
		err = rec.DataTo(&user)
		if err != nil {
			return fmt.Errorf("Error while querying Firestore: %v", err)
		}

		user.PushRegistrationToken = request.PushRegistrationToken

		logger.Debugf("Saving updated push token for %v", uid)

		return tx.Set(doc, user)
	})

	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, err)
		return
	}

	httputils.SendEmptyResponse(w, r)
}
