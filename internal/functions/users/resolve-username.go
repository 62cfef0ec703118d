package users

import (
	"fmt"
	"net/http"

	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/api/iterator"
)

type resolveUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type resolveUsernameResponse struct {
	Email string `json:"email"`
}

//ResolveUsername Maps a username to the sign-in email. Unauthenticated; the
//sign-in form calls this before the password round-trip.
func ResolveUsername(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}

	var request resolveUsernameRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling ResolveUsername request: %+v", request)

	it := storeClient.Find(constants.CollectionUsers, "username", request.Username).Documents(ctx)
	defer it.Stop()

	rec, err := it.Next()
	if err == iterator.Done {
		httputils.SendErrorResponse(w, r, &errors.NotFoundError{Msg: fmt.Sprintf("No account with username %v", request.Username)})
		return
	}
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	var user structs.User
	if err := rec.DataTo(&user); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	httputils.SendResponse(w, r, resolveUsernameResponse{Email: user.Email})
}
