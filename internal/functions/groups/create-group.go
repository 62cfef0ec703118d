package groups

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/avast/retry-go"
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

const needsRetry = "needs_retry"

type createGroupRequest struct {
	Name    string `json:"name" validate:"required"`
	HouseID string `json:"houseId"`
}

type createGroupResponse struct {
	GroupID  string `json:"groupId"`
	JoinCode string `json:"joinCode"`
}

//CreateGroup Creates a new group with a unique join code. Admin only.
func CreateGroup(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request createGroupRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling CreateGroup request: %+v", request)

	group := structs.Group{
		Name:                request.Name,
		Status:              structs.GroupIdle,
		CompletedStations:   []string{},
		CompletedSideQuests: []string{},
		HouseID:             request.HouseID,
		OglIDs:              []string{},
	}

	groupID, joinCode, err := create(ctx, storeClient, utils.GenerateJoinCode, group)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	logger.Infof("Created group %v with join code %v", groupID, joinCode)

	httputils.SendResponse(w, r, createGroupResponse{GroupID: groupID, JoinCode: joinCode})
}

func create(ctx context.Context, storeClient store.Storer, generateJoinCode func() string, group structs.Group) (string, string, error) {
	logger := logging.FromContext(ctx)

	var groupID string
	var joinCode string

	err := retry.Do(
		func() error {
			joinCode = generateJoinCode()

			logger.Debugf("Trying join code: %v", joinCode)

			return storeClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
				it := tx.Documents(storeClient.Find(constants.CollectionGroups, "joinCode", joinCode))
				defer it.Stop()

				_, err := it.Next()
				if err == nil {
					// code taken, need retry
					return &errors.CustomError{Msg: needsRetry}
				}
				if err != iterator.Done {
					return fmt.Errorf("Error while querying Firestore: %v", err)
				}
				// not found, great!

				group.JoinCode = joinCode

				doc := storeClient.Collection(constants.CollectionGroups).NewDoc()
				groupID = doc.ID

				logger.Infof("Generated join code %v, saving group %+v", joinCode, group)

				return tx.Set(doc, group)
			})
		},
		retry.RetryIf(func(err error) bool {
			return err.Error() == needsRetry
		}),
	)

	return groupID, joinCode, err
}
