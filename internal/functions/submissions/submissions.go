package submissions

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/oweek/raceday-backend/internal/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/objectstore"
	"github.com/oweek/raceday-backend/internal/redismutex"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	httputils "github.com/oweek/raceday-backend/internal/utils/http"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const uploadURLExpiry = 15 * time.Minute
const downloadURLExpiry = 15 * time.Minute

type uploadURLRequest struct {
	SideQuestID string `json:"sideQuestId" validate:"required"`
	FileName    string `json:"fileName" validate:"required"`
}

type uploadURLResponse struct {
	UploadURL  string `json:"uploadUrl"`
	ObjectPath string `json:"objectPath"`
}

//SubmissionUploadURL Issues a signed PUT URL for one side quest submission.
//Objects land under submissions/<quest>/<group>/ so exports can pick them up
//per quest. OGL only.
func SubmissionUploadURL(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	objects := objectstore.Client{}

	_, caller, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleOGL)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request uploadURLRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling SubmissionUploadURL request: %+v", request)

	if caller.GroupID == "" {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "OGL is not attached to any group"})
		return
	}

	fileName := path.Base(request.FileName)
	if fileName == "." || fileName == "/" || strings.Contains(request.FileName, "..") {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "Invalid file name"})
		return
	}

	rec, err := storeClient.Doc(constants.CollectionSideQuests, request.SideQuestID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			httputils.SendErrorResponse(w, r, &errors.NotFoundError{Msg: fmt.Sprintf("Side quest %v does not exist", request.SideQuestID)})
			return
		}
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	var quest structs.SideQuest
	if err := rec.DataTo(&quest); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	if quest.SubmissionType == "none" {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: fmt.Sprintf("Side quest %v does not take submissions", quest.Name)})
		return
	}

	objectPath := constants.SubmissionsPrefix + request.SideQuestID + "/" + caller.GroupID + "/" + fileName

	url, err := objects.SignedURL(objectPath, http.MethodPut, utils.GetTimeNow().Add(uploadURLExpiry))
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	logger.Infof("Issued upload URL for %v", objectPath)

	httputils.SendResponse(w, r, uploadURLResponse{UploadURL: url, ObjectPath: objectPath})
}

type zipTaskSubmissionsRequest struct {
	SideQuestID string `json:"sideQuestId" validate:"required"`
}

type zipTaskSubmissionsResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Objects     int    `json:"objects"`
}

//ZipTaskSubmissions Bundles all uploaded submissions of one side quest into a
//ZIP object and returns a tokened download link. Runs under an exclusive lock,
//one export at a time is plenty. Admin only.
func ZipTaskSubmissions(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	storeClient := store.Client{}
	authClient := auth.Client{}
	objects := objectstore.Client{}
	mutexManager := redismutex.ClientImpl{}

	_, _, err := auth.VerifyRole(ctx, authClient, storeClient, auth.TokenFromRequest(r), structs.RoleAdmin)
	if err != nil {
		httputils.SendErrorResponse(w, r, err)
		return
	}

	var request zipTaskSubmissionsRequest

	if !httputils.DecodeJSONOrReportError(w, r, &request) {
		return
	}

	logger.Debugf("Handling ZipTaskSubmissions request: %+v", request)

	config, err := utils.LoadExportConfig(ctx)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	mutex, err := mutexManager.Lock("zip-export")
	if err != nil {
		logger.Warnf("Could not acquire zip-export lock: %v", err)
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Another export is already in progress"})
		return
	}
	defer func() {
		if _, err := mutex.Unlock(); err != nil {
			logger.Warnf("Could not release zip-export lock: %v", err)
		}
	}()

	prefix := constants.SubmissionsPrefix + request.SideQuestID + "/"

	listed, err := objects.List(ctx, prefix)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}
	if len(listed) == 0 {
		httputils.SendErrorResponse(w, r, &errors.NotFoundError{Msg: "No submissions have been uploaded for this side quest"})
		return
	}

	zipPath := fmt.Sprintf("%v%v-%v.zip", constants.ExportsPrefix, request.SideQuestID, utils.GetTimeNow().Unix())

	// The storage writer only commits the object on Close. Cancelling its
	// context first abandons the upload, so a failed export leaves nothing
	// half-written behind.
	zipCtx, cancelUpload := context.WithCancel(ctx)
	zipObject := objects.NewWriter(zipCtx, zipPath)
	archive := zip.NewWriter(zipObject)

	committed := false
	defer func() {
		if !committed {
			cancelUpload()
			zipObject.Close()
		}
	}()
	defer cancelUpload()

	for _, object := range listed {
		reader, err := objects.NewReader(ctx, object.Name)
		if err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
			return
		}

		entry, err := archive.Create(strings.TrimPrefix(object.Name, prefix))
		if err == nil {
			_, err = io.Copy(entry, reader)
		}
		reader.Close()
		if err != nil {
			logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
			httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
			return
		}
	}

	if err := archive.Close(); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}
	if err := zipObject.Close(); err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}
	committed = true

	token, err := MakeDownloadToken(config.TokenKey, zipPath, config.TokenTTL, *utils.GetTimeNow())
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	downloadURL := config.GetDownloadURL("downloadExport") + "?token=" + token

	logger.Infof("Exported %v submissions of side quest %v to %v", len(listed), request.SideQuestID, zipPath)

	httputils.SendResponse(w, r, zipTaskSubmissionsResponse{DownloadURL: downloadURL, Objects: len(listed)})
}

//DownloadExport Exchanges a valid download token for a redirect to a signed
//GET URL of the export object. The token is the only authentication, the link
//is meant to be pasted around by admins.
func DownloadExport(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)
	objects := objectstore.Client{}

	config, err := utils.LoadExportConfig(ctx)
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		httputils.SendErrorResponse(w, r, &errors.MalformedRequestError{Msg: "Missing token"})
		return
	}

	objectPath, err := ParseDownloadToken(config.TokenKey, tokenString)
	if err != nil {
		logger.Debugf("Rejected download token: %v", err)
		httputils.SendErrorResponse(w, r, &errors.UnauthenticatedError{Msg: "Invalid or expired download token"})
		return
	}

	if !strings.HasPrefix(objectPath, constants.ExportsPrefix) {
		httputils.SendErrorResponse(w, r, &errors.UnauthenticatedError{Msg: "Invalid or expired download token"})
		return
	}

	url, err := objects.SignedURL(objectPath, http.MethodGet, utils.GetTimeNow().Add(downloadURLExpiry))
	if err != nil {
		logger.Warnf("Cannot handle request due to unknown error: %+v", err.Error())
		httputils.SendErrorResponse(w, r, &errors.UnknownError{Msg: "Unknown error"})
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
