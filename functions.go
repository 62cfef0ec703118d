package functions

import (
	"context"
	"net/http"

	"github.com/oweek/raceday-backend/internal/functions/announcements"
	"github.com/oweek/raceday-backend/internal/functions/changefeed"
	"github.com/oweek/raceday-backend/internal/functions/chat"
	"github.com/oweek/raceday-backend/internal/functions/game"
	"github.com/oweek/raceday-backend/internal/functions/groups"
	"github.com/oweek/raceday-backend/internal/functions/houses"
	"github.com/oweek/raceday-backend/internal/functions/publicapi"
	"github.com/oweek/raceday-backend/internal/functions/scoring"
	"github.com/oweek/raceday-backend/internal/functions/sidequests"
	"github.com/oweek/raceday-backend/internal/functions/stations"
	"github.com/oweek/raceday-backend/internal/functions/submissions"
	"github.com/oweek/raceday-backend/internal/functions/travel"
	"github.com/oweek/raceday-backend/internal/functions/users"
	"github.com/oweek/raceday-backend/pkg/firestore"
)

// CreateUser CreateUser handler.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	users.CreateUser(w, r)
}

// DeleteUser DeleteUser handler.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	users.DeleteUser(w, r)
}

// ChangePushToken ChangePushToken handler.
func ChangePushToken(w http.ResponseWriter, r *http.Request) {
	users.ChangePushToken(w, r)
}

// ResolveUsername ResolveUsername handler.
func ResolveUsername(w http.ResponseWriter, r *http.Request) {
	users.ResolveUsername(w, r)
}

// CreateGroup CreateGroup handler.
func CreateGroup(w http.ResponseWriter, r *http.Request) {
	groups.CreateGroup(w, r)
}

// DeleteGroup DeleteGroup handler.
func DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groups.DeleteGroup(w, r)
}

// AssignOglToGroup AssignOglToGroup handler.
func AssignOglToGroup(w http.ResponseWriter, r *http.Request) {
	groups.AssignOglToGroup(w, r)
}

// AssignGroupToHouse AssignGroupToHouse handler.
func AssignGroupToHouse(w http.ResponseWriter, r *http.Request) {
	groups.AssignGroupToHouse(w, r)
}

// CreateHouse CreateHouse handler.
func CreateHouse(w http.ResponseWriter, r *http.Request) {
	houses.CreateHouse(w, r)
}

// UpdateHouse UpdateHouse handler.
func UpdateHouse(w http.ResponseWriter, r *http.Request) {
	houses.UpdateHouse(w, r)
}

// DeleteHouse DeleteHouse handler.
func DeleteHouse(w http.ResponseWriter, r *http.Request) {
	houses.DeleteHouse(w, r)
}

// ToggleHouseSystem ToggleHouseSystem handler.
func ToggleHouseSystem(w http.ResponseWriter, r *http.Request) {
	houses.ToggleHouseSystem(w, r)
}

// CreateStation CreateStation handler.
func CreateStation(w http.ResponseWriter, r *http.Request) {
	stations.CreateStation(w, r)
}

// UpdateStation UpdateStation handler.
func UpdateStation(w http.ResponseWriter, r *http.Request) {
	stations.UpdateStation(w, r)
}

// DeleteStation DeleteStation handler.
func DeleteStation(w http.ResponseWriter, r *http.Request) {
	stations.DeleteStation(w, r)
}

// UpdateStationStatus UpdateStationStatus handler.
func UpdateStationStatus(w http.ResponseWriter, r *http.Request) {
	stations.UpdateStationStatus(w, r)
}

// CreateSideQuest CreateSideQuest handler.
func CreateSideQuest(w http.ResponseWriter, r *http.Request) {
	sidequests.CreateSideQuest(w, r)
}

// UpdateSideQuest UpdateSideQuest handler.
func UpdateSideQuest(w http.ResponseWriter, r *http.Request) {
	sidequests.UpdateSideQuest(w, r)
}

// DeleteSideQuest DeleteSideQuest handler.
func DeleteSideQuest(w http.ResponseWriter, r *http.Request) {
	sidequests.DeleteSideQuest(w, r)
}

// SubmitScore SubmitScore handler.
func SubmitScore(w http.ResponseWriter, r *http.Request) {
	scoring.SubmitScore(w, r)
}

// AdminUpdateScore AdminUpdateScore handler.
func AdminUpdateScore(w http.ResponseWriter, r *http.Request) {
	scoring.AdminUpdateScore(w, r)
}

// SetStation SetStation handler.
func SetStation(w http.ResponseWriter, r *http.Request) {
	travel.SetStation(w, r)
}

// LeaveStation LeaveStation handler.
func LeaveStation(w http.ResponseWriter, r *http.Request) {
	travel.LeaveStation(w, r)
}

// OglStartTravel OglStartTravel handler.
func OglStartTravel(w http.ResponseWriter, r *http.Request) {
	travel.OglStartTravel(w, r)
}

// OglArrive OglArrive handler.
func OglArrive(w http.ResponseWriter, r *http.Request) {
	travel.OglArrive(w, r)
}

// OglDepart OglDepart handler.
func OglDepart(w http.ResponseWriter, r *http.Request) {
	travel.OglDepart(w, r)
}

// OglToggleLunch OglToggleLunch handler.
func OglToggleLunch(w http.ResponseWriter, r *http.Request) {
	travel.OglToggleLunch(w, r)
}

// ToggleGameStatus ToggleGameStatus handler.
func ToggleGameStatus(w http.ResponseWriter, r *http.Request) {
	game.ToggleGameStatus(w, r)
}

// ResetGame ResetGame handler.
func ResetGame(w http.ResponseWriter, r *http.Request) {
	game.ResetGame(w, r)
}

// MakeAnnouncement MakeAnnouncement handler.
func MakeAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcements.MakeAnnouncement(w, r)
}

// DeleteAnnouncement DeleteAnnouncement handler.
func DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcements.DeleteAnnouncement(w, r)
}

// DeleteAllAnnouncements DeleteAllAnnouncements handler.
func DeleteAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements.DeleteAllAnnouncements(w, r)
}

// SendChatMessage SendChatMessage handler.
func SendChatMessage(w http.ResponseWriter, r *http.Request) {
	chat.SendChatMessage(w, r)
}

// SubmissionUploadURL SubmissionUploadURL handler.
func SubmissionUploadURL(w http.ResponseWriter, r *http.Request) {
	submissions.SubmissionUploadURL(w, r)
}

// ZipTaskSubmissions ZipTaskSubmissions handler.
func ZipTaskSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions.ZipTaskSubmissions(w, r)
}

// DownloadExport DownloadExport handler.
func DownloadExport(w http.ResponseWriter, r *http.Request) {
	submissions.DownloadExport(w, r)
}

// Leaderboard Public leaderboard handler.
func Leaderboard(w http.ResponseWriter, r *http.Request) {
	publicapi.Leaderboard(w, r)
}

// GameInfo Public game info handler.
func GameInfo(w http.ResponseWriter, r *http.Request) {
	publicapi.GameInfo(w, r)
}

// Events SSE change stream handler.
func Events(w http.ResponseWriter, r *http.Request) {
	publicapi.Events(w, r)
}

// PublishChange Firestore trigger forwarding document changes to Pub/Sub.
func PublishChange(ctx context.Context, e firestore.Event) error {
	return changefeed.PublishChange(ctx, e)
}
