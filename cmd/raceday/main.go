package main

import (
	"net/http"

	"github.com/sethvargo/go-signalcontext"

	functions "github.com/oweek/raceday-backend"
	"github.com/oweek/raceday-backend/internal/logging"
	server "github.com/oweek/raceday-backend/pkg/httpserver"
)

// Serves every function on one mux for local development. In production each
// exported handler in functions.go deploys as its own Cloud Function.
func main() {

	ctx, done := signalcontext.OnInterrupt()
	defer done()

	logger := logging.FromContext(ctx)

	var config = server.Config{Port: "8081"}

	mux := http.NewServeMux()

	mux.HandleFunc("/createUser", functions.CreateUser)
	mux.HandleFunc("/deleteUser", functions.DeleteUser)
	mux.HandleFunc("/changePushToken", functions.ChangePushToken)
	mux.HandleFunc("/resolveUsername", functions.ResolveUsername)

	mux.HandleFunc("/createGroup", functions.CreateGroup)
	mux.HandleFunc("/deleteGroup", functions.DeleteGroup)
	mux.HandleFunc("/assignOglToGroup", functions.AssignOglToGroup)
	mux.HandleFunc("/assignGroupToHouse", functions.AssignGroupToHouse)

	mux.HandleFunc("/createHouse", functions.CreateHouse)
	mux.HandleFunc("/updateHouse", functions.UpdateHouse)
	mux.HandleFunc("/deleteHouse", functions.DeleteHouse)
	mux.HandleFunc("/toggleHouseSystem", functions.ToggleHouseSystem)

	mux.HandleFunc("/createStation", functions.CreateStation)
	mux.HandleFunc("/updateStation", functions.UpdateStation)
	mux.HandleFunc("/deleteStation", functions.DeleteStation)
	mux.HandleFunc("/updateStationStatus", functions.UpdateStationStatus)

	mux.HandleFunc("/createSideQuest", functions.CreateSideQuest)
	mux.HandleFunc("/updateSideQuest", functions.UpdateSideQuest)
	mux.HandleFunc("/deleteSideQuest", functions.DeleteSideQuest)

	mux.HandleFunc("/submitScore", functions.SubmitScore)
	mux.HandleFunc("/adminUpdateScore", functions.AdminUpdateScore)

	mux.HandleFunc("/setStation", functions.SetStation)
	mux.HandleFunc("/leaveStation", functions.LeaveStation)
	mux.HandleFunc("/oglStartTravel", functions.OglStartTravel)
	mux.HandleFunc("/oglArrive", functions.OglArrive)
	mux.HandleFunc("/oglDepart", functions.OglDepart)
	mux.HandleFunc("/oglToggleLunch", functions.OglToggleLunch)

	mux.HandleFunc("/toggleGameStatus", functions.ToggleGameStatus)
	mux.HandleFunc("/resetGame", functions.ResetGame)

	mux.HandleFunc("/makeAnnouncement", functions.MakeAnnouncement)
	mux.HandleFunc("/deleteAnnouncement", functions.DeleteAnnouncement)
	mux.HandleFunc("/deleteAllAnnouncements", functions.DeleteAllAnnouncements)

	mux.HandleFunc("/sendChatMessage", functions.SendChatMessage)

	mux.HandleFunc("/submissionUploadUrl", functions.SubmissionUploadURL)
	mux.HandleFunc("/zipTaskSubmissions", functions.ZipTaskSubmissions)
	mux.HandleFunc("/downloadExport", functions.DownloadExport)

	mux.HandleFunc("/public/leaderboard", functions.Leaderboard)
	mux.HandleFunc("/public/gameinfo", functions.GameInfo)
	mux.HandleFunc("/public/events", functions.Events)

	srv, err := server.NewServer(ctx, &config)
	if err != nil {
		logger.Fatalf("server.NewServer: %v", err)
	}

	logger.Infof("listening on :%s", config.Port)

	if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
		logger.Fatal(err)
	}
}
