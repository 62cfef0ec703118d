package structs

//Role constants for User.Role.
const (
	RoleAdmin = "ADMIN"
	RoleSM    = "SM"
	RoleOGL   = "OGL"
)

//Group status constants.
const (
	GroupIdle      = "IDLE"
	GroupTraveling = "TRAVELING"
	GroupArrived   = "ARRIVED"
	GroupOnLunch   = "ON_LUNCH"
)

//Station status constants.
const (
	StationOpen              = "OPEN"
	StationLunchSoon         = "LUNCH_SOON"
	StationClosedLunch       = "CLOSED_LUNCH"
	StationClosedPermanently = "CLOSED_PERMANENTLY"
)

//Station type constants.
const (
	StationManned   = "manned"
	StationUnmanned = "unmanned"
)

//Score log entry types.
const (
	ScoreTypeStation   = "STATION"
	ScoreTypeSideQuest = "SIDE_QUEST"
	ScoreTypeAdmin     = "ADMIN"
)

//Help request statuses.
const (
	RequestOpen     = "OPEN"
	RequestResolved = "RESOLVED"
)

//User DB entity for a user account. Role is fixed at creation.
type User struct {
	Role                  string `json:"role" firestore:"role"`
	DisplayName           string `json:"displayName" firestore:"displayName"`
	Username              string `json:"username" firestore:"username"`
	Email                 string `json:"email" firestore:"email"`
	GroupID               string `json:"groupId" firestore:"groupId"`
	SelectedStationID     string `json:"selectedStationId" firestore:"selectedStationId"`
	PushRegistrationToken string `json:"pushRegistrationToken" firestore:"pushRegistrationToken"`
	CreatedAt             int64  `json:"createdAt" firestore:"createdAt"`
}

//Group DB entity for an orientation group.
type Group struct {
	Name                string   `json:"name" firestore:"name"`
	JoinCode            string   `json:"joinCode" firestore:"joinCode"`
	Status              string   `json:"status" firestore:"status"`
	TotalScore          int      `json:"totalScore" firestore:"totalScore"`
	DestinationID       string   `json:"destinationId" firestore:"destinationId"`
	DestinationEta      int64    `json:"destinationEta" firestore:"destinationEta"`
	CompletedStations   []string `json:"completedStations" firestore:"completedStations"`
	CompletedSideQuests []string `json:"completedSideQuests" firestore:"completedSideQuests"`
	HouseID             string   `json:"houseId" firestore:"houseId"`
	OglIDs              []string `json:"oglIds" firestore:"oglIds"`
}

//Station DB entity for a physical checkpoint.
type Station struct {
	Name           string `json:"name" firestore:"name"`
	Type           string `json:"type" firestore:"type"`
	Status         string `json:"status" firestore:"status"`
	TravelingCount int    `json:"travelingCount" firestore:"travelingCount"`
	ArrivedCount   int    `json:"arrivedCount" firestore:"arrivedCount"`
	Area           string `json:"area" firestore:"area"`
	Points         int    `json:"points" firestore:"points"`
}

//SideQuest DB entity for an optional bonus challenge.
type SideQuest struct {
	Name              string `json:"name" firestore:"name"`
	Points            int    `json:"points" firestore:"points"`
	SubmissionType    string `json:"submissionType" firestore:"submissionType"`
	SmManaged         bool   `json:"isSmManaged" firestore:"isSmManaged"`
	SecondStageName   string `json:"secondStageName,omitempty" firestore:"secondStageName"`
	SecondStagePoints int    `json:"secondStagePoints,omitempty" firestore:"secondStagePoints"`
}

//House DB entity for a secondary team grouping.
type House struct {
	Name  string `json:"name" firestore:"name"`
	Color string `json:"color" firestore:"color"`
}

//ScoreLogEntry Append-only audit record of a score award.
type ScoreLogEntry struct {
	GroupID   string `json:"groupId" firestore:"groupId"`
	Points    int    `json:"points" firestore:"points"`
	Type      string `json:"type" firestore:"type"`
	SourceID  string `json:"sourceId" firestore:"sourceId"`
	Note      string `json:"note" firestore:"note"`
	AwardedBy string `json:"awardedBy" firestore:"awardedBy"`
	CreatedAt int64  `json:"createdAt" firestore:"createdAt"`
}

//Announcement Broadcast message targeted at roles.
type Announcement struct {
	Message   string   `json:"message" firestore:"message"`
	Targets   []string `json:"targets" firestore:"targets"`
	CreatedBy string   `json:"createdBy" firestore:"createdBy"`
	CreatedAt int64    `json:"createdAt" firestore:"createdAt"`
}

//HelpRequest Help-desk thread opened by an OGL.
type HelpRequest struct {
	Title         string `json:"title" firestore:"title"`
	Details       string `json:"details" firestore:"details"`
	Status        string `json:"status" firestore:"status"`
	GroupID       string `json:"groupId" firestore:"groupId"`
	CreatedBy     string `json:"createdBy" firestore:"createdBy"`
	CreatedAt     int64  `json:"createdAt" firestore:"createdAt"`
	LastMessageAt int64  `json:"lastMessageAt" firestore:"lastMessageAt"`
}

//ChatMessage Single message inside a help-desk thread.
type ChatMessage struct {
	Sender     string `json:"sender" firestore:"sender"`
	SenderName string `json:"senderName" firestore:"senderName"`
	Text       string `json:"text" firestore:"text"`
	CreatedAt  int64  `json:"createdAt" firestore:"createdAt"`
}

//GameState Singleton document controlling the whole event.
type GameState struct {
	Active             bool  `json:"active" firestore:"active"`
	HouseSystemEnabled bool  `json:"houseSystemEnabled" firestore:"houseSystemEnabled"`
	UpdatedAt          int64 `json:"updatedAt" firestore:"updatedAt"`
}
