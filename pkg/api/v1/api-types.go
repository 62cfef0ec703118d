// Package v1 holds the JSON types of the public unauthenticated endpoints.
// These are polled by unauthenticated pages, keep them backwards compatible.
package v1

//LeaderboardGroup One group's public standing.
type LeaderboardGroup struct {
	GroupID    string `json:"groupId"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
	HouseID    string `json:"houseId,omitempty"`
}

//LeaderboardHouse One house's aggregated standing. Only present while the
//house system is enabled.
type LeaderboardHouse struct {
	HouseID    string `json:"houseId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	TotalScore int    `json:"totalScore"`
	Groups     int    `json:"groups"`
}

//LeaderboardResponse Payload of the public leaderboard endpoint.
type LeaderboardResponse struct {
	Groups      []LeaderboardGroup `json:"groups"`
	Houses      []LeaderboardHouse `json:"houses,omitempty"`
	GeneratedAt int64              `json:"generatedAt"`
}

//GameInfoStation One station's public status.
type GameInfoStation struct {
	StationID string `json:"stationId"`
	Name      string `json:"name"`
	Area      string `json:"area"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Traveling int    `json:"traveling"`
	Arrived   int    `json:"arrived"`
}

//GameInfoResponse Payload of the public game-info endpoint.
type GameInfoResponse struct {
	Active             bool              `json:"active"`
	HouseSystemEnabled bool              `json:"houseSystemEnabled"`
	Stations           []GameInfoStation `json:"stations"`
	GeneratedAt        int64             `json:"generatedAt"`
}
