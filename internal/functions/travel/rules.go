package travel

import (
	"fmt"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/utils/errors"
)

//CanStartTravel Decides whether a group may set out towards a station. The
//group must be idle with no destination left over, the station must accept
//arrivals and the group must not have completed it already.
func CanStartTravel(group structs.Group, stationID string, station structs.Station) error {
	if group.Status != structs.GroupIdle {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v is %v, it must be idle to start traveling", group.Name, group.Status)}
	}
	if group.DestinationID != "" {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v already has a destination", group.Name)}
	}
	if station.Status != structs.StationOpen && station.Status != structs.StationLunchSoon {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Station %v is %v and does not accept arrivals", station.Name, station.Status)}
	}
	for _, s := range group.CompletedStations {
		if s == stationID {
			return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v has already completed station %v", group.Name, station.Name)}
		}
	}
	return nil
}

//CanArrive Decides whether a group may check in at a station. Only the
//destination it is traveling to counts.
func CanArrive(group structs.Group, stationID string) error {
	if group.Status != structs.GroupTraveling {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v is %v, not traveling", group.Name, group.Status)}
	}
	if group.DestinationID != stationID {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v is traveling to a different station", group.Name)}
	}
	return nil
}

//CanDepart Decides whether a group may leave the station it is at.
func CanDepart(group structs.Group) error {
	if group.Status != structs.GroupArrived {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v is %v, not at a station", group.Name, group.Status)}
	}
	return nil
}

//CanToggleLunch Decides whether a group may flip its lunch state. Lunch only
//toggles from idle, never mid-travel.
func CanToggleLunch(group structs.Group) error {
	if group.Status != structs.GroupIdle && group.Status != structs.GroupOnLunch {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Group %v is %v, lunch can only be toggled while idle", group.Name, group.Status)}
	}
	return nil
}
