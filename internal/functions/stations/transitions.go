package stations

import (
	"fmt"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/utils/errors"
)

var allowedTransitions = map[string][]string{
	structs.StationOpen:              {structs.StationLunchSoon, structs.StationClosedPermanently},
	structs.StationLunchSoon:         {structs.StationOpen, structs.StationClosedLunch, structs.StationClosedPermanently},
	structs.StationClosedLunch:       {structs.StationOpen, structs.StationClosedPermanently},
	structs.StationClosedPermanently: {},
}

//CanTransition Decides whether a station may move from its current status to
//next, given its occupancy. Permanent closing requires an empty station;
//closing for lunch requires no group still on site.
func CanTransition(station structs.Station, next string) error {
	if station.Status == next {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Station is already %v", next)}
	}

	allowed := false
	for _, s := range allowedTransitions[station.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Station cannot go from %v to %v", station.Status, next)}
	}

	if next == structs.StationClosedPermanently && station.TravelingCount+station.ArrivedCount > 0 {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Station cannot close permanently with %v groups en route or on site", station.TravelingCount+station.ArrivedCount)}
	}

	if next == structs.StationClosedLunch && station.ArrivedCount > 0 {
		return &errors.IllegalTransitionError{Msg: fmt.Sprintf("Station cannot close for lunch with %v groups on site", station.ArrivedCount)}
	}

	return nil
}
