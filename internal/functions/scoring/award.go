package scoring

import (
	"fmt"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/utils/errors"
)

//CompletionKey Key under which a completion is remembered on the group. The
//second stage of a side quest scores independently of the first.
func CompletionKey(sourceID string, secondStage bool) string {
	if secondStage {
		return sourceID + "#2"
	}
	return sourceID
}

//CheckSecondStage Rejects a second stage award of anything but a side quest.
//A station award flagged as second stage would produce a completion key the
//duplicate check does not know, so the same station could be paid out twice.
func CheckSecondStage(entryType string, secondStage bool) error {
	if secondStage && entryType != structs.ScoreTypeSideQuest {
		return &errors.MalformedRequestError{Msg: "Only side quests have a second stage"}
	}
	return nil
}

//CheckNotCompleted Rejects a duplicate award of the same station or side quest
//to the same group.
func CheckNotCompleted(group structs.Group, entryType string, key string) error {
	var completed []string
	switch entryType {
	case structs.ScoreTypeStation:
		completed = group.CompletedStations
	case structs.ScoreTypeSideQuest:
		completed = group.CompletedSideQuests
	default:
		return nil
	}

	for _, c := range completed {
		if c == key {
			return &errors.MalformedRequestError{Msg: fmt.Sprintf("Group %v has already been scored for this", group.Name)}
		}
	}

	return nil
}
