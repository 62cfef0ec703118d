package scoring

import (
	"testing"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/stretchr/testify/assert"
)

func TestCompletionKey(t *testing.T) {
	assert.Equal(t, "quest1", CompletionKey("quest1", false))
	assert.Equal(t, "quest1#2", CompletionKey("quest1", true))
}

func TestCheckNotCompleted(t *testing.T) {
	group := structs.Group{
		Name:                "Group 7",
		CompletedStations:   []string{"st1", "st2"},
		CompletedSideQuests: []string{"q1", "q2#2"},
	}

	assert.Nil(t, CheckNotCompleted(group, structs.ScoreTypeStation, "st3"))
	assert.NotNil(t, CheckNotCompleted(group, structs.ScoreTypeStation, "st1"))

	assert.Nil(t, CheckNotCompleted(group, structs.ScoreTypeSideQuest, "q2"))
	assert.NotNil(t, CheckNotCompleted(group, structs.ScoreTypeSideQuest, "q1"))
	assert.NotNil(t, CheckNotCompleted(group, structs.ScoreTypeSideQuest, "q2#2"))

	// admin corrections are never deduplicated
	assert.Nil(t, CheckNotCompleted(group, structs.ScoreTypeAdmin, "st1"))
}

func TestCheckSecondStage(t *testing.T) {
	assert.Nil(t, CheckSecondStage(structs.ScoreTypeSideQuest, true))
	assert.Nil(t, CheckSecondStage(structs.ScoreTypeSideQuest, false))
	assert.Nil(t, CheckSecondStage(structs.ScoreTypeStation, false))

	assert.NotNil(t, CheckSecondStage(structs.ScoreTypeStation, true))
	assert.NotNil(t, CheckSecondStage(structs.ScoreTypeAdmin, true))
}

func TestStationSecondStageCannotBypassDuplicateCheck(t *testing.T) {
	group := structs.Group{Name: "Group 1", CompletedStations: []string{"st1"}}

	// the '#2' key is unknown to the completed list, so only the stage guard
	// stands between this request and a double payout
	assert.Nil(t, CheckNotCompleted(group, structs.ScoreTypeStation, CompletionKey("st1", true)))
	assert.NotNil(t, CheckSecondStage(structs.ScoreTypeStation, true))
}
