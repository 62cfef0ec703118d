package groups

import (
	"testing"

	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/stretchr/testify/assert"
)

func TestCheckDeletable(t *testing.T) {
	assert.Nil(t, checkDeletable(structs.Group{Name: "Group 1", Status: structs.GroupIdle}))
	assert.Nil(t, checkDeletable(structs.Group{Name: "Group 1", Status: structs.GroupOnLunch}))
	assert.Nil(t, checkDeletable(structs.Group{Name: "Group 1"}))

	assert.NotNil(t, checkDeletable(structs.Group{
		Name:          "Group 1",
		Status:        structs.GroupTraveling,
		DestinationID: "st1",
	}))
	assert.NotNil(t, checkDeletable(structs.Group{
		Name:          "Group 1",
		Status:        structs.GroupArrived,
		DestinationID: "st1",
	}))
}
