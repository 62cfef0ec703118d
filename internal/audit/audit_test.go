package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockClientFiltersByGroup(t *testing.T) {
	c := &MockClient{}

	assert.Nil(t, c.PersistScoreRecord(&ScoreRecord{EntryID: "e1", GroupID: "g1", Points: 10}))
	assert.Nil(t, c.PersistScoreRecord(&ScoreRecord{EntryID: "e2", GroupID: "g2", Points: 20}))
	assert.Nil(t, c.PersistScoreRecord(&ScoreRecord{EntryID: "e3", GroupID: "g1", Points: -5}))

	records, err := c.GetScoreRecords("g1")

	assert.Nil(t, err)
	if assert.Len(t, records, 2) {
		assert.Equal(t, "e1", records[0].EntryID)
		assert.Equal(t, "e3", records[1].EntryID)
	}
}
