package changefeed

import (
	"testing"

	"github.com/oweek/raceday-backend/pkg/firestore"
	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	collection, docID := firestore.SplitName("projects/raceday-prod/databases/(default)/documents/groups/abc123")
	assert.Equal(t, "groups", collection)
	assert.Equal(t, "abc123", docID)

	collection, docID = firestore.SplitName("projects/raceday-prod/databases/(default)/documents/requests/r1/messages/m1")
	assert.Equal(t, "requests/r1/messages", collection)
	assert.Equal(t, "m1", docID)

	collection, docID = firestore.SplitName("garbage")
	assert.Equal(t, "", collection)
	assert.Equal(t, "", docID)
}

func TestChangeKind(t *testing.T) {
	added := firestore.Event{}
	added.Value.Name = "projects/p/databases/(default)/documents/groups/a"
	assert.Equal(t, "added", ChangeKind(added))

	removed := firestore.Event{}
	removed.OldValue.Name = "projects/p/databases/(default)/documents/groups/a"
	assert.Equal(t, "removed", ChangeKind(removed))

	modified := firestore.Event{}
	modified.Value.Name = "projects/p/databases/(default)/documents/groups/a"
	modified.OldValue.Name = modified.Value.Name
	assert.Equal(t, "modified", ChangeKind(modified))
}
