package scoring

import (
	"context"
	"testing"

	"github.com/oweek/raceday-backend/internal/audit"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(topic string, msg interface{}) error {
	p.topics = append(p.topics, topic)
	return nil
}

func TestMirrorScoreReachesAuditAndEvents(t *testing.T) {
	auditClient := &audit.MockClient{}
	publisher := &recordingPublisher{}
	logger := logging.FromContext(context.Background())

	entry := structs.ScoreLogEntry{
		GroupID:   "g1",
		Points:    30,
		Type:      structs.ScoreTypeStation,
		SourceID:  "st1",
		AwardedBy: "ogl1",
		CreatedAt: 1756300000,
	}

	MirrorScore(logger, auditClient, publisher, "entry1", entry)

	// every committed score log entry lands in the audit table, the unmanned
	// self-award from a depart included
	if assert.Len(t, auditClient.Records, 1) {
		assert.Equal(t, "entry1", auditClient.Records[0].EntryID)
		assert.Equal(t, "g1", auditClient.Records[0].GroupID)
		assert.Equal(t, 30, auditClient.Records[0].Points)
		assert.Equal(t, structs.ScoreTypeStation, auditClient.Records[0].Type)
	}

	assert.Equal(t, []string{constants.TopicScoreSubmitted, constants.TopicCollectionChanged}, publisher.topics)
}
