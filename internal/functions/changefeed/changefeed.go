package changefeed

import (
	"context"

	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/pubsub"
	"github.com/oweek/raceday-backend/pkg/firestore"
)

//ChangeKind Classifies a Firestore trigger event by which document versions
//it carries.
func ChangeKind(e firestore.Event) string {
	switch {
	case e.OldValue.IsZero():
		return "added"
	case e.Value.IsZero():
		return "removed"
	default:
		return "modified"
	}
}

//PublishChange Firestore background trigger forwarding document changes to
//the collection-changed topic. Clients write some collections directly
//through the store SDK, so the SSE fan-out cannot rely on the function layer
//alone to announce every change.
func PublishChange(ctx context.Context, e firestore.Event) error {
	logger := logging.FromContext(ctx)
	publisher := pubsub.Client{}

	name := e.Value.Name
	if name == "" {
		name = e.OldValue.Name
	}

	collection, docID := firestore.SplitName(name)
	if collection == "" {
		logger.Warnf("Dropping change event with unparsable document name %q", name)
		return nil
	}

	event := pubsub.ChangeEvent{
		Collection: collection,
		DocID:      docID,
		Kind:       ChangeKind(e),
	}

	logger.Debugf("Forwarding change: %+v", event)

	return publisher.Publish(constants.TopicCollectionChanged, event)
}
