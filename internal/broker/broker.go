package broker

import (
	"context"
	"encoding/json"
	"sync"

	gpubsub "cloud.google.com/go/pubsub"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/pubsub"
)

//Broker In-process pub/sub fanning change pings out to SSE subscribers,
//keyed by collection name. An empty key subscribes to everything.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

//New Creates an empty broker.
func New() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

//Subscribe Returns a channel that receives JSON-encoded change events for the
//given collection. Slow subscribers drop events rather than block publishers.
func (b *Broker) Subscribe(collection string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[chan []byte]struct{})
	}
	b.subs[collection][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

//Unsubscribe Removes a channel from the collection's subscribers.
func (b *Broker) Unsubscribe(collection string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[collection], ch)
	if len(b.subs[collection]) == 0 {
		delete(b.subs, collection)
	}
	b.mu.Unlock()
}

//Publish Sends an event to subscribers of its collection and to subscribers
//of everything.
func (b *Broker) Publish(event pubsub.ChangeEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for _, key := range []string{event.Collection, ""} {
		for ch := range b.subs[key] {
			select {
			case ch <- data:
			default:
				// Drop if subscriber is slow.
			}
		}
	}
	b.mu.RUnlock()
}

//Bridge Pulls change events from the collection-changed Pub/Sub subscription
//into the broker, so that consoles attached to any instance see writes made
//through any other instance. Blocks until ctx is cancelled.
func Bridge(ctx context.Context, b *Broker, subscriptionID string) error {
	logger := logging.FromContext(ctx).Named("broker.bridge")

	sub := pubsub.PubSubClient.Subscription(subscriptionID)

	return sub.Receive(ctx, func(ctx context.Context, msg *gpubsub.Message) {
		var event pubsub.ChangeEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Warnf("Dropping undecodable change event: %v", err)
			msg.Ack()
			return
		}

		b.Publish(event)
		msg.Ack()
	})
}

//DefaultSubscriptionID Subscription the bridge drains by default.
const DefaultSubscriptionID = constants.TopicCollectionChanged + "-sse"
