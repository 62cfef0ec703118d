package publicapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/oweek/raceday-backend/internal/broker"
	"github.com/oweek/raceday-backend/internal/logging"
)

var changeBroker = broker.New()
var bridgeOnce sync.Once

func startBridge() {
	bridgeOnce.Do(func() {
		if projectID, ok := os.LookupEnv("PROJECT_ID"); ok && projectID == "NOOP" {
			return
		}

		go func() {
			ctx := context.Background()
			logger := logging.FromContext(ctx).Named("publicapi.events")

			if err := broker.Bridge(ctx, changeBroker, broker.DefaultSubscriptionID); err != nil {
				logger.Errorf("Change event bridge stopped: %v", err)
			}
		}()
	})
}

//Events Streams change pings to admin consoles as server-sent events. An
//optional ?collection= query narrows the stream to one collection; consoles
//re-read the data through their own live subscriptions, the ping only says
//that something moved.
func Events(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()
	logger := logging.FromContext(ctx)

	startBridge()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	collection := r.URL.Query().Get("collection")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	events := changeBroker.Subscribe(collection)
	defer changeBroker.Unsubscribe(collection, events)

	logger.Debugf("SSE subscriber attached, collection=%q", collection)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			logger.Debugf("SSE subscriber detached, collection=%q", collection)
			return
		case data := <-events:
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
