package messaging

import (
	"context"

	"firebase.google.com/go/messaging"
	"github.com/oweek/raceday-backend/internal/firebase"
)

//PushSender Interface for FB messaging client
type PushSender interface {
	Send(ctx context.Context, msg *messaging.Message) error
}

//Client Real implementation of FB messaging client
type Client struct{}

//Send Sends the message
func (c Client) Send(ctx context.Context, msg *messaging.Message) error {
	_, err := firebase.FirebaseMessaging.Send(ctx, msg)
	return err
}

//MockClient NOOP messaging client. Records sent messages for assertions.
type MockClient struct {
	Sent []*messaging.Message
}

//Send Sends the message (but not, because it's a mock)
func (c *MockClient) Send(ctx context.Context, msg *messaging.Message) error {
	c.Sent = append(c.Sent, msg)
	return nil
}
