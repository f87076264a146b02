package messaging

import (
	"context"
)

// Broker is the publish side of the event pipeline. The reservation
// service only ever publishes; consumers live outside this repo.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
