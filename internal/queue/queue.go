// Package queue abstracts the message transport the workers poll. Mutual
// exclusion between concurrent consumers is delegated to the transport's
// visibility-timeout lease; retry policy is expressed through explicit
// Ack/Requeue so it stays portable across implementations.
package queue

import (
	"context"
	"time"
)

// Message is owned by the transport until it is acked or requeued. The retry
// count is carried inside the body, not here.
type Message struct {
	MessageID     string
	Body          []byte
	Attributes    map[string]string
	ReceiptHandle string
}

type Stats struct {
	MessagesAvailable int `json:"messagesAvailable"`
	MessagesInFlight  int `json:"messagesInFlight"`
	MessagesDelayed   int `json:"messagesDelayed"`
}

type Transport interface {
	// Receive long-polls for up to maxMessages messages. Each returned
	// message is leased for the transport's visibility window.
	Receive(ctx context.Context, queueURL string, maxMessages int32) ([]Message, error)

	// Ack removes the message from the queue.
	Ack(ctx context.Context, queueURL string, msg Message) error

	// Requeue makes the message visible again after the delay hint, for
	// another delivery attempt.
	Requeue(ctx context.Context, queueURL string, msg Message, delay time.Duration) error

	Send(ctx context.Context, queueURL string, body []byte, attributes map[string]string) error

	Stats(ctx context.Context, queueURL string) (*Stats, error)

	Purge(ctx context.Context, queueURL string) error
}
