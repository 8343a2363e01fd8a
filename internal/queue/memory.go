package queue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryTransport is an in-process Transport with real visibility leases.
// It backs the worker tests and local development without SQS.
type MemoryTransport struct {
	mu                sync.Mutex
	queues            map[string][]*memoryMessage
	visibilityTimeout time.Duration
	nextID            int
}

type memoryMessage struct {
	msg       Message
	visibleAt time.Time
	inFlight  bool
}

func NewMemoryTransport(visibilityTimeout time.Duration) *MemoryTransport {
	if visibilityTimeout <= 0 {
		visibilityTimeout = 30 * time.Second
	}
	return &MemoryTransport{
		queues:            make(map[string][]*memoryMessage),
		visibilityTimeout: visibilityTimeout,
	}
}

func (t *MemoryTransport) Receive(_ context.Context, queueURL string, maxMessages int32) ([]Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	var received []Message
	for _, entry := range t.queues[queueURL] {
		if int32(len(received)) >= maxMessages {
			break
		}
		if entry.visibleAt.After(now) {
			continue
		}
		// Lease the message for the visibility window.
		entry.visibleAt = now.Add(t.visibilityTimeout)
		entry.inFlight = true
		received = append(received, entry.msg)
	}

	return received, nil
}

func (t *MemoryTransport) Ack(_ context.Context, queueURL string, msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.queues[queueURL]
	for i, entry := range entries {
		if entry.msg.ReceiptHandle == msg.ReceiptHandle {
			t.queues[queueURL] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unknown receipt handle: %s", msg.ReceiptHandle)
}

func (t *MemoryTransport) Requeue(_ context.Context, queueURL string, msg Message, delay time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, entry := range t.queues[queueURL] {
		if entry.msg.ReceiptHandle == msg.ReceiptHandle {
			entry.visibleAt = time.Now().Add(delay)
			entry.inFlight = false
			return nil
		}
	}
	return fmt.Errorf("unknown receipt handle: %s", msg.ReceiptHandle)
}

func (t *MemoryTransport) Send(_ context.Context, queueURL string, body []byte, attributes map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	attrs := make(map[string]string, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}

	t.queues[queueURL] = append(t.queues[queueURL], &memoryMessage{
		msg: Message{
			MessageID:     fmt.Sprintf("mem-%d", t.nextID),
			Body:          append([]byte(nil), body...),
			Attributes:    attrs,
			ReceiptHandle: fmt.Sprintf("rh-%d", t.nextID),
		},
		visibleAt: time.Now(),
	})
	return nil
}

func (t *MemoryTransport) Stats(_ context.Context, queueURL string) (*Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := &Stats{}
	now := time.Now()
	for _, entry := range t.queues[queueURL] {
		switch {
		case entry.inFlight && entry.visibleAt.After(now):
			stats.MessagesInFlight++
		case entry.visibleAt.After(now):
			stats.MessagesDelayed++
		default:
			stats.MessagesAvailable++
		}
	}
	return stats, nil
}

func (t *MemoryTransport) Purge(_ context.Context, queueURL string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.queues[queueURL] = nil
	return nil
}

// Depth reports how many messages remain in the queue regardless of lease
// state. Test helper.
func (t *MemoryTransport) Depth(queueURL string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queues[queueURL])
}
