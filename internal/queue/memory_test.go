package queue_test

import (
	"context"
	"testing"
	"time"

	"bway/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueue = "test-queue"

func TestMemoryTransportSendReceive(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	ctx := context.Background()

	require.NoError(t, transport.Send(ctx, testQueue, []byte(`{"a":1}`), map[string]string{"k": "v"}))

	msgs, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.JSONEq(t, `{"a":1}`, string(msgs[0].Body))
	assert.Equal(t, "v", msgs[0].Attributes["k"])
}

func TestMemoryTransportLeaseHidesMessage(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	ctx := context.Background()

	require.NoError(t, transport.Send(ctx, testQueue, []byte("one"), nil))

	first, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Leased message must not be redelivered inside the visibility window.
	second, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, transport.Depth(testQueue))
}

func TestMemoryTransportLeaseExpires(t *testing.T) {
	transport := queue.NewMemoryTransport(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, transport.Send(ctx, testQueue, []byte("one"), nil))

	first, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	time.Sleep(20 * time.Millisecond)

	second, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	assert.Len(t, second, 1, "unacked message must come back after the lease expires")
}

func TestMemoryTransportAckRemoves(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	ctx := context.Background()

	require.NoError(t, transport.Send(ctx, testQueue, []byte("one"), nil))
	msgs, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, transport.Ack(ctx, testQueue, msgs[0]))
	assert.Zero(t, transport.Depth(testQueue))

	assert.Error(t, transport.Ack(ctx, testQueue, msgs[0]))
}

func TestMemoryTransportRequeueMakesVisibleAfterDelay(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	ctx := context.Background()

	require.NoError(t, transport.Send(ctx, testQueue, []byte("one"), nil))
	msgs, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, transport.Requeue(ctx, testQueue, msgs[0], 0))

	again, err := transport.Receive(ctx, testQueue, 10)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}

func TestMemoryTransportMaxMessages(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, transport.Send(ctx, testQueue, []byte("m"), nil))
	}

	msgs, err := transport.Receive(ctx, testQueue, 3)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestMemoryTransportStatsAndPurge(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	ctx := context.Background()

	require.NoError(t, transport.Send(ctx, testQueue, []byte("a"), nil))
	require.NoError(t, transport.Send(ctx, testQueue, []byte("b"), nil))

	msgs, err := transport.Receive(ctx, testQueue, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	stats, err := transport.Stats(ctx, testQueue)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MessagesAvailable)
	assert.Equal(t, 1, stats.MessagesInFlight)

	require.NoError(t, transport.Purge(ctx, testQueue))
	assert.Zero(t, transport.Depth(testQueue))
}
