package workers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bway/internal/models"
	"bway/internal/queue"
	"bway/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workerTestQueue = "worker-test-queue"

func newTestWorker(t *testing.T, transport queue.Transport, handler Handler) *Worker {
	t.Helper()
	return NewWorker(Config{
		Name:     "test",
		QueueURL: workerTestQueue,
	}, transport, handler, logger.NewNop())
}

func sendWithRetryCount(t *testing.T, transport *queue.MemoryTransport, retryCount int) {
	t.Helper()
	body := []byte(fmt.Sprintf(`{"type":"ROUTE_ASSIGNMENT","orderDbId":"x","retryCount":%d}`, retryCount))
	require.NoError(t, transport.Send(context.Background(), workerTestQueue, body, nil))
}

func receiveOne(t *testing.T, transport *queue.MemoryTransport) queue.Message {
	t.Helper()
	msgs, err := transport.Receive(context.Background(), workerTestQueue, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	return msgs[0]
}

func TestProcessMessageAcksOnSuccess(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return nil
	})

	sendWithRetryCount(t, transport, 0)
	w.processMessage(context.Background(), receiveOne(t, transport))

	assert.Zero(t, transport.Depth(workerTestQueue))
}

func TestProcessMessageTreatsAlreadyProcessedAsSuccess(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return fmt.Errorf("%w: order already routed", models.ErrAlreadyProcessed)
	})

	sendWithRetryCount(t, transport, 0)
	w.processMessage(context.Background(), receiveOne(t, transport))

	assert.Zero(t, transport.Depth(workerTestQueue))
}

func TestProcessMessageDropsValidationErrors(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return fmt.Errorf("%w: bad body", models.ErrValidation)
	})

	sendWithRetryCount(t, transport, 0)
	w.processMessage(context.Background(), receiveOne(t, transport))

	assert.Zero(t, transport.Depth(workerTestQueue), "malformed messages are never retried")
}

func TestProcessMessageRequeuesRetryableFailure(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return errors.New("database unavailable")
	})
	w.config.RequeueDelay = 0

	sendWithRetryCount(t, transport, 1)
	w.processMessage(context.Background(), receiveOne(t, transport))

	// Message stays on the queue and is visible again for redelivery.
	assert.Equal(t, 1, transport.Depth(workerTestQueue))
	msgs, err := transport.Receive(context.Background(), workerTestQueue, 1)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestProcessMessageDropsAfterMaxRetries(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return errors.New("still failing")
	})

	sendWithRetryCount(t, transport, w.config.MaxRetries)
	w.processMessage(context.Background(), receiveOne(t, transport))

	assert.Zero(t, transport.Depth(workerTestQueue))
}

func TestProcessMessageRecoversFromPanic(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		panic("handler bug")
	})

	sendWithRetryCount(t, transport, 0)
	assert.NotPanics(t, func() {
		w.processMessage(context.Background(), receiveOne(t, transport))
	})
}

func TestProcessBatchDispatchesWholeBatch(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)

	var handled atomic.Int32
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		handled.Add(1)
		return nil
	})

	for i := 0; i < 5; i++ {
		sendWithRetryCount(t, transport, 0)
	}

	require.NoError(t, w.processBatch(context.Background()))

	assert.Equal(t, int32(5), handled.Load())
	assert.Zero(t, transport.Depth(workerTestQueue))
}

func TestProcessBatchFailureDoesNotBlockSiblings(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)

	var handled atomic.Int32
	w := newTestWorker(t, transport, func(_ context.Context, msg queue.Message) error {
		handled.Add(1)
		if string(msg.Body) == "garbage" {
			return fmt.Errorf("%w: unparsable body", models.ErrValidation)
		}
		return nil
	})

	require.NoError(t, transport.Send(context.Background(), workerTestQueue, []byte("garbage"), nil))
	for i := 0; i < 3; i++ {
		sendWithRetryCount(t, transport, 0)
	}

	require.NoError(t, w.processBatch(context.Background()))

	// All four were handled; the bad one was dropped, not requeued.
	assert.Equal(t, int32(4), handled.Load())
	assert.Zero(t, transport.Depth(workerTestQueue))
}

func TestWorkerStartStopLifecycle(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return nil
	})

	assert.False(t, w.Running())

	w.Start()
	assert.True(t, w.Running())

	// Starting again is a no-op.
	w.Start()
	assert.True(t, w.Running())

	w.Stop()
	assert.False(t, w.Running())

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker loop did not exit")
	}

	// Stopping a stopped worker is a no-op.
	w.Stop()
}

func TestWorkerRestartable(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	w := newTestWorker(t, transport, func(context.Context, queue.Message) error {
		return nil
	})

	w.Start()
	w.Stop()
	<-w.Done()

	w.Start()
	assert.True(t, w.Running())
	w.Stop()
	<-w.Done()
}
