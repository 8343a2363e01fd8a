// Package workers contains the queue-driven workers that assign routes and
// generate invoices for incoming orders.
package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bway/internal/models"
	"bway/internal/queue"
	"bway/pkg/logger"
)

// Handler processes one leased message. Returning nil (or
// ErrAlreadyProcessed) acks the message; ErrValidation drops it without
// retry; any other error is retried until the body's embedded retry count
// reaches the configured maximum.
type Handler func(ctx context.Context, msg queue.Message) error

type Config struct {
	Name         string
	QueueURL     string
	MaxMessages  int32
	PollInterval time.Duration
	ErrorBackoff time.Duration
	MaxRetries   int
	RequeueDelay time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxMessages <= 0 {
		c.MaxMessages = 10
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = 2 * c.PollInterval
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RequeueDelay <= 0 {
		c.RequeueDelay = 30 * time.Second
	}
}

// Worker is a polling loop over one queue. It long-polls a batch, dispatches
// every received message to the handler concurrently, awaits the whole batch
// and sleeps before the next iteration. Stop is cooperative and consulted
// between iterations only; in-flight handler invocations always finish.
type Worker struct {
	config    Config
	transport queue.Transport
	handler   Handler
	logger    *logger.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewWorker(config Config, transport queue.Transport, handler Handler, log *logger.Logger) *Worker {
	config.applyDefaults()

	done := make(chan struct{})
	close(done)

	return &Worker{
		config:    config,
		transport: transport,
		handler:   handler,
		logger:    log.WithWorker(config.Name),
		done:      done,
	}
}

func (w *Worker) Name() string {
	return w.config.Name
}

func (w *Worker) QueueURL() string {
	return w.config.QueueURL
}

func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Start launches the polling loop. Starting a running worker is a no-op.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.logger.Debug("Worker already running")
		return
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})

	w.logger.Info("Starting worker")
	go w.poll(w.stopCh, w.done)
}

// Stop requests the loop to exit after the current iteration.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.running = false
	close(w.stopCh)
	w.logger.Info("Worker stopping")
}

// Done is closed once the polling loop has fully exited.
func (w *Worker) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *Worker) poll(stopCh, done chan struct{}) {
	defer close(done)

	ctx := context.Background()
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		if err := w.processBatch(ctx); err != nil {
			// Transport-level failure: back off the whole loop.
			w.logger.WithError(err).Error("Polling iteration failed")
			if !w.sleep(stopCh, w.config.ErrorBackoff) {
				return
			}
			continue
		}

		if !w.sleep(stopCh, w.config.PollInterval) {
			return
		}
	}
}

func (w *Worker) sleep(stopCh chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func (w *Worker) processBatch(ctx context.Context) error {
	messages, err := w.transport.Receive(ctx, w.config.QueueURL, w.config.MaxMessages)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	w.logger.WithField("count", len(messages)).Debug("Received messages")

	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(m queue.Message) {
			defer wg.Done()
			w.processMessage(ctx, m)
		}(msg)
	}
	wg.Wait()

	return nil
}

// processMessage applies the ack/retry/drop policy to one message. A failure
// here never aborts the batch or the loop.
func (w *Worker) processMessage(ctx context.Context, msg queue.Message) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.WithField("message_id", msg.MessageID).
				Errorf("Handler panicked: %v", r)
		}
	}()

	err := w.handler(ctx, msg)
	if err == nil || errors.Is(err, models.ErrAlreadyProcessed) {
		w.ack(ctx, msg)
		return
	}

	if errors.Is(err, models.ErrValidation) {
		// Retrying cannot fix a malformed body.
		w.logger.WithField("message_id", msg.MessageID).WithError(err).
			Warn("Dropping invalid message")
		w.ack(ctx, msg)
		return
	}

	retries := models.RetryCountOf(msg.Body)
	if retries < w.config.MaxRetries {
		w.logger.WithFields(map[string]interface{}{
			"message_id": msg.MessageID,
			"attempt":    retries + 1,
			"max":        w.config.MaxRetries,
		}).WithError(err).Warn("Handler failed, message will be redelivered")

		if requeueErr := w.transport.Requeue(ctx, w.config.QueueURL, msg, w.config.RequeueDelay); requeueErr != nil {
			w.logger.WithError(requeueErr).Error("Failed to requeue message")
		}
		return
	}

	w.logger.WithFields(map[string]interface{}{
		"message_id": msg.MessageID,
		"retries":    retries,
	}).WithError(err).Error("Max retries exceeded, dropping message")
	w.ack(ctx, msg)
}

func (w *Worker) ack(ctx context.Context, msg queue.Message) {
	if err := w.transport.Ack(ctx, w.config.QueueURL, msg); err != nil {
		w.logger.WithField("message_id", msg.MessageID).WithError(err).
			Error("Failed to ack message")
	}
}
