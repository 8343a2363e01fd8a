package services

import (
	"context"

	"bway/pkg/logger"
)

// Event types emitted by the workers.
const (
	EventRouteAssigned    = "route_assigned"
	EventInvoiceGenerated = "invoice_generated"
)

// EventSink receives fire-and-forget notifications for external listeners.
// No acknowledgement is expected; workers log emit failures and move on.
type EventSink interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// LogSink writes events to the log. Default sink when no external
// notification channel is configured.
type LogSink struct {
	logger *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Emit(_ context.Context, eventType string, payload interface{}) error {
	s.logger.WithFields(map[string]interface{}{
		"event":   eventType,
		"payload": payload,
	}).Info("Event emitted")
	return nil
}
