package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bway/internal/models"
	"bway/internal/queue"
	"bway/pkg/logger"
)

// QueueService is the producer side: it builds the typed message bodies and
// transport attributes for the two worker queues.
type QueueService struct {
	transport              queue.Transport
	routeAssignmentQueue   string
	invoiceGenerationQueue string
	logger                 *logger.Logger
}

func NewQueueService(transport queue.Transport, routeAssignmentQueue, invoiceGenerationQueue string, log *logger.Logger) *QueueService {
	return &QueueService{
		transport:              transport,
		routeAssignmentQueue:   routeAssignmentQueue,
		invoiceGenerationQueue: invoiceGenerationQueue,
		logger:                 log,
	}
}

func (s *QueueService) SendRouteAssignmentMessage(ctx context.Context, msg *models.RouteAssignmentMessage) error {
	msg.Type = models.MessageTypeRouteAssignment
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if msg.Priority == "" {
		msg.Priority = "normal"
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal route assignment message: %w", err)
	}

	attributes := map[string]string{
		"OrderId":     msg.OrderID,
		"UserId":      msg.UserID,
		"MessageType": string(models.MessageTypeRouteAssignment),
	}

	if err := s.transport.Send(ctx, s.routeAssignmentQueue, body, attributes); err != nil {
		return fmt.Errorf("failed to enqueue route assignment for order %s: %w", msg.OrderID, err)
	}

	s.logger.WithField("order_id", msg.OrderID).Info("Route assignment message enqueued")
	return nil
}

func (s *QueueService) SendInvoiceGenerationMessage(ctx context.Context, msg *models.InvoiceGenerationMessage) error {
	msg.Type = models.MessageTypeInvoiceGeneration
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if msg.Priority == "" {
		msg.Priority = "normal"
	}
	if msg.Status == "" {
		msg.Status = models.BillingStatusUnpaid
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice generation message: %w", err)
	}

	attributes := map[string]string{
		"OrderId":     msg.OrderID,
		"HospitalId":  msg.HospitalID,
		"Amount":      fmt.Sprintf("%.2f", msg.Amount),
		"MessageType": string(models.MessageTypeInvoiceGeneration),
	}

	if err := s.transport.Send(ctx, s.invoiceGenerationQueue, body, attributes); err != nil {
		return fmt.Errorf("failed to enqueue invoice generation for order %s: %w", msg.OrderID, err)
	}

	s.logger.WithField("order_id", msg.OrderID).Info("Invoice generation message enqueued")
	return nil
}
