package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bway/internal/models"
	"bway/internal/queue"
	"bway/internal/repositories/interfaces"
	"bway/internal/services"
	"bway/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const WorkerInvoiceGeneration = "invoiceGeneration"

// InvoiceGenerationHandler consumes INVOICE_GENERATION messages: it creates
// the billing record for a delivered order and flips the order status.
type InvoiceGenerationHandler struct {
	orders   interfaces.OrderRepository
	users    interfaces.UserRepository
	billings interfaces.BillingRepository
	sink     services.EventSink
	logger   *logger.Logger
}

func NewInvoiceGenerationHandler(
	orders interfaces.OrderRepository,
	users interfaces.UserRepository,
	billings interfaces.BillingRepository,
	sink services.EventSink,
	log *logger.Logger,
) *InvoiceGenerationHandler {
	return &InvoiceGenerationHandler{
		orders:   orders,
		users:    users,
		billings: billings,
		sink:     sink,
		logger:   log.WithWorker(WorkerInvoiceGeneration),
	}
}

// NewInvoiceGenerationWorker wraps the handler in a polling worker.
func NewInvoiceGenerationWorker(config Config, transport queue.Transport, handler *InvoiceGenerationHandler, log *logger.Logger) *Worker {
	config.Name = WorkerInvoiceGeneration
	return NewWorker(config, transport, handler.Handle, log)
}

func (h *InvoiceGenerationHandler) Handle(ctx context.Context, msg queue.Message) error {
	body, err := models.ParseMessageBody(msg.Body)
	if err != nil {
		return err
	}
	m, ok := body.(*models.InvoiceGenerationMessage)
	if !ok {
		return fmt.Errorf("%w: unexpected message type %s", models.ErrValidation, body.MessageType())
	}

	orderID, err := primitive.ObjectIDFromHex(m.OrderID)
	if err != nil {
		return fmt.Errorf("%w: invalid orderId %q", models.ErrValidation, m.OrderID)
	}
	hospitalID, err := primitive.ObjectIDFromHex(m.HospitalID)
	if err != nil {
		return fmt.Errorf("%w: invalid hospitalId %q", models.ErrValidation, m.HospitalID)
	}

	log := h.logger.WithOrderID(m.OrderID)
	log.Info("Processing invoice generation")

	// Redelivered message after a crash between Create and ack.
	if existing, err := h.billings.FindByOrder(ctx, orderID); err == nil {
		log.WithField("billing_id", existing.ID.Hex()).Info("Invoice already exists, skipping")
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check existing invoice for order %s: %w", m.OrderID, err)
	}

	invoiceDate, err := parseInvoiceTime(m.InvoiceDate)
	if err != nil {
		return fmt.Errorf("%w: invalid invoiceDate %q", models.ErrValidation, m.InvoiceDate)
	}
	dueDate := invoiceDate.AddDate(0, 0, 30)
	if m.DueDate != "" {
		if dueDate, err = parseInvoiceTime(m.DueDate); err != nil {
			return fmt.Errorf("%w: invalid dueDate %q", models.ErrValidation, m.DueDate)
		}
	}

	var (
		wg          sync.WaitGroup
		order       *models.Order
		hospital    *models.User
		orderErr    error
		hospitalErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		order, orderErr = h.orders.GetByID(ctx, orderID)
	}()
	go func() {
		defer wg.Done()
		hospital, hospitalErr = h.users.GetByID(ctx, hospitalID)
	}()
	wg.Wait()

	if orderErr != nil {
		return fmt.Errorf("failed to load order %s: %w", m.OrderID, orderErr)
	}
	if hospitalErr != nil {
		return fmt.Errorf("failed to load hospital %s: %w", m.HospitalID, hospitalErr)
	}

	status := m.Status
	if status == "" {
		status = models.BillingStatusUnpaid
	}

	billing := &models.Billing{
		Order:       order.ID,
		Hospital:    hospital.ID,
		Courier:     m.Courier,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		Amount:      m.Amount,
		Status:      status,
	}
	if err := h.billings.Create(ctx, billing); err != nil {
		return fmt.Errorf("failed to create invoice for order %s: %w", m.OrderID, err)
	}

	// Second write is not transactional with the first; a crash in between
	// leaves the invoice in place and the status stale until redelivery,
	// where the exists-check turns the retry into a no-op.
	if err := h.orders.UpdateStatus(ctx, orderID, models.OrderStatusInvoiceGenerated); err != nil {
		log.WithError(err).Error("Invoice created but order status update failed")
	}

	log.WithFields(map[string]interface{}{
		"billing_id": billing.ID.Hex(),
		"hospital":   hospital.Name,
		"amount":     m.Amount,
	}).Info("Invoice generated")

	if err := h.sink.Emit(ctx, services.EventInvoiceGenerated, map[string]interface{}{
		"orderId":    m.OrderID,
		"billingId":  billing.ID.Hex(),
		"hospitalId": m.HospitalID,
		"amount":     m.Amount,
		"status":     status,
	}); err != nil {
		log.WithError(err).Warn("Failed to emit invoice event")
	}

	return nil
}

// parseInvoiceTime accepts RFC 3339 timestamps or bare dates. An empty value
// defaults to now so producers may omit the invoice date.
func parseInvoiceTime(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
