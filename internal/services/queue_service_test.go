package services_test

import (
	"context"
	"testing"
	"time"

	"bway/internal/models"
	"bway/internal/queue"
	"bway/internal/services"
	"bway/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	routeQueue   = "route-assignment-queue"
	invoiceQueue = "invoice-generation-queue"
)

func TestSendRouteAssignmentMessage(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	svc := services.NewQueueService(transport, routeQueue, invoiceQueue, logger.NewNop())

	err := svc.SendRouteAssignmentMessage(context.Background(), &models.RouteAssignmentMessage{
		OrderID:   "ORD-1001",
		OrderDbID: "65f1a2b3c4d5e6f7a8b9c0d1",
		UserID:    "65f1a2b3c4d5e6f7a8b9c0d2",
		DeliveryLocation: models.Location{
			Address: "12 Hospital Rd",
			City:    "Jaipur",
		},
	})
	require.NoError(t, err)

	msgs, err := transport.Receive(context.Background(), routeQueue, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	body, err := models.ParseMessageBody(msgs[0].Body)
	require.NoError(t, err)
	msg, ok := body.(*models.RouteAssignmentMessage)
	require.True(t, ok)

	assert.Equal(t, "ORD-1001", msg.OrderID)
	assert.Equal(t, "normal", msg.Priority)
	assert.NotEmpty(t, msg.Timestamp)

	assert.Equal(t, "ORD-1001", msgs[0].Attributes["OrderId"])
	assert.Equal(t, string(models.MessageTypeRouteAssignment), msgs[0].Attributes["MessageType"])
}

func TestSendInvoiceGenerationMessage(t *testing.T) {
	transport := queue.NewMemoryTransport(time.Minute)
	svc := services.NewQueueService(transport, routeQueue, invoiceQueue, logger.NewNop())

	err := svc.SendInvoiceGenerationMessage(context.Background(), &models.InvoiceGenerationMessage{
		OrderID:    "65f1a2b3c4d5e6f7a8b9c0d1",
		HospitalID: "65f1a2b3c4d5e6f7a8b9c0d2",
		Amount:     149.5,
	})
	require.NoError(t, err)

	msgs, err := transport.Receive(context.Background(), invoiceQueue, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	body, err := models.ParseMessageBody(msgs[0].Body)
	require.NoError(t, err)
	msg, ok := body.(*models.InvoiceGenerationMessage)
	require.True(t, ok)

	assert.Equal(t, models.BillingStatusUnpaid, msg.Status)
	assert.Equal(t, "149.50", msgs[0].Attributes["Amount"])
	assert.Equal(t, string(models.MessageTypeInvoiceGeneration), msgs[0].Attributes["MessageType"])
}
