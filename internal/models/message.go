package models

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	MessageTypeRouteAssignment   MessageType = "ROUTE_ASSIGNMENT"
	MessageTypeInvoiceGeneration MessageType = "INVOICE_GENERATION"
)

// MessageBody is the tagged union of queue message payloads. Shapes are
// validated at the deserialization boundary; anything unrecognized or
// malformed is rejected with ErrValidation instead of being defaulted.
type MessageBody interface {
	MessageType() MessageType
	Retries() int
}

// RouteAssignmentMessage is enqueued once per created order. The retry count
// travels inside the body, not in transport metadata.
type RouteAssignmentMessage struct {
	Type             MessageType `json:"type"`
	Timestamp        string      `json:"timestamp"`
	OrderID          string      `json:"orderId"`
	OrderDbID        string      `json:"orderDbId"`
	UserID           string      `json:"userId"`
	PickupLocation   Location    `json:"pickupLocation"`
	DeliveryLocation Location    `json:"deliveryLocation"`
	Items            string      `json:"items"`
	Qty              int         `json:"qty"`
	HospitalName     string      `json:"hospitalName,omitempty"`
	Priority         string      `json:"priority"`
	RetryCount       int         `json:"retryCount"`
}

func (m *RouteAssignmentMessage) MessageType() MessageType { return MessageTypeRouteAssignment }
func (m *RouteAssignmentMessage) Retries() int             { return m.RetryCount }

type InvoiceGenerationMessage struct {
	Type        MessageType   `json:"type"`
	Timestamp   string        `json:"timestamp"`
	OrderID     string        `json:"orderId"`
	HospitalID  string        `json:"hospitalId"`
	Courier     string        `json:"courier,omitempty"`
	Amount      float64       `json:"amount"`
	InvoiceDate string        `json:"invoiceDate"`
	DueDate     string        `json:"dueDate"`
	Status      BillingStatus `json:"status"`
	Priority    string        `json:"priority"`
	RetryCount  int           `json:"retryCount"`
}

func (m *InvoiceGenerationMessage) MessageType() MessageType { return MessageTypeInvoiceGeneration }
func (m *InvoiceGenerationMessage) Retries() int             { return m.RetryCount }

// ParseMessageBody decodes a raw queue payload into its typed form.
func ParseMessageBody(data []byte) (MessageBody, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: unparsable message body: %v", ErrValidation, err)
	}

	switch head.Type {
	case MessageTypeRouteAssignment:
		var msg RouteAssignmentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: malformed %s body: %v", ErrValidation, head.Type, err)
		}
		if msg.OrderDbID == "" {
			return nil, fmt.Errorf("%w: %s message missing orderDbId", ErrValidation, head.Type)
		}
		return &msg, nil

	case MessageTypeInvoiceGeneration:
		var msg InvoiceGenerationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: malformed %s body: %v", ErrValidation, head.Type, err)
		}
		if msg.OrderID == "" || msg.HospitalID == "" {
			return nil, fmt.Errorf("%w: %s message missing order or hospital reference", ErrValidation, head.Type)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized message type %q", ErrValidation, head.Type)
	}
}

// RetryCountOf extracts the embedded retry count from a raw body without
// requiring the full shape to validate. Used by the worker retry policy.
func RetryCountOf(data []byte) int {
	var probe struct {
		RetryCount int `json:"retryCount"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0
	}
	return probe.RetryCount
}
