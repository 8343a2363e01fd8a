package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "Pending"
	OrderStatusScheduled        OrderStatus = "Scheduled"
	OrderStatusPickedUp         OrderStatus = "Picked Up"
	OrderStatusDelivered        OrderStatus = "Delivered"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusReturnCreated    OrderStatus = "Return Created"
	OrderStatusInvoiceGenerated OrderStatus = "Invoice Generated"
)

// Order is created by the order API and mutated exactly once by each worker:
// the route field by route assignment, status/billing linkage by invoice
// generation. Route assignment is monotonic; once Route is set it is never
// overwritten.
type Order struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderID          string              `bson:"orderId" json:"orderId"`
	User             primitive.ObjectID  `bson:"user" json:"user"`
	Items            string              `bson:"items" json:"items"`
	Qty              int                 `bson:"qty" json:"qty"`
	PickupLocation   string              `bson:"pickupLocation" json:"pickupLocation"`
	DeliveryLocation string              `bson:"deliveryLocation" json:"deliveryLocation"`
	AssignedDriver   *primitive.ObjectID `bson:"assignedDriver,omitempty" json:"assignedDriver,omitempty"`
	Route            *primitive.ObjectID `bson:"route,omitempty" json:"route,omitempty"`
	Status           OrderStatus         `bson:"status" json:"status"`
	ETA              string              `bson:"eta,omitempty" json:"eta,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
