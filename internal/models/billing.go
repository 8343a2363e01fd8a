package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillingStatus string

const (
	BillingStatusPaid          BillingStatus = "Paid"
	BillingStatusUnpaid        BillingStatus = "Unpaid"
	BillingStatusOverdue       BillingStatus = "Overdue"
	BillingStatusPending       BillingStatus = "Pending"
	BillingStatusPartiallyPaid BillingStatus = "Partially Paid"
	BillingStatusCancelled     BillingStatus = "Cancelled"
)

type Billing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Order       primitive.ObjectID `bson:"order" json:"order"`
	Hospital    primitive.ObjectID `bson:"hospital" json:"hospital"`
	Courier     string             `bson:"courier" json:"courier"`
	InvoiceDate time.Time          `bson:"invoiceDate" json:"invoiceDate"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	Amount      float64            `bson:"amount" json:"amount"`
	Status      BillingStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
