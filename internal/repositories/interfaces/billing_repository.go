package interfaces

import (
	"context"

	"bway/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillingRepository interface {
	Create(ctx context.Context, billing *models.Billing) error
	FindByOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Billing, error)
}
