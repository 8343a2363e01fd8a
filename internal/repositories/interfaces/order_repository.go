package interfaces

import (
	"context"

	"bway/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// AssignRoute sets the route reference and moves the order to Scheduled
	// in a single write.
	AssignRoute(ctx context.Context, id, routeID primitive.ObjectID) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}
