package interfaces

import (
	"context"

	"bway/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RouteRepository interface {
	Create(ctx context.Context, route *models.Route) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error)
	GetActiveRoutes(ctx context.Context) ([]*models.Route, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}
