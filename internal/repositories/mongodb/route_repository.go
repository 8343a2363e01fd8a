package mongodb

import (
	"context"
	"fmt"
	"time"

	"bway/internal/models"
	"bway/internal/repositories/interfaces"
	"bway/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const activeRoutesCacheKey = "routes:active"

type routeRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRouteRepository(db *mongo.Database, cache services.CacheService) interfaces.RouteRepository {
	return &routeRepository{
		collection: db.Collection("routes"),
		cache:      cache,
	}
}

func (r *routeRepository) Create(ctx context.Context, route *models.Route) error {
	route.ID = primitive.NewObjectID()
	route.CreatedAt = time.Now()
	route.UpdatedAt = route.CreatedAt

	_, err := r.collection.InsertOne(ctx, route)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	r.invalidateActiveRoutes(ctx)
	return nil
}

func (r *routeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error) {
	var route models.Route
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: route %s", models.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	return &route, nil
}

func (r *routeRepository) GetActiveRoutes(ctx context.Context) ([]*models.Route, error) {
	// Active routes are scanned on every match, so they are worth caching.
	if r.cache != nil {
		var cached []*models.Route
		if err := r.cache.Get(ctx, activeRoutesCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.RouteStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to query active routes: %w", err)
	}
	defer cursor.Close(ctx)

	var routes []*models.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("failed to decode active routes: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, activeRoutesCacheKey, routes, 30*time.Second)
	}

	return routes, nil
}

func (r *routeRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}

	r.invalidateActiveRoutes(ctx)
	return nil
}

func (r *routeRepository) invalidateActiveRoutes(ctx context.Context) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, activeRoutesCacheKey)
	}
}
