package mongodb

import (
	"context"
	"fmt"
	"time"

	"bway/internal/models"
	"bway/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type billingRepository struct {
	collection *mongo.Collection
}

func NewBillingRepository(db *mongo.Database) interfaces.BillingRepository {
	return &billingRepository{
		collection: db.Collection("billings"),
	}
}

func (r *billingRepository) Create(ctx context.Context, billing *models.Billing) error {
	billing.ID = primitive.NewObjectID()
	billing.CreatedAt = time.Now()
	billing.UpdatedAt = billing.CreatedAt

	_, err := r.collection.InsertOne(ctx, billing)
	if err != nil {
		return fmt.Errorf("failed to create billing record: %w", err)
	}

	return nil
}

func (r *billingRepository) FindByOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Billing, error) {
	var billing models.Billing
	err := r.collection.FindOne(ctx, bson.M{"order": orderID}).Decode(&billing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: billing for order %s", models.ErrNotFound, orderID.Hex())
		}
		return nil, fmt.Errorf("failed to find billing record: %w", err)
	}

	return &billing, nil
}
