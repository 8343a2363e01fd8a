package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the ordering party (a hospital account in this system). Only the
// fields the workers read are modeled here; account management lives in the
// main API service.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Role            string             `bson:"role" json:"role"`
	DeliveryAddress string             `bson:"delivery_Address,omitempty" json:"deliveryAddress,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
