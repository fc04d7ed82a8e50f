package models

import "time"

// CartItem represents a single line in the user's cart. Price and names are
// snapshotted at add time so the cart survives later catalog edits.
type CartItem struct {
	UserID     string    `json:"userId" bson:"userId"`
	ProductID  string    `json:"productId" bson:"productId"`
	Name       string    `json:"name" bson:"name"`
	FarmerName string    `json:"farmerName,omitempty" bson:"farmerName,omitempty"`
	Unit       string    `json:"unit,omitempty" bson:"unit,omitempty"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	Price      float64   `json:"price" bson:"price"` // unit price
	AddedAt    time.Time `json:"addedAt" bson:"addedAt"`
}
