package models

import "time"

type Product struct {
	ProductID  string    `json:"productId" bson:"productId"`
	FarmerID   string    `json:"farmerId" bson:"farmerId"`
	FarmerName string    `json:"farmerName" bson:"farmerName"`
	Name       string    `json:"name" bson:"name"`
	Category   string    `json:"category,omitempty" bson:"category,omitempty"`
	Unit       string    `json:"unit,omitempty" bson:"unit,omitempty"`
	Price      float64   `json:"price" bson:"price"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	ImageURL   string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	OutOfStock bool      `json:"outOfStock" bson:"outOfStock"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}
