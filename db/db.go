package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	CartCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	OrderItemsCollection  *mongo.Collection
	OrderStatusCollection *mongo.Collection
	HubsCollection        *mongo.Collection
	ProductsCollection    *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("agridb").Collection("users")
	CartCollection = Client.Database("agridb").Collection("cart_items")
	OrderCollection = Client.Database("agridb").Collection("orders")
	OrderItemsCollection = Client.Database("agridb").Collection("order_items")
	OrderStatusCollection = Client.Database("agridb").Collection("order_status_history")
	HubsCollection = Client.Database("agridb").Collection("pickup_hubs")
	ProductsCollection = Client.Database("agridb").Collection("products")
	IdempotencyCollection = Client.Database("agridb").Collection("idempotency")
}
