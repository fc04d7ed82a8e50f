package verification

import (
	"context"
	"log"
	"time"

	"agribridge/db"
	"agribridge/filemgr"
	"agribridge/models"
	"agribridge/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// MongoProfiles backs the workflow with the shared users collection.
type MongoProfiles struct{}

func (MongoProfiles) Find(ctx context.Context, farmerID string) (*models.User, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": farmerID, "role": "farmer"}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (MongoProfiles) SetDocuments(ctx context.Context, farmerID, frontURL, backURL, nationalID string) error {
	update := bson.M{"$set": bson.M{
		"id_card_front_url":   frontURL,
		"id_card_back_url":    backURL,
		"national_id":         nationalID,
		"is_verified":         false,
		"verification_status": models.VerificationUnderReview,
		"updated_at":          time.Now(),
	}}
	_, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": farmerID}, update)
	return err
}

func (MongoProfiles) Approve(ctx context.Context, farmerID string) error {
	update := bson.M{"$set": bson.M{
		"is_verified":         true,
		"verification_status": models.VerificationVerified,
		"updated_at":          time.Now(),
	}}
	_, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": farmerID}, update)
	return err
}

// DeleteAccount removes the account and its dependents in one privileged
// operation: the user row, any cart lines, any published products, and the
// cached session token.
func (MongoProfiles) DeleteAccount(ctx context.Context, farmerID string) error {
	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"userid": farmerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrFarmerNotFound
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": farmerID}); err != nil {
		log.Printf("cart cleanup for deleted farmer %s failed: %v", farmerID, err)
	}
	if _, err := db.ProductsCollection.DeleteMany(ctx, bson.M{"farmerId": farmerID}); err != nil {
		log.Printf("product cleanup for deleted farmer %s failed: %v", farmerID, err)
	}
	if _, err := rdx.RdxHdel("tokki", farmerID); err != nil {
		log.Printf("token cleanup for deleted farmer %s failed: %v", farmerID, err)
	}
	if _, err := rdx.RdxDel("users:" + farmerID); err != nil {
		log.Printf("username cache cleanup for deleted farmer %s failed: %v", farmerID, err)
	}
	return nil
}

// DiskDocs stores identity documents on the upload tree.
type DiskDocs struct{}

func (DiskDocs) RemoveAll(farmerID string) error {
	return filemgr.RemoveTree(filemgr.EntityVerification, farmerID)
}
