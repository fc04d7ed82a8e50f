package hubs

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agribridge/db"
	"agribridge/models"
	"agribridge/rdx"
	"agribridge/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateHub registers a new pickup point. Admin only (enforced in routes).
func CreateHub(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var hub models.PickupHub
	if err := json.NewDecoder(r.Body).Decode(&hub); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if hub.Name == "" {
		http.Error(w, "Hub name is required", http.StatusBadRequest)
		return
	}

	hub.HubID = "hub" + utils.GenerateRandomString(8)
	hub.CreatedAt = time.Now()
	hub.UpdatedAt = hub.CreatedAt

	if _, err := db.HubsCollection.InsertOne(ctx, hub); err != nil {
		log.Println("CreateHub error:", err)
		http.Error(w, "Failed to create hub", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, hub)
}

// GetHubs lists all pickup points for checkout hub selection.
func GetHubs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.HubsCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("GetHubs error:", err)
		http.Error(w, "Could not retrieve hubs", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var hubs []models.PickupHub
	if err := cursor.All(ctx, &hubs); err != nil {
		http.Error(w, "Error reading hub data", http.StatusInternalServerError)
		return
	}
	if hubs == nil {
		hubs = []models.PickupHub{}
	}

	utils.RespondWithJSON(w, http.StatusOK, hubs)
}

func GetHub(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hubID := ps.ByName("hubid")

	if cached, err := rdx.RdxGet("hub:" + hubID); err == nil && cached != "" {
		var hub models.PickupHub
		if json.Unmarshal([]byte(cached), &hub) == nil {
			utils.RespondWithJSON(w, http.StatusOK, hub)
			return
		}
	}

	var hub models.PickupHub
	err := db.HubsCollection.FindOne(ctx, bson.M{"hubId": hubID}).Decode(&hub)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Hub not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve hub", http.StatusInternalServerError)
		return
	}

	if data, err := json.Marshal(hub); err == nil {
		if err := rdx.SetWithExpiry("hub:"+hubID, string(data), 10*time.Minute); err != nil {
			log.Println("hub cache write failed:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, hub)
}

func UpdateHub(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var payload models.PickupHub
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":      payload.Name,
		"area":      payload.Area,
		"region":    payload.Region,
		"address":   payload.Address,
		"updatedAt": time.Now(),
	}}

	res, err := db.HubsCollection.UpdateOne(ctx, bson.M{"hubId": ps.ByName("hubid")}, update)
	if err != nil {
		log.Println("UpdateHub error:", err)
		http.Error(w, "Failed to update hub", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Hub not found", http.StatusNotFound)
		return
	}

	if _, err := rdx.RdxDel("hub:" + ps.ByName("hubid")); err != nil {
		log.Println("hub cache invalidation failed:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteHub removes a hub. Orders referencing it keep working: delivery
// resolution falls back to "Unknown Hub" for dangling references.
func DeleteHub(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.HubsCollection.DeleteOne(ctx, bson.M{"hubId": ps.ByName("hubid")})
	if err != nil || res.DeletedCount == 0 {
		http.Error(w, "Delete failed", http.StatusInternalServerError)
		return
	}

	if _, err := rdx.RdxDel("hub:" + ps.ByName("hubid")); err != nil {
		log.Println("hub cache invalidation failed:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
