package profile

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agribridge/db"
	"agribridge/models"
	"agribridge/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetMyProfile returns the authenticated user's own profile.
func GetMyProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profile models.ProfileResponse
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetMyProfile error:", err)
		http.Error(w, "Could not retrieve profile", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// EditProfile updates the contact fields checkout depends on.
func EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		FullName    string `json:"full_name"`
		PhoneNumber string `json:"phone_number"`
		Country     string `json:"country"`
		Address     string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if payload.FullName != "" {
		set["full_name"] = payload.FullName
	}
	if payload.PhoneNumber != "" {
		set["phone_number"] = payload.PhoneNumber
	}
	if payload.Country != "" {
		set["country"] = payload.Country
	}
	if payload.Address != "" {
		set["address"] = payload.Address
	}

	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": set})
	if err != nil {
		log.Println("EditProfile error:", err)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// ListFarmers is the admin view over farmer accounts and their verification
// state.
func ListFarmers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.UserCollection.Find(ctx, bson.M{"role": "farmer"})
	if err != nil {
		log.Println("ListFarmers error:", err)
		http.Error(w, "Could not retrieve farmers", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var farmers []models.User
	if err := cursor.All(ctx, &farmers); err != nil {
		http.Error(w, "Error reading farmer data", http.StatusInternalServerError)
		return
	}
	if farmers == nil {
		farmers = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, farmers)
}
