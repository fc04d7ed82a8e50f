package products

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"strconv"
	"time"

	"agribridge/db"
	"agribridge/filemgr"
	"agribridge/models"
	"agribridge/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateProduct publishes a produce listing. Only verified farmers may list;
// the verification workflow is the gate.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var farmer models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID, "role": "farmer"}).Decode(&farmer)
	if err != nil {
		http.Error(w, "Farmer profile not found", http.StatusForbidden)
		return
	}
	if !farmer.IsVerified {
		http.Error(w, "Verification required before listing products", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))

	product := models.Product{
		ProductID:  "prd" + utils.GenerateRandomString(10),
		FarmerID:   farmer.UserID,
		FarmerName: farmer.FullName,
		Name:       r.FormValue("name"),
		Category:   r.FormValue("category"),
		Unit:       r.FormValue("unit"),
		Price:      price,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if product.Name == "" || product.Price <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	// Image is optional, but a broken upload blocks the save.
	imageURL, err := filemgr.SaveFormFile(r, "image", filemgr.EntityProduct, filemgr.FilePhoto, product.ProductID)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		log.Println("product image upload failed:", err)
		http.Error(w, "Image upload failed", http.StatusInternalServerError)
		return
	}
	product.ImageURL = imageURL

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if farmer := r.URL.Query().Get("farmer"); farmer != "" {
		filter["farmerId"] = farmer
	}

	// out-of-stock listings stay visible only to their owner and admins
	userID := utils.GetUserIDFromRequest(r)
	if !slices.Contains(utils.GetRolesFromRequest(r), "admin") {
		hidden := bson.M{"outOfStock": bson.M{"$ne": true}}
		if userID != "" {
			filter["$or"] = []bson.M{hidden, {"farmerId": userID}}
		} else {
			filter["outOfStock"] = bson.M{"$ne": true}
		}
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter)
	if err != nil {
		log.Println("GetProducts error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading product data", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": ps.ByName("productid")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a listing. Owner or admin.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	productID := ps.ByName("productid")

	var product models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if product.FarmerID != userID && !slices.Contains(utils.GetRolesFromRequest(r), "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if _, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productId": productID}); err != nil {
		http.Error(w, "Delete failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
