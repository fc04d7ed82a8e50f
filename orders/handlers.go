package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"agribridge/db"
	"agribridge/metrics"
	"agribridge/models"
	"agribridge/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// PlaceOrder handles checkout: the cart is read server-side, the body only
// carries payment method and delivery choice.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ok := false
	defer func() { metrics.RecordOrderOperation("place", ok) }()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		PaymentMethod string          `json:"paymentMethod"`
		DeliveryInfo  json.RawMessage `json:"deliveryInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("PlaceOrder decode error:", err)
		http.Error(w, "Invalid order payload", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		http.Error(w, "Profile not found", http.StatusUnauthorized)
		return
	}

	placement, err := h.svc.PlaceOrder(ctx, &user, PlacementInput{
		PaymentMethod: payload.PaymentMethod,
		Delivery:      ParseDeliveryInfo(payload.DeliveryInfo),
	})
	if err != nil {
		respondOrderError(w, err)
		return
	}

	ok = true
	utils.RespondWithJSON(w, http.StatusCreated, placement)
}

// GetOrders is the admin list view.
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.svc.ListOrders(ctx, utils.ParseQueryOptions(r))
	if err != nil {
		log.Println("GetOrders error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}

	type row struct {
		models.Order
		Delivery models.DeliveryDisplay `json:"delivery"`
	}
	rows := make([]row, 0, len(list))
	for i := range list {
		rows = append(rows, row{
			Order:    list[i],
			Delivery: h.svc.ResolveDelivery(ctx, &list[i]),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.svc.ListUserOrders(ctx, userID)
	if err != nil {
		log.Println("GetMyOrders error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetOrder returns the full order view to its owner or an admin.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	view, err := h.svc.GetOrder(ctx, ps.ByName("id"))
	if err != nil {
		respondOrderError(w, err)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if view.Order.UserID != userID && !slices.Contains(utils.GetRolesFromRequest(r), "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

// UpdateStatus applies one admin transition.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ok := false
	defer func() { metrics.RecordOrderOperation("status", ok) }()

	var payload struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := h.svc.UpdateStatus(ctx, ps.ByName("id"), payload.Status)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	ok = true
	utils.RespondWithJSON(w, http.StatusOK, order)
}

func (h *Handlers) UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetPaymentStatus(ctx, ps.ByName("id"), payload.PaymentStatus); err != nil {
		respondOrderError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ok := false
	defer func() { metrics.RecordOrderOperation("delete", ok) }()

	if err := h.svc.Delete(ctx, ps.ByName("id")); err != nil {
		respondOrderError(w, err)
		return
	}

	ok = true
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// respondOrderError maps workflow errors onto HTTP statuses.
func respondOrderError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	var tErr *TransitionError
	var hErr *HistoryError
	var cErr *OrderCreationError
	var lErr *OrderLineError

	switch {
	case errors.Is(err, ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
	case errors.As(err, &vErr):
		utils.RespondWithError(w, http.StatusBadRequest, vErr.Reason)
	case errors.As(err, &tErr):
		utils.RespondWithError(w, http.StatusConflict, tErr.Error())
	case errors.As(err, &hErr):
		log.Println("order/history divergence:", hErr)
		utils.RespondWithError(w, http.StatusInternalServerError,
			"Status updated but history log failed; order history is out of sync")
	case errors.As(err, &cErr):
		log.Println("order creation failed:", cErr)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
	case errors.As(err, &lErr):
		log.Println("order line insert failed:", lErr, "compensated:", lErr.Compensated)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save order items")
	default:
		log.Println("order operation failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order operation failed")
	}
}
