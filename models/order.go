package models

import "time"

type OrderStatus string

const (
	StatusOrderPlaced     OrderStatus = "Order Placed"
	StatusProcessing      OrderStatus = "Processing"
	StatusRiderDispatched OrderStatus = "Rider Dispatched to Farm"
	StatusProductsPicked  OrderStatus = "Products Picked Up"
	StatusOutForDelivery  OrderStatus = "Out for Delivery"
	StatusDelivered       OrderStatus = "Delivered"
	StatusCancelled       OrderStatus = "Cancelled"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Delivery methods carried in DeliveryInfo.
const (
	MethodDelivery = "Delivery"
	MethodPickup   = "Pickup"
)

// DeliveryInfo is the tagged shape every order is normalized to at write time.
// Legacy rows may still carry hub_name/hub_area instead of a resolvable hub id.
type DeliveryInfo struct {
	Method  string `json:"method" bson:"method"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	HubID   string `json:"hub_id,omitempty" bson:"hub_id,omitempty"`
	HubName string `json:"hub_name,omitempty" bson:"hub_name,omitempty"`
	HubArea string `json:"hub_area,omitempty" bson:"hub_area,omitempty"`
}

// Order is the header row: customer snapshot, total, and current status.
type Order struct {
	OrderID       string        `json:"orderId" bson:"orderId"`
	UserID        string        `json:"userId" bson:"userId"`
	CustomerName  string        `json:"customerName" bson:"customerName"`
	CustomerPhone string        `json:"customerPhone" bson:"customerPhone"`
	TotalAmount   float64       `json:"totalAmount" bson:"totalAmount"`
	Status        OrderStatus   `json:"status" bson:"status"`
	PaymentStatus string        `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	DeliveryInfo  *DeliveryInfo `json:"deliveryInfo,omitempty" bson:"deliveryInfo,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
}

// OrderItem is immutable once created; name and price snapshots decouple the
// order record from later catalog edits.
type OrderItem struct {
	OrderID    string  `json:"orderId" bson:"orderId"`
	ProductID  string  `json:"productId" bson:"productId"`
	Name       string  `json:"productName" bson:"productName"`
	FarmerName string  `json:"farmerName" bson:"farmerName"`
	Unit       string  `json:"unit,omitempty" bson:"unit,omitempty"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	Price      float64 `json:"price" bson:"price"`
}

// OrderStatusEvent is one row of the append-only status audit log.
type OrderStatusEvent struct {
	OrderID   string      `json:"orderId" bson:"orderId"`
	Status    OrderStatus `json:"status" bson:"status"`
	Notes     string      `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}

// OrderEvent is the payload published on the realtime channel whenever an
// order changes.
type OrderEvent struct {
	Type          string      `json:"type"` // "created", "status", "payment"
	OrderID       string      `json:"orderId"`
	Status        OrderStatus `json:"status,omitempty"`
	PaymentStatus string      `json:"paymentStatus,omitempty"`
	At            time.Time   `json:"at"`
}

// DeliveryDisplay is the resolved, render-ready destination descriptor.
type DeliveryDisplay struct {
	Type     string `json:"type"` // "Home Delivery", "Pickup", "Unknown"
	Icon     string `json:"icon"` // "home", "warehouse"
	Label    string `json:"label"`
	SubLabel string `json:"subLabel,omitempty"`
}

type IdempotencyRecord struct {
	Key         string                 `json:"key" bson:"key"`
	Method      string                 `json:"method" bson:"method"`
	Path        string                 `json:"path" bson:"path"`
	UserID      string                 `json:"user_id" bson:"user_id"`
	RequestHash string                 `json:"request_hash" bson:"request_hash"`
	Response    map[string]interface{} `json:"response,omitempty" bson:"response,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time              `json:"expires_at" bson:"expires_at"`
}
