package orders

import (
	"context"
	"log"
	"time"

	"agribridge/models"
	"agribridge/utils"
)

// Store is the persistence surface the workflow runs against. The production
// implementation lives in store.go; tests substitute an in-memory one.
type Store interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	InsertItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, orderID string) error
	DeleteOrderCascade(ctx context.Context, orderID string) error
	FindOrder(ctx context.Context, orderID string) (*models.Order, error)
	FindItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	FindHistory(ctx context.Context, orderID string) ([]models.OrderStatusEvent, error)
	ListOrders(ctx context.Context, opts utils.QueryOptions) ([]models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	SetStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	SetPaymentStatus(ctx context.Context, orderID, status string) error
	AppendStatusEvent(ctx context.Context, ev models.OrderStatusEvent) error
	FindHub(ctx context.Context, hubID string) (*models.PickupHub, error)
}

// Carts is the slice of the cart store placement needs.
type Carts interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

// Publisher fans an order event out to watching clients.
type Publisher func(ev models.OrderEvent)

type Service struct {
	store    Store
	carts    Carts
	publish  Publisher
	waNumber string
}

func NewService(store Store, carts Carts, publish Publisher, waNumber string) *Service {
	if publish == nil {
		publish = func(models.OrderEvent) {}
	}
	return &Service{store: store, carts: carts, publish: publish, waNumber: waNumber}
}

// PlacementInput carries the checkout form fields.
type PlacementInput struct {
	PaymentMethod string
	Delivery      *models.DeliveryInfo
}

// Placement is the result of a successful checkout.
type Placement struct {
	Order       *models.Order      `json:"order"`
	Items       []models.OrderItem `json:"items"`
	WhatsAppURL string             `json:"whatsappUrl"`
}

// Subtotal computes the cart total from unit-price snapshots.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// PlaceOrder runs the checkout saga: validate, insert header, insert lines
// (compensating with a header delete on failure), append the initial status
// event, clear the cart, publish, and build the WhatsApp handoff link.
// Either the header and all lines exist afterwards, or none of them do.
func (s *Service) PlaceOrder(ctx context.Context, user *models.User, in PlacementInput) (*Placement, error) {
	lines, err := s.carts.Items(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if user.FullName == "" || user.PhoneNumber == "" {
		return nil, ErrIncompleteProfile
	}

	order := &models.Order{
		OrderID:       "ORD" + utils.GenerateRandomString(10),
		UserID:        user.UserID,
		CustomerName:  user.FullName,
		CustomerPhone: user.PhoneNumber,
		TotalAmount:   Subtotal(lines),
		Status:        models.StatusOrderPlaced,
		PaymentStatus: models.PaymentUnpaid,
		PaymentMethod: in.PaymentMethod,
		DeliveryInfo:  in.Delivery,
		CreatedAt:     time.Now(),
	}

	if err := s.store.InsertOrder(ctx, order); err != nil {
		return nil, &OrderCreationError{Err: err}
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			OrderID:    order.OrderID,
			ProductID:  l.ProductID,
			Name:       l.Name,
			FarmerName: l.FarmerName,
			Unit:       l.Unit,
			Quantity:   l.Quantity,
			Price:      l.Price,
		})
	}

	if err := s.store.InsertItems(ctx, items); err != nil {
		lineErr := &OrderLineError{Err: err, Compensated: true}
		if delErr := s.store.DeleteOrder(ctx, order.OrderID); delErr != nil {
			log.Printf("compensating delete failed for order %s: %v", order.OrderID, delErr)
			lineErr.Compensated = false
		}
		return nil, lineErr
	}

	ev := models.OrderStatusEvent{
		OrderID:   order.OrderID,
		Status:    models.StatusOrderPlaced,
		Notes:     "Order placed.",
		CreatedAt: time.Now(),
	}
	if err := s.store.AppendStatusEvent(ctx, ev); err != nil {
		log.Printf("initial status event for order %s not recorded: %v", order.OrderID, err)
	}

	if err := s.carts.Clear(ctx, user.UserID); err != nil {
		log.Printf("cart cleanup after order %s failed: %v", order.OrderID, err)
	}

	s.publish(models.OrderEvent{
		Type:    "created",
		OrderID: order.OrderID,
		Status:  order.Status,
		At:      time.Now(),
	})

	return &Placement{
		Order:       order,
		Items:       items,
		WhatsAppURL: BuildWhatsAppLink(s.waNumber, order, items),
	}, nil
}

// UpdateStatus applies one admin-driven transition: validate against the
// transition table, write the header, append the audit event, publish.
// Re-asserting the current status leaves the order unchanged but still
// appends a history event.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) (*models.Order, error) {
	if !IsValidStatus(newStatus) {
		return nil, &ValidationError{Reason: "unknown status " + string(newStatus)}
	}

	order, err := s.store.FindOrder(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if !CanTransition(order.Status, newStatus) {
		return nil, &TransitionError{From: order.Status, To: newStatus}
	}

	changed := order.Status != newStatus
	if changed {
		if err := s.store.SetStatus(ctx, orderID, newStatus); err != nil {
			return nil, err
		}
		order.Status = newStatus
	}

	ev := models.OrderStatusEvent{
		OrderID:   orderID,
		Status:    newStatus,
		Notes:     `Status updated to "` + string(newStatus) + `" by admin.`,
		CreatedAt: time.Now(),
	}
	if err := s.store.AppendStatusEvent(ctx, ev); err != nil {
		// The header already moved; the divergence must reach the admin.
		return order, &HistoryError{OrderID: orderID, Status: newStatus, Err: err}
	}

	if changed {
		s.publish(models.OrderEvent{
			Type:    "status",
			OrderID: orderID,
			Status:  newStatus,
			At:      time.Now(),
		})
	}

	return order, nil
}

// SetPaymentStatus flips the payment flag between unpaid and paid.
func (s *Service) SetPaymentStatus(ctx context.Context, orderID, status string) error {
	if status != models.PaymentUnpaid && status != models.PaymentPaid {
		return &ValidationError{Reason: "unknown payment status " + status}
	}
	if _, err := s.store.FindOrder(ctx, orderID); err != nil {
		return ErrOrderNotFound
	}
	if err := s.store.SetPaymentStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.publish(models.OrderEvent{
		Type:          "payment",
		OrderID:       orderID,
		PaymentStatus: status,
		At:            time.Now(),
	})
	return nil
}

// Delete removes an order with its lines and history in one privileged call.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if _, err := s.store.FindOrder(ctx, orderID); err != nil {
		return ErrOrderNotFound
	}
	return s.store.DeleteOrderCascade(ctx, orderID)
}

// OrderView is the assembled read model: header, lines, audit log, and the
// resolved delivery descriptor.
type OrderView struct {
	Order    models.Order              `json:"order"`
	Items    []models.OrderItem        `json:"items"`
	History  []models.OrderStatusEvent `json:"history"`
	Delivery models.DeliveryDisplay    `json:"delivery"`
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	order, err := s.store.FindOrder(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.store.FindItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.FindHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderView{
		Order:    *order,
		Items:    items,
		History:  history,
		Delivery: s.ResolveDelivery(ctx, order),
	}, nil
}

// ResolveDelivery resolves the destination descriptor for one order.
func (s *Service) ResolveDelivery(ctx context.Context, order *models.Order) models.DeliveryDisplay {
	return ResolveDeliveryDisplay(order.DeliveryInfo, func(hubID string) (*models.PickupHub, error) {
		return s.store.FindHub(ctx, hubID)
	})
}

func (s *Service) ListOrders(ctx context.Context, opts utils.QueryOptions) ([]models.Order, error) {
	return s.store.ListOrders(ctx, opts)
}

func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}
