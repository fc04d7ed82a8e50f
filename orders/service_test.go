package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agribridge/models"
	"agribridge/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is the in-memory Store used by workflow tests.
type fakeStore struct {
	orders  map[string]*models.Order
	items   map[string][]models.OrderItem
	history map[string][]models.OrderStatusEvent
	hubs    map[string]*models.PickupHub

	failInsertItems bool
	failDeleteOrder bool
	failHistory     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  make(map[string]*models.Order),
		items:   make(map[string][]models.OrderItem),
		history: make(map[string][]models.OrderStatusEvent),
		hubs:    make(map[string]*models.PickupHub),
	}
}

func (f *fakeStore) InsertOrder(_ context.Context, o *models.Order) error {
	cp := *o
	f.orders[o.OrderID] = &cp
	return nil
}

func (f *fakeStore) InsertItems(_ context.Context, items []models.OrderItem) error {
	if f.failInsertItems {
		return errors.New("items collection unavailable")
	}
	for _, it := range items {
		f.items[it.OrderID] = append(f.items[it.OrderID], it)
	}
	return nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, orderID string) error {
	if f.failDeleteOrder {
		return errors.New("delete failed")
	}
	delete(f.orders, orderID)
	return nil
}

func (f *fakeStore) DeleteOrderCascade(_ context.Context, orderID string) error {
	delete(f.orders, orderID)
	delete(f.items, orderID)
	delete(f.history, orderID)
	return nil
}

func (f *fakeStore) FindOrder(_ context.Context, orderID string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) FindItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeStore) FindHistory(_ context.Context, orderID string) ([]models.OrderStatusEvent, error) {
	return f.history[orderID], nil
}

func (f *fakeStore) ListOrders(_ context.Context, _ utils.QueryOptions) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) ListUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) SetStatus(_ context.Context, orderID string, status models.OrderStatus) error {
	o, ok := f.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeStore) SetPaymentStatus(_ context.Context, orderID, status string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (f *fakeStore) AppendStatusEvent(_ context.Context, ev models.OrderStatusEvent) error {
	if f.failHistory {
		return errors.New("history collection unavailable")
	}
	f.history[ev.OrderID] = append(f.history[ev.OrderID], ev)
	return nil
}

func (f *fakeStore) FindHub(_ context.Context, hubID string) (*models.PickupHub, error) {
	h, ok := f.hubs[hubID]
	if !ok {
		return nil, errors.New("hub not found")
	}
	return h, nil
}

type fakeCarts struct {
	lines     []models.CartItem
	cleared   bool
	failClear bool
}

func (f *fakeCarts) Items(_ context.Context, _ string) ([]models.CartItem, error) {
	return f.lines, nil
}

func (f *fakeCarts) Clear(_ context.Context, _ string) error {
	if f.failClear {
		return errors.New("clear failed")
	}
	f.cleared = true
	return nil
}

func testUser() *models.User {
	return &models.User{
		UserID:      "u1234567890",
		Username:    "ama",
		FullName:    "Ama Mensah",
		PhoneNumber: "+233501234567",
	}
}

func testCartLines() []models.CartItem {
	return []models.CartItem{
		{ProductID: "prdtomatoes1", Name: "Tomatoes", FarmerName: "Kwame", Unit: "basket", Quantity: 2, Price: 10},
		{ProductID: "prdyams00001", Name: "Yams", FarmerName: "Abena", Unit: "tuber", Quantity: 1, Price: 25},
	}
}

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 45.0, Subtotal(testCartLines()))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeCarts{}, nil, "+233500000000")

	_, err := svc.PlaceOrder(context.Background(), testUser(), PlacementInput{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.orders, "nothing may be written for an empty cart")
}

func TestPlaceOrderIncompleteProfile(t *testing.T) {
	store := newFakeStore()
	carts := &fakeCarts{lines: testCartLines()}
	svc := NewService(store, carts, nil, "+233500000000")

	user := testUser()
	user.PhoneNumber = ""

	_, err := svc.PlaceOrder(context.Background(), user, PlacementInput{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.orders)
	assert.False(t, carts.cleared, "cart must survive a rejected placement")
}

func TestPlaceOrderSuccess(t *testing.T) {
	store := newFakeStore()
	carts := &fakeCarts{lines: testCartLines()}

	var published []models.OrderEvent
	svc := NewService(store, carts, func(ev models.OrderEvent) {
		published = append(published, ev)
	}, "+233500000000")

	placed, err := svc.PlaceOrder(context.Background(), testUser(), PlacementInput{
		PaymentMethod: "cash",
		Delivery:      &models.DeliveryInfo{Method: models.MethodDelivery, Address: "12 Ring Road, Accra"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(placed.Order.OrderID, "ORD"))
	assert.Equal(t, 45.0, placed.Order.TotalAmount)
	assert.Equal(t, models.StatusOrderPlaced, placed.Order.Status)
	assert.Equal(t, models.PaymentUnpaid, placed.Order.PaymentStatus)
	assert.Equal(t, "Ama Mensah", placed.Order.CustomerName)

	// header, lines, and the initial history event were all written
	require.Contains(t, store.orders, placed.Order.OrderID)
	require.Len(t, store.items[placed.Order.OrderID], 2)
	require.Len(t, store.history[placed.Order.OrderID], 1)
	assert.Equal(t, models.StatusOrderPlaced, store.history[placed.Order.OrderID][0].Status)

	// line snapshots carry the cart's price and farmer attribution
	assert.Equal(t, "Tomatoes", store.items[placed.Order.OrderID][0].Name)
	assert.Equal(t, "Kwame", store.items[placed.Order.OrderID][0].FarmerName)

	assert.True(t, carts.cleared)
	require.Len(t, published, 1)
	assert.Equal(t, "created", published[0].Type)
	assert.Equal(t, placed.Order.OrderID, published[0].OrderID)

	assert.True(t, strings.HasPrefix(placed.WhatsAppURL, "https://wa.me/+233500000000?text="))
}

func TestPlaceOrderLineFailureCompensates(t *testing.T) {
	store := newFakeStore()
	store.failInsertItems = true
	carts := &fakeCarts{lines: testCartLines()}
	svc := NewService(store, carts, nil, "+233500000000")

	_, err := svc.PlaceOrder(context.Background(), testUser(), PlacementInput{})

	var le *OrderLineError
	require.ErrorAs(t, err, &le)
	assert.True(t, le.Compensated)
	assert.Empty(t, store.orders, "header must be deleted when line insert fails")
	assert.False(t, carts.cleared, "cart survives a failed placement")
}

func TestPlaceOrderCompensationFailureReported(t *testing.T) {
	store := newFakeStore()
	store.failInsertItems = true
	store.failDeleteOrder = true
	svc := NewService(store, &fakeCarts{lines: testCartLines()}, nil, "+233500000000")

	_, err := svc.PlaceOrder(context.Background(), testUser(), PlacementInput{})

	var le *OrderLineError
	require.ErrorAs(t, err, &le)
	assert.False(t, le.Compensated)
}

func TestPlaceOrderCartClearFailureDoesNotFailOrder(t *testing.T) {
	store := newFakeStore()
	carts := &fakeCarts{lines: testCartLines(), failClear: true}
	svc := NewService(store, carts, nil, "+233500000000")

	placed, err := svc.PlaceOrder(context.Background(), testUser(), PlacementInput{})
	require.NoError(t, err)
	assert.Contains(t, store.orders, placed.Order.OrderID)
}

func seedOrder(store *fakeStore, status models.OrderStatus) *models.Order {
	o := &models.Order{
		OrderID:       "ORDtest000001",
		UserID:        "u1234567890",
		Status:        status,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	store.orders[o.OrderID] = o
	return o
}

func TestUpdateStatusForward(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusOrderPlaced)

	var published []models.OrderEvent
	svc := NewService(store, &fakeCarts{}, func(ev models.OrderEvent) {
		published = append(published, ev)
	}, "")

	order, err := svc.UpdateStatus(context.Background(), "ORDtest000001", models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, models.StatusProcessing, store.orders["ORDtest000001"].Status)

	require.Len(t, store.history["ORDtest000001"], 1)
	assert.Equal(t, models.StatusProcessing, store.history["ORDtest000001"][0].Status)

	require.Len(t, published, 1)
	assert.Equal(t, "status", published[0].Type)
}

func TestUpdateStatusIllegalJump(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusOrderPlaced)
	svc := NewService(store, &fakeCarts{}, nil, "")

	_, err := svc.UpdateStatus(context.Background(), "ORDtest000001", models.StatusDelivered)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusOrderPlaced, te.From)
	assert.Equal(t, models.StatusDelivered, te.To)

	// nothing moved and nothing was logged
	assert.Equal(t, models.StatusOrderPlaced, store.orders["ORDtest000001"].Status)
	assert.Empty(t, store.history["ORDtest000001"])
}

func TestUpdateStatusTerminalOrder(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusDelivered)
	svc := NewService(store, &fakeCarts{}, nil, "")

	_, err := svc.UpdateStatus(context.Background(), "ORDtest000001", models.StatusCancelled)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusOrderPlaced)
	svc := NewService(store, &fakeCarts{}, nil, "")

	_, err := svc.UpdateStatus(context.Background(), "ORDtest000001", "Teleported")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeCarts{}, nil, "")
	_, err := svc.UpdateStatus(context.Background(), "ORDmissing", models.StatusProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusReassertAppendsHistoryWithoutPublish(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusProcessing)

	var published []models.OrderEvent
	svc := NewService(store, &fakeCarts{}, func(ev models.OrderEvent) {
		published = append(published, ev)
	}, "")

	order, err := svc.UpdateStatus(context.Background(), "ORDtest000001", models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)

	require.Len(t, store.history["ORDtest000001"], 1)
	assert.Empty(t, published, "re-asserting the current status publishes nothing")
}

func TestUpdateStatusHistoryFailureSurfaces(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusOrderPlaced)
	store.failHistory = true
	svc := NewService(store, &fakeCarts{}, nil, "")

	order, err := svc.UpdateStatus(context.Background(), "ORDtest000001", models.StatusProcessing)

	var he *HistoryError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "ORDtest000001", he.OrderID)
	assert.Equal(t, models.StatusProcessing, he.Status)

	// the header write stands even though the audit append failed
	require.NotNil(t, order)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, models.StatusProcessing, store.orders["ORDtest000001"].Status)
}

func TestSetPaymentStatus(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, models.StatusOrderPlaced)

	var published []models.OrderEvent
	svc := NewService(store, &fakeCarts{}, func(ev models.OrderEvent) {
		published = append(published, ev)
	}, "")

	require.NoError(t, svc.SetPaymentStatus(context.Background(), "ORDtest000001", models.PaymentPaid))
	assert.Equal(t, models.PaymentPaid, store.orders["ORDtest000001"].PaymentStatus)
	require.Len(t, published, 1)
	assert.Equal(t, "payment", published[0].Type)

	var ve *ValidationError
	err := svc.SetPaymentStatus(context.Background(), "ORDtest000001", "maybe")
	require.ErrorAs(t, err, &ve)
}

func TestDeleteOrderCascade(t *testing.T) {
	store := newFakeStore()
	o := seedOrder(store, models.StatusCancelled)
	store.items[o.OrderID] = []models.OrderItem{{OrderID: o.OrderID, Name: "Tomatoes"}}
	store.history[o.OrderID] = []models.OrderStatusEvent{{OrderID: o.OrderID, Status: models.StatusOrderPlaced}}
	svc := NewService(store, &fakeCarts{}, nil, "")

	require.NoError(t, svc.Delete(context.Background(), o.OrderID))
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
	assert.Empty(t, store.history)

	assert.ErrorIs(t, svc.Delete(context.Background(), o.OrderID), ErrOrderNotFound)
}

func TestGetOrderAssemblesView(t *testing.T) {
	store := newFakeStore()
	store.hubs["hubkaneshie"] = &models.PickupHub{HubID: "hubkaneshie", Name: "Kaneshie Hub", Area: "Kaneshie", Region: "Greater Accra"}

	o := seedOrder(store, models.StatusProcessing)
	o.DeliveryInfo = &models.DeliveryInfo{Method: models.MethodPickup, HubID: "hubkaneshie"}
	store.items[o.OrderID] = []models.OrderItem{{OrderID: o.OrderID, Name: "Tomatoes", Quantity: 2, Price: 10}}
	store.history[o.OrderID] = []models.OrderStatusEvent{
		{OrderID: o.OrderID, Status: models.StatusOrderPlaced},
		{OrderID: o.OrderID, Status: models.StatusProcessing},
	}

	svc := NewService(store, &fakeCarts{}, nil, "")

	view, err := svc.GetOrder(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, view.Order.Status)
	assert.Len(t, view.Items, 1)
	assert.Len(t, view.History, 2)
	assert.Equal(t, "Pickup", view.Delivery.Type)
	assert.Equal(t, "Kaneshie Hub (Kaneshie)", view.Delivery.Label)

	_, err = svc.GetOrder(context.Background(), "ORDmissing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
