package orders

import (
	"context"

	"agribridge/db"
	"agribridge/models"
	"agribridge/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists the workflow against the shared collections in db.
type MongoStore struct{}

func NewMongoStore() *MongoStore { return &MongoStore{} }

func (m *MongoStore) InsertOrder(ctx context.Context, o *models.Order) error {
	_, err := db.OrderCollection.InsertOne(ctx, o)
	return err
}

func (m *MongoStore) InsertItems(ctx context.Context, items []models.OrderItem) error {
	docs := make([]interface{}, 0, len(items))
	for _, it := range items {
		docs = append(docs, it)
	}
	_, err := db.OrderItemsCollection.InsertMany(ctx, docs)
	return err
}

func (m *MongoStore) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := db.OrderCollection.DeleteOne(ctx, bson.M{"orderId": orderID})
	return err
}

// DeleteOrderCascade removes the header plus its lines and history, replacing
// the privileged server-side delete of the original system.
func (m *MongoStore) DeleteOrderCascade(ctx context.Context, orderID string) error {
	if _, err := db.OrderItemsCollection.DeleteMany(ctx, bson.M{"orderId": orderID}); err != nil {
		return err
	}
	if _, err := db.OrderStatusCollection.DeleteMany(ctx, bson.M{"orderId": orderID}); err != nil {
		return err
	}
	_, err := db.OrderCollection.DeleteOne(ctx, bson.M{"orderId": orderID})
	return err
}

func (m *MongoStore) FindOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoStore) FindItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return items, nil
}

func (m *MongoStore) FindHistory(ctx context.Context, orderID string) ([]models.OrderStatusEvent, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := db.OrderStatusCollection.Find(ctx, bson.M{"orderId": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.OrderStatusEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.OrderStatusEvent{}
	}
	return events, nil
}

func (m *MongoStore) ListOrders(ctx context.Context, q utils.QueryOptions) ([]models.Order, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Search != "" {
		filter["$or"] = []bson.M{
			{"orderId": bson.M{"$regex": q.Search, "$options": "i"}},
			{"customerName": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

func (m *MongoStore) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

func (m *MongoStore) SetStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *MongoStore) SetPaymentStatus(ctx context.Context, orderID, status string) error {
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"paymentStatus": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *MongoStore) AppendStatusEvent(ctx context.Context, ev models.OrderStatusEvent) error {
	_, err := db.OrderStatusCollection.InsertOne(ctx, ev)
	return err
}

func (m *MongoStore) FindHub(ctx context.Context, hubID string) (*models.PickupHub, error) {
	var hub models.PickupHub
	if err := db.HubsCollection.FindOne(ctx, bson.M{"hubId": hubID}).Decode(&hub); err != nil {
		return nil, err
	}
	return &hub, nil
}
