package realtime

import (
	"context"
	"encoding/json"
	"log"

	"agribridge/models"
	"agribridge/rdx"
)

const orderEventsChannel = "order-events"

// PublishOrderEvent pushes an order change onto the Redis channel. Failures
// are logged and swallowed: the write that triggered the event has already
// committed and must not be rolled back by a notification problem.
func PublishOrderEvent(ev models.OrderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("order event marshal failed: %v", err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), orderEventsChannel, data).Err(); err != nil {
		log.Printf("order event publish failed: %v", err)
	}
}

// StartOrderEventBridge forwards published order events to websocket
// watchers. Runs until the process exits.
func (h *Hub) StartOrderEventBridge() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, orderEventsChannel)
	ch := sub.Channel()

	log.Println("order event bridge listening")

	for msg := range ch {
		var ev models.OrderEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("order event parse failed: %v", err)
			continue
		}
		h.Broadcast(ev.OrderID, []byte(msg.Payload))
	}
}
