package realtime

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins - adjust for production if needed
		return true
	},
}

// Client is one watching connection, keyed by the order it tracks.
type Client struct {
	Key  string
	Send chan []byte
}

// Hub fans order events out to every client watching that order. Lifecycle is
// explicit: register on connect, unregister on disconnect, slow clients are
// dropped rather than blocking the broadcast.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.Key] == nil {
		h.rooms[c.Key] = make(map[*Client]bool)
	}
	h.rooms[c.Key][c] = true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[c.Key]; ok {
		if clients[c] {
			delete(clients, c)
			close(c.Send)
		}
		if len(clients) == 0 {
			delete(h.rooms, c.Key)
		}
	}
}

func (h *Hub) Broadcast(key string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[key] {
		select {
		case c.Send <- data:
		default:
			// client can't keep up; drop it
			delete(h.rooms[key], c)
			close(c.Send)
		}
	}
}

// Stop closes every client channel and empties the rooms. Called once on
// server shutdown.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, clients := range h.rooms {
		for c := range clients {
			close(c.Send)
		}
		delete(h.rooms, key)
	}
}

// Watchers reports how many clients track a key.
func (h *Hub) Watchers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[key])
}

// HandleWS upgrades the connection and keeps it registered until the client
// goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	client := &Client{Key: orderID, Send: make(chan []byte, 16)}
	h.Register(client)

	go func() {
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		conn.Close()
	}()

	for {
		// keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.Unregister(client)
	conn.Close()
	log.Printf("order watcher left %s", orderID)
}
