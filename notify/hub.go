package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/my-order-link/restaurant-app/utils"
)

// Hub fans staff events out to every open tab. Delivery is best effort and
// unordered: a tab that is not connected when an event fires simply catches
// up on its next poll tick.
type Hub struct {
	mu          sync.Mutex
	conns       map[*websocket.Conn]struct{}
	subscribers map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns:       make(map[*websocket.Conn]struct{}),
		subscribers: make(map[chan Event]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades a staff tab's connection and keeps it registered until
// the peer goes away.
func (h *Hub) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.register(conn)

	go func() {
		defer h.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	conn.Close()
}

// Subscribe registers an in-process consumer (a screen controller running in
// the same process). The returned cancel func must be called when done.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// PublishShutdown broadcasts the system shutdown request.
func (h *Hub) PublishShutdown() {
	h.broadcast(Event{Kind: EventSystemShutdown})
}

// PublishCheckout broadcasts a completed table checkout.
func (h *Hub) PublishCheckout(tableID uint) {
	h.broadcast(Event{
		Kind: EventTableCheckedOut,
		Data: &CheckoutNotice{TableID: tableID, Timestamp: time.Now()},
	})
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			// slow subscriber, it reconciles on its next poll
		}
	}

	if len(h.conns) == 0 {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		utils.ErrorLogger.Printf("error marshaling event: %v", err)
		return
	}

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("error sending event to tab: %v", err)
		}
	}
}
