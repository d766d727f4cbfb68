package messaging

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/logging"
)

const (
	EventNew  = "enquiry_new"
	EventRead = "enquiry_read"
)

// DefaultWriteTimeout bounds one event write to one connection.
const DefaultWriteTimeout = 5 * time.Second

// Event is one frame on an owner's feed.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans enquiry events out to the websocket connections of each owner.
type Hub struct {
	// WriteTimeout is the deadline for each write; a connection that misses it is dropped.
	WriteTimeout time.Duration

	mu       sync.Mutex
	feeds    map[string]map[*websocket.Conn]*feed
	upgrader websocket.Upgrader
}

// feed serializes writes to one connection; websocket.Conn allows one writer at a time.
type feed struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		WriteTimeout: DefaultWriteTimeout,
		feeds:        make(map[string]map[*websocket.Conn]*feed),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) register(ownerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.feeds[ownerID]
	if !ok {
		conns = make(map[*websocket.Conn]*feed)
		h.feeds[ownerID] = conns
	}
	conns[conn] = &feed{conn: conn}
}

func (h *Hub) unregister(ownerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.feeds[ownerID]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.feeds, ownerID)
	}
}

// Subscribers reports how many connections ownerID has open.
func (h *Hub) Subscribers(ownerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.feeds[ownerID])
}

// Publish writes evt to every connection of ownerID. The hub lock is only held
// to snapshot the connections; a write that fails or misses WriteTimeout drops
// and closes that connection.
func (h *Hub) Publish(ownerID string, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.Lock()
	targets := make([]*feed, 0, len(h.feeds[ownerID]))
	for _, f := range h.feeds[ownerID] {
		targets = append(targets, f)
	}
	h.mu.Unlock()

	for _, f := range targets {
		if err := h.write(f, payload); err != nil {
			h.unregister(ownerID, f.conn)
			_ = f.conn.Close()
		}
	}
}

func (h *Hub) write(f *feed, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h.WriteTimeout > 0 {
		if err := f.conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout)); err != nil {
			return err
		}
	}
	return f.conn.WriteMessage(websocket.TextMessage, payload)
}

// Serve upgrades the request and keeps ownerID subscribed until the client goes away.
// The feed is server push only; inbound frames are discarded.
func (h *Hub) Serve(c echo.Context, ownerID string) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	log := logging.FromContext(c.Request().Context())

	h.register(ownerID, conn)
	log.Debug("feed connected", "owner_id", ownerID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(ownerID, conn)
			_ = conn.Close()
			log.Debug("feed disconnected", "owner_id", ownerID)
			return nil
		}
	}
}
