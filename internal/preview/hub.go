package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/markview/pkg/hast"
)

// client is one WebSocket connection and its session.
type client struct {
	conn    *websocket.Conn
	session *Session
	mu      sync.Mutex // serializes session use and writes
}

func (c *client) handle(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(c.session.Handle(ctx, data))
}

func (c *client) replace(ctx context.Context, root *hast.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(c.session.Replace(ctx, root))
}

func (c *client) write(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages the WebSocket connections of a preview server.
type Hub struct {
	clients    map[*client]bool
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	newSession func() *Session
	logger     *slog.Logger
	gauge      prometheus.Gauge

	// current, if set, returns the document sent to new connections.
	current func() *hast.Node
}

// NewHub creates a hub that gives every connection a session from
// newSession. gauge, if non-nil, tracks the number of connections.
func NewHub(newSession func() *Session, logger *slog.Logger, gauge prometheus.Gauge) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		newSession: newSession,
		logger:     logger,
		gauge:      gauge,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local preview tool
			},
		},
	}
}

// HandleWebSocket upgrades the connection and serves it until the client
// disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, session: h.newSession()}
	h.add(c)
	defer h.remove(c)

	if h.current != nil {
		if root := h.current(); root != nil {
			if err := c.replace(req.Context(), root); err != nil {
				return
			}
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := c.handle(req.Context(), data); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			break
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.Inc()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if !ok {
		return
	}
	if h.gauge != nil {
		h.gauge.Dec()
	}
	c.conn.Close()
}

// Broadcast renders root in every connection's session and sends the result.
func (h *Hub) Broadcast(ctx context.Context, root *hast.Node) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.replace(ctx, root); err != nil {
			h.remove(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
}
