package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HubConfig holds WebSocket connection settings
type HubConfig struct {
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	SendBufferSize  int
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultHubConfig returns default WebSocket settings
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		SendBufferSize:  16,
		AllowedOrigins:  []string{"*"},
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
}

// Message is the envelope pushed to clients
type Message struct {
	Type  string                 `json:"type"`
	Board *usecase.BoardSnapshot `json:"board"`
}

// Hub pushes board snapshots to every connected WebSocket client
type Hub struct {
	board    usecase.TimezoneListService
	logger   domain.Logger
	config   HubConfig
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	running bool
	done    chan struct{}
}

type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
	closeOnce sync.Once
}

// NewHub creates a hub for board
func NewHub(board usecase.TimezoneListService, config HubConfig, logger domain.Logger) *Hub {
	if config.SendBufferSize <= 0 {
		config.SendBufferSize = 16
	}
	h := &Hub{
		board:   board,
		logger:  logger,
		config:  config,
		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

var _ usecase.ClientCounter = (*Hub)(nil)

// Start subscribes to the board and forwards snapshots to clients until ctx
// is cancelled. The subscription is in place when Start returns. Start on a
// running hub is a no-op; a stopped hub accepts clients again once restarted.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	select {
	case <-h.done:
		h.done = make(chan struct{})
	default:
	}
	h.running = true
	h.closed = false
	done := h.done
	h.mu.Unlock()

	updates, cancel := h.board.Subscribe()
	go func() {
		h.run(ctx, updates)
		cancel()

		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		close(done)
	}()
}

// Done is closed once the hub started last has stopped
func (h *Hub) Done() <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.done
}

func (h *Hub) run(ctx context.Context, updates <-chan *usecase.BoardSnapshot) {
	h.logger.Debug(ctx, "WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Debug(ctx, "WebSocket hub stopped")
			return
		case snap, ok := <-updates:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast(ctx, snap)
		}
	}
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "Failed to upgrade WebSocket connection", domain.ErrorField(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.config.SendBufferSize),
		hub:  h,
	}

	if err := h.register(c); err != nil {
		h.logger.Warn(r.Context(), "Rejected WebSocket connection", domain.ErrorField(err))
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()

	h.logger.Debug(r.Context(), "WebSocket connection established",
		domain.NewField("connection_id", c.id),
		domain.NewField("clients", h.ClientCount()))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// register queues the current snapshot and adds c. Holding the write lock
// keeps broadcasts of later versions behind the initial snapshot.
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return domain.ErrInvalidState("hub", "closed", "register")
	}
	initial, err := encodeSnapshot(h.board.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	c.send <- initial
	h.clients[c] = struct{}{}
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.closeOnce.Do(func() { close(c.send) })
	}
}

func (h *Hub) broadcast(ctx context.Context, snap *usecase.BoardSnapshot) {
	data, err := encodeSnapshot(snap)
	if err != nil {
		h.logger.Error(ctx, "Failed to encode snapshot", domain.ErrorField(err))
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn(ctx, "WebSocket send buffer full, closing connection",
			domain.NewField("connection_id", c.id))
		h.unregister(c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	// Same-origin requests are always accepted
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

func encodeSnapshot(snap *usecase.BoardSnapshot) ([]byte, error) {
	return json.Marshal(Message{Type: "snapshot", Board: snap})
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.unregister(c)
				return
			}
		}
	}
}

// readPump only services control frames; client messages are ignored
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.config.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug(context.Background(), "WebSocket closed unexpectedly",
					domain.NewField("connection_id", c.id), domain.ErrorField(err))
			}
			return
		}
	}
}
