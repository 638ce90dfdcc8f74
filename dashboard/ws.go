package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/monitor"
)

const (
	writeWait   = 10 * time.Second
	backlogSize = 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served to a local browser
	},
}

// WSMessage is the envelope for every websocket frame.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub tracks websocket clients and fans messages out to them.
type Hub struct {
	log         zerolog.Logger
	clients     map[*websocket.Conn]bool
	clientMutex map[*websocket.Conn]*sync.Mutex
	mu          sync.RWMutex

	// backlog, when set, supplies the items sent to a new client.
	backlog func(limit int) []monitor.Item
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:         log,
		clients:     make(map[*websocket.Conn]bool),
		clientMutex: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run forwards polled news to every client until ctx is done or items
// is closed.
func (h *Hub) Run(ctx context.Context, items <-chan monitor.Item) {
	for {
		select {
		case <-ctx.Done():
			return
		case it, ok := <-items:
			if !ok {
				return
			}
			h.Broadcast(WSMessage{Type: "news", Payload: it})
		}
	}
}

// HandleWebSocket upgrades the connection, sends the recent backlog and
// then reads until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	mutex := &sync.Mutex{}
	if h.backlog != nil {
		for _, it := range h.backlog(backlogSize) {
			if err := h.send(conn, mutex, WSMessage{Type: "news", Payload: it}); err != nil {
				h.log.Debug().Err(err).Msg("Failed to send backlog")
				conn.Close()
				return
			}
		}
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = mutex
	total := len(h.clients)
	h.mu.Unlock()

	h.log.Info().Int("clients", total).Msg("WebSocket client connected")

	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	delete(h.clientMutex, conn)
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		conn.Close()
		h.log.Info().Int("clients", total).Msg("WebSocket client disconnected")
	}
}

// Broadcast sends msg to every connected client. Clients that fail the
// write are dropped.
func (h *Hub) Broadcast(msg WSMessage) {
	h.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c := range h.clients {
		conns[c] = h.clientMutex[c]
	}
	h.mu.RUnlock()

	for conn, mutex := range conns {
		if err := h.send(conn, mutex, msg); err != nil {
			h.log.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send websocket message")
			h.remove(conn)
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, mutex *sync.Mutex, msg WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	mutex.Lock()
	defer mutex.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.clients
	h.clients = make(map[*websocket.Conn]bool)
	h.clientMutex = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()

	for conn := range conns {
		conn.Close()
	}
}
