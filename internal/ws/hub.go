// Package ws streams cache updates to WebSocket subscribers. Clients get the
// full current state on connect and a fresh push after every collection pass.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
)

const (
	maxClients    = 100
	writeTimeout  = 10 * time.Second
	pongTimeout   = 60 * time.Second
	pingInterval  = 30 * time.Second
	sendBufferLen = 64
)

// Message is the envelope every push uses.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
	Time string `json:"time"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans cache updates out to connected clients. Slow clients are dropped
// rather than allowed to block a broadcast.
type Hub struct {
	cache *cache.SnapshotCache

	mu         sync.RWMutex
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	shutdown   chan struct{}
	upgrader   websocket.Upgrader
}

func NewHub(c *cache.SnapshotCache) *Hub {
	return &Hub{
		cache:      c,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		shutdown:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Start launches the hub loop.
func (h *Hub) Start() {
	go h.run()
}

// Shutdown closes every client connection and stops the hub loop.
func (h *Hub) Shutdown() {
	close(h.shutdown)

	h.mu.Lock()
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
	}
	h.clients = make(map[*client]bool)
	h.mu.Unlock()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.shutdown:
			return

		case c := <-h.register:
			h.mu.Lock()
			if len(h.clients) >= maxClients {
				h.mu.Unlock()
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server at capacity"))
				c.conn.Close()
				continue
			}
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client connected, total %d", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected, total %d", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// RunsCompleted pushes the refreshed cache state after a collection pass.
// Satisfies the scheduler's listener contract.
func (h *Hub) RunsCompleted(results []domain.RunResult) {
	h.publish(h.snapshotsMessage())
	h.publish(h.indexesMessage())
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal %s message: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Println("ws: broadcast buffer full, dropping message")
	}
}

func (h *Hub) snapshotsMessage() Message {
	return Message{
		Type: "snapshots",
		Data: h.cache.GetAll(),
		Time: time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *Hub) indexesMessage() Message {
	indexes := make(map[string]domain.IndexSnapshot)
	for _, name := range []string{domain.IndexFearGreed, domain.IndexAltcoinSeason} {
		if snap, ok := h.cache.GetIndex(name); ok {
			indexes[name] = snap
		}
	}
	return Message{
		Type: "indexes",
		Data: indexes,
		Time: time.Now().UTC().Format(time.RFC3339),
	}
}

// Handle upgrades an HTTP request and attaches the client to the hub.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	atCapacity := len(h.clients) >= maxClients
	h.mu.RUnlock()
	if atCapacity {
		http.Error(w, "server at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferLen)}

	// Seed the new client with current state before any broadcast reaches it.
	for _, msg := range []Message{h.snapshotsMessage(), h.indexesMessage()} {
		if data, err := json.Marshal(msg); err == nil {
			c.send <- data
		}
	}

	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read: %v", err)
			}
			return
		}
	}
}
