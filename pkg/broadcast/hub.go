// Package broadcast pushes dashboard views to browsers over WebSocket.
package broadcast

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sguter90/sensordash/pkg/dashboard"
	"github.com/sguter90/sensordash/pkg/telemetry"
)

const writeTimeout = 10 * time.Second

// client serializes writes to one connection
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v dashboard.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub is a dashboard.Sink that sends every published view to all connected
// WebSocket clients
type Hub struct {
	upgrader websocket.Upgrader
	current  func() dashboard.View
	metrics  *telemetry.Metrics

	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// NewHub creates a hub. current supplies the view sent to a client right
// after it connects. Origins not in allowedOrigins are rejected; an empty
// list allows every origin.
func NewHub(current func() dashboard.View, allowedOrigins []string, metrics *telemetry.Metrics) *Hub {
	h := &Hub{
		current: current,
		metrics: metrics,
		clients: make(map[*websocket.Conn]*client),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: originChecker(allowedOrigins),
	}
	return h
}

// originChecker accepts same-host requests, requests without an Origin
// header, and the allowed origins
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 || set[origin] {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}

// ServeHTTP upgrades the request and registers the connection
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket connection: %v", err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[conn] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetClients(n)

	log.Printf("✓ WebSocket client connected: %s", r.RemoteAddr)

	// Send initial view
	if h.current != nil {
		if err := c.send(h.current()); err != nil {
			h.remove(conn)
			return
		}
	}

	// Read until the client goes away
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("⚠ WebSocket error: %v", err)
				}
				return
			}
		}
	}()
}

// Publish sends v to every connected client and drops clients that fail
func (h *Hub) Publish(v dashboard.View) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(v); err != nil {
			log.Printf("❌ Failed to send view to WebSocket client: %v", err)
			h.remove(c.conn)
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]*client)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	h.metrics.SetClients(0)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		conn.Close()
		h.metrics.SetClients(n)
	}
}
