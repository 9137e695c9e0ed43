package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// StatsHub manages the live-stats WebSocket connections and broadcasts KPI
// snapshots to every dashboard viewer.
type StatsHub struct {
	clients    map[*statsClient]bool
	broadcast  chan interface{}
	register   chan *statsClient
	unregister chan *statsClient
	origins    []string
	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
}

// statsClient is one WebSocket viewer.
type statsClient struct {
	hub  *StatsHub
	conn *websocket.Conn
	send chan []byte
}

// NewStatsHub creates a hub that accepts upgrades from the given origin
// patterns (host:port, no scheme).
func NewStatsHub(origins []string) *StatsHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &StatsHub{
		clients:    make(map[*statsClient]bool),
		broadcast:  make(chan interface{}, 256),
		register:   make(chan *statsClient),
		unregister: make(chan *statsClient),
		origins:    origins,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub's message processing loop.
func (h *StatsHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("stats client connected (total: %d)", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("stats client disconnected (total: %d)", count)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("failed to marshal stats message: %v", err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// Stop shuts down the hub and closes every connection.
func (h *StatsHub) Stop() {
	h.cancel()

	h.mu.Lock()
	for client := range h.clients {
		close(client.send)
		_ = client.conn.Close(websocket.StatusNormalClosure, "")
	}
	h.clients = make(map[*statsClient]bool)
	h.mu.Unlock()
}

// Broadcast queues a message for every connected client. Messages are
// dropped when the queue is full rather than blocking the caller.
func (h *StatsHub) Broadcast(message interface{}) {
	select {
	case h.broadcast <- message:
	default:
		log.Println("stats broadcast channel full, dropping message")
	}
}

// ServeHTTP handles WebSocket upgrade requests on /ws.
func (h *StatsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		log.Printf("stats socket upgrade failed: %v", err)
		return
	}

	client := &statsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *statsClient) writePump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			return
		}
	}
}

// readPump drains client messages to detect disconnection; viewers never
// send anything meaningful.
func (c *statsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.conn.Read(context.Background()); err != nil {
			return
		}
	}
}
