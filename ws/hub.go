// Package ws broadcasts emitted event lines to dashboard clients over
// WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
)

// Hub manages connected clients and fans event lines out to them. Clients
// whose send buffer is full are dropped so one slow dashboard cannot stall
// the rest.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex

	replay func() []string // recent event lines sent to new clients

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(replay func() []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		replay:     replay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes registrations and broadcasts until Shutdown.
func (h *Hub) Run() {
	log.Printf("[WS] Hub started")

	for {
		select {
		case <-h.ctx.Done():
			log.Printf("[WS] Hub stopped")
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("[WS] Client connected, id=%s total=%d", client.id, count)

			// Replay runs on the hub goroutine, the sole owner of send
			// channel closure, so a concurrent disconnect cannot close the
			// channel mid-send.
			if h.replay != nil {
				for _, line := range h.replay() {
					select {
					case client.send <- []byte(line):
					default:
					}
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WS] Client disconnected, id=%s total=%d", client.id, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
					log.Printf("[WS] Client dropped, id=%s slow consumer", client.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues one event line for all clients. Drops when nobody can
// keep up; telemetry fan-out never blocks the caller.
func (h *Hub) Broadcast(line string) {
	select {
	case h.broadcast <- []byte(line):
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown stops the hub and closes all client connections.
func (h *Hub) Shutdown() {
	h.cancel()
}

// StatsHandler serves a JSON health snapshot for the dashboard. The source
// closure assembles the fields; the hub contributes its client count.
func (h *Hub) StatsHandler(source func() map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := source()
		stats["ws_clients"] = h.ClientCount()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Printf("[WS] Stats encode error: %v", err)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
