package services

import (
	"context"
	"log"
	"sync"
	"time"

	"machmon/internal/models"

	"github.com/gorilla/websocket"
)

// StreamMessage is a message sent over the live snapshot stream
type StreamMessage struct {
	Type      string      `json:"type"` // "snapshot", "pong", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// StreamClient represents one connected WebSocket client
type StreamClient struct {
	ID   string
	Conn *websocket.Conn
	Send chan StreamMessage
}

// StreamHub fans snapshots out to connected WebSocket clients. Snapshots
// arrive from the monitoring loop via PublishSnapshot; the hub has no
// sampling schedule of its own.
type StreamHub struct {
	mu         sync.RWMutex
	clients    map[string]*StreamClient
	register   chan *StreamClient
	unregister chan string
	broadcast  chan StreamMessage
}

// NewStreamHub creates an idle hub; call Run to start it
func NewStreamHub() *StreamHub {
	return &StreamHub{
		clients:    make(map[string]*StreamClient),
		register:   make(chan *StreamClient),
		unregister: make(chan string),
		broadcast:  make(chan StreamMessage, 64),
	}
}

// Run manages the hub's event loop until ctx is cancelled
func (h *StreamHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *StreamHub) Register(client *StreamClient) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *StreamHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// PublishSnapshot broadcasts a snapshot to all connected clients.
// Never blocks the caller: the monitoring loop must not stall on a slow
// stream consumer.
func (h *StreamHub) PublishSnapshot(snap *models.Snapshot) {
	msg := StreamMessage{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Data:      snap,
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}
