// Package ws implements the real-time broadcast channel. The server pushes
// catalog mutation events to every connected client; the channel is strictly
// server to client. Inbound messages are drained and discarded, so no client
// can trigger a rebroadcast.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// frame is the wire shape of one broadcast message.
type frame struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Hub tracks connected clients and fans broadcast frames out to them.
// All state is owned by the Run goroutine; other goroutines communicate
// through channels only.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan frame
	clients    map[*client]struct{}
	log        *slog.Logger
}

// NewHub creates a Hub. Run must be started for it to operate.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan frame, 256),
		clients:    make(map[*client]struct{}),
		log:        log.With("component", "ws_hub"),
	}
}

// Run processes registrations and broadcasts until the context is cancelled,
// then closes every client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.close()
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug("client connected", slog.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}

		case msg := <-h.broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				h.log.Error("marshal broadcast frame", slog.String("error", err.Error()))
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Client is not draining its buffer: drop it rather
					// than block every other listener.
					delete(h.clients, c)
					c.close()
				}
			}
		}
	}
}

// Broadcast queues a frame for delivery to all currently connected clients.
// Fire-and-forget: a listener not connected at publish time never receives
// the event, and a full hub queue drops it.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- frame{Topic: topic, Data: data}:
	default:
		h.log.Warn("broadcast queue full, dropping event", slog.String("topic", topic))
	}
}
