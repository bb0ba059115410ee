// Package hub fans applied stat updates out to connected scoreboard
// views. One writer (the stat pipeline) broadcasts; clients only read.
package hub

import (
	"context"
	"sync"

	"boxscore-tracker/internal/constants"
	"boxscore-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Client is one connected view. The transport (websocket conn, write
// pump) lives in the server layer; the hub only owns the send buffer.
type Client struct {
	ID   string
	Send chan domain.StatUpdate
}

func NewClient(id string) *Client {
	return &Client{
		ID:   id,
		Send: make(chan domain.StatUpdate, constants.ClientSendBuffer),
	}
}

// Hub maintains the set of active clients and broadcasts updates to them.
type Hub struct {
	logger zerolog.Logger

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan domain.StatUpdate
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan domain.StatUpdate, constants.HubBroadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run drives the hub until the context is canceled. Once it returns,
// Register, Unregister and Broadcast become no-ops instead of blocking
// on channels nothing is draining.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Info().Msg("hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues an update for fan-out; drops rather than blocking the
// stat pipeline when the buffer is full or the hub has stopped.
func (h *Hub) Broadcast(update domain.StatUpdate) {
	select {
	case <-h.done:
	case h.broadcast <- update:
	default:
		h.logger.Warn().Str("player_id", update.PlayerID).Msg("broadcast buffer full, dropping update")
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.logger.Info().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.Info().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("client disconnected")
	}
}

func (h *Hub) broadcastUpdate(update domain.StatUpdate) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		select {
		case c.Send <- update:
		default:
			h.logger.Warn().Str("client_id", c.ID).Msg("client send buffer full, dropping update")
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
	h.logger.Info().Msg("hub stopped")
}

// ClientCount reports how many views are connected.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
