package websocket

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"upscdash/internal/infrastructure"
	"upscdash/pkg/contracts/domain"
)

// Options tune client connections.
type Options struct {
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
	// StatsInterval is how often the hub logs its counters. Zero disables.
	StatsInterval time.Duration
}

// DefaultOptions returns the standard connection settings.
func DefaultOptions() Options {
	return Options{
		PingPeriod:     54 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     32,
		StatsInterval:  30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	// pings must arrive before the peer's read deadline expires
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = d.MaxMessageSize
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = d.SendBuffer
	}
	return o
}

// HubStats is a snapshot of the hub counters.
type HubStats struct {
	ActiveClients    int   `json:"active_clients"`
	TotalConnections int64 `json:"total_connections"`
	MessagesSent     int64 `json:"messages_sent"`
	MessagesReceived int64 `json:"messages_received"`
	DroppedMessages  int64 `json:"dropped_messages"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool
	mu      sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	renderer  ViewRenderer
	validator Validator
	metrics   MetricsRecorder
	opts      Options
	logger    *slog.Logger

	totalConnections atomic.Int64
	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
	droppedMessages  atomic.Int64
}

// NewHub creates a hub. validator and metrics may be nil.
func NewHub(renderer ViewRenderer, validator Validator, metrics MetricsRecorder, opts Options, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		renderer:   renderer,
		validator:  validator,
		metrics:    metrics,
		opts:       opts.withDefaults(),
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Run is the hub's main loop. It returns when ctx is done, after closing
// every client.
func (h *Hub) Run(ctx context.Context) error {
	var statsC <-chan time.Time
	if h.opts.StatsInterval > 0 {
		ticker := time.NewTicker(h.opts.StatsInterval)
		defer ticker.Stop()
		statsC = ticker.C
	}

	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub shutting down")
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.totalConnections.Add(1)

			if h.metrics != nil {
				h.metrics.RecordWebSocketClient(client.ctx, 1)
			}
			h.logger.InfoContext(client.ctx, "client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

		case client := <-h.unregister:
			h.removeClient(client, "disconnected")

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			failed := 0
			for _, client := range clients {
				if !client.enqueue(message) {
					failed++
					h.removeClient(client, "send buffer full")
				}
			}
			h.messagesSent.Add(int64(len(clients) - failed))

			if failed > 0 {
				h.logger.Warn("some clients failed to receive broadcast",
					slog.Int("success_count", len(clients)-failed),
					slog.Int("fail_count", failed))
			}

		case <-statsC:
			s := h.Stats()
			h.logger.Info("websocket hub metrics",
				slog.Int("active_clients", s.ActiveClients),
				slog.Int64("total_connections", s.TotalConnections),
				slog.Int64("messages_sent", s.MessagesSent),
				slog.Int64("messages_received", s.MessagesReceived),
				slog.Int64("dropped_messages", s.DroppedMessages))
		}
	}
}

func (h *Hub) removeClient(client *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	client.closeSend()

	if h.metrics != nil {
		h.metrics.RecordWebSocketClient(client.ctx, -1)
	}
	h.logger.InfoContext(client.ctx, "client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("reason", reason),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

// Broadcast sends a typed message to every client. It is dropped once the
// hub has stopped.
func (h *Hub) Broadcast(msgType string, data any) {
	frame, err := encode(msgType, data, "")
	if err != nil {
		h.logger.Error("error marshaling broadcast",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- frame:
		if h.metrics != nil {
			h.metrics.RecordWebSocketMessage(context.Background(), "out", msgType)
		}
	case <-h.done:
	}
}

// DatasetReloaded tells every client about a new snapshot and re-renders
// each client's last constraints against it.
func (h *Hub) DatasetReloaded(info domain.DatasetInfo) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.sendMessage(TypeDatasetReloaded, info)
		client.refresh()
	}
	h.logger.Info("dataset reload announced",
		slog.String("snapshot_id", info.SnapshotID),
		slog.Int("clients", len(clients)))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the current hub counters.
func (h *Hub) Stats() HubStats {
	return HubStats{
		ActiveClients:    h.ClientCount(),
		TotalConnections: h.totalConnections.Load(),
		MessagesSent:     h.messagesSent.Load(),
		MessagesReceived: h.messagesReceived.Load(),
		DroppedMessages:  h.droppedMessages.Load(),
	}
}
