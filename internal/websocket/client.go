package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"upscdash/internal/infrastructure"
	"upscdash/internal/services"
	"upscdash/pkg/contracts/domain"
)

// Client is a middleman between the websocket connection and the hub.
// Constraint messages are rendered one at a time; a message that arrives
// while a render is running replaces any request still waiting.
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages
	send chan []byte
	// Holds at most one request waiting to be rendered
	pending chan domain.ConstraintsRequest

	mu      sync.Mutex
	closed  bool
	last    domain.ConstraintsRequest
	hasLast bool

	ctx    context.Context
	cancel context.CancelFunc

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	logger      *slog.Logger
}

func newClient(hub *Hub, conn Connection, traceID string) *Client {
	id := uuid.NewString()
	if traceID == "" {
		traceID = id
	}
	ctx, cancel := context.WithCancel(infrastructure.WithTraceID(context.Background(), traceID))

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, hub.opts.SendBuffer),
		pending:     make(chan domain.ConstraintsRequest, 1),
		ctx:         ctx,
		cancel:      cancel,
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger: hub.logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
		),
	}
}

// ServeConn registers conn with the hub and starts its pumps. The client
// receives a greeting followed by the default view.
func (h *Hub) ServeConn(conn Connection, traceID string) *Client {
	c := newClient(h, conn, traceID)

	select {
	case h.register <- c:
	case <-h.done:
		c.cancel()
		conn.Close()
		return c
	}

	c.sendMessage(TypeConnection, ConnectionData{
		Status:   "connected",
		ClientID: c.id,
		Message:  "Connected to UPSC results dashboard",
	})
	c.submit(domain.ConstraintsRequest{})

	go c.writePump()
	go c.renderLoop()
	go c.readPump()
	return c
}

// ID returns the client identifier.
func (c *Client) ID() string { return c.id }

// enqueue queues a frame without blocking. It reports false when the
// buffer is full or the client is closed.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) sendMessage(msgType string, data any) {
	frame, err := encode(msgType, data, c.traceID)
	if err != nil {
		c.logger.ErrorContext(c.ctx, "error marshaling message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}
	if !c.enqueue(frame) {
		c.hub.droppedMessages.Add(1)
		c.logger.WarnContext(c.ctx, "message dropped", slog.String("type", msgType))
		return
	}
	c.hub.messagesSent.Add(1)
	if c.hub.metrics != nil {
		c.hub.metrics.RecordWebSocketMessage(c.ctx, "out", msgType)
	}
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(TypeError, ErrorData{Code: code, Message: message})
}

// closeSend closes the outbound channel once. Called by the hub.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.cancel()
}

// submit queues req for rendering, replacing any request still waiting.
func (c *Client) submit(req domain.ConstraintsRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.last, c.hasLast = req, true

	select {
	case <-c.pending:
		c.hub.droppedMessages.Add(1)
		c.logger.DebugContext(c.ctx, "superseded queued constraints")
	default:
	}
	// capacity 1 and drained under the lock, so this never blocks
	c.pending <- req
}

// refresh re-renders the most recent request.
func (c *Client) refresh() {
	c.mu.Lock()
	req, ok := c.last, c.hasLast
	c.mu.Unlock()
	if ok {
		c.submit(req)
	}
}

func (c *Client) renderLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case req := <-c.pending:
			c.render(req)
		}
	}
}

func (c *Client) render(req domain.ConstraintsRequest) {
	vm, err := c.hub.renderer.View(c.ctx, services.SourceWebSocket, req)
	switch {
	case err == nil:
		c.sendMessage(TypeView, vm)
	case errors.Is(err, services.ErrDatasetNotLoaded):
		c.sendError(CodeDatasetUnavailable, err.Error())
	case c.ctx.Err() != nil:
		// client went away mid-render
	default:
		c.logger.ErrorContext(c.ctx, "render failed", slog.String("error", err.Error()))
		c.sendError(CodeRenderFailed, "failed to render view")
	}
}

// readPump pumps messages from the websocket connection to the renderer.
func (c *Client) readPump() {
	defer func() {
		c.logger.InfoContext(c.ctx, "websocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
		c.cancel()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(c.ctx, "unexpected websocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		c.hub.messagesReceived.Add(1)
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(CodeInvalidMessage, "message is not valid JSON")
		return
	}
	if c.hub.metrics != nil {
		c.hub.metrics.RecordWebSocketMessage(c.ctx, "in", msg.Type)
	}

	switch msg.Type {
	case TypeHeartbeat:
		// any frame extends the read deadline
		c.conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))

	case TypeConstraints:
		var req domain.ConstraintsRequest
		if len(msg.Data) > 0 && string(msg.Data) != "null" {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.sendError(CodeInvalidMessage, "constraints payload is malformed: "+err.Error())
				return
			}
		}
		if c.hub.validator != nil {
			if err := c.hub.validator.ValidateStruct(req); err != nil {
				c.sendError(CodeValidationFailed, err.Error())
				return
			}
		}
		c.submit(req)

	default:
		c.sendError(CodeInvalidMessage, "unknown message type: "+msg.Type)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.opts.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.ctx, "error writing message to websocket",
					slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.ctx, "failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
