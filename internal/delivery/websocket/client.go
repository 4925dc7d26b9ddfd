package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/orchestrator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one live connection, already authenticated by the HTTP layer
// before the upgrade (spec.md §6's out-of-scope auth collaborator hands
// over a trusted owner id).
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	outbound chan OutboundMessage

	ID      string
	OwnerID string
}

// NewClient builds a Client bound to an already-upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, id, ownerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		outbound: make(chan OutboundMessage, 64),
		ID:       id,
		OwnerID:  ownerID,
	}
}

// Send enqueues a message for delivery, dropping the client if its outbound
// buffer is full rather than blocking the publisher.
func (c *Client) Send(msg OutboundMessage) {
	select {
	case c.outbound <- msg:
	default:
		logger.WithVillage(msg.VillageID, c.OwnerID).Warn("websocket client outbound buffer full, dropping connection", zap.String("client_id", c.ID))
		c.hub.unregister <- c
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Get().Warn("websocket unexpected close", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}

		var in InboundMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			c.Send(OutboundMessage{Type: MessageTypeError, Message: "invalid message format"})
			continue
		}
		c.handle(in)
	}
}

func (c *Client) handle(in InboundMessage) {
	if in.Type != MessageTypeCommand {
		c.Send(OutboundMessage{Type: MessageTypeError, Message: "unknown message type"})
		return
	}

	cmd, err := orchestrator.Parse(in.Command)
	if err != nil {
		c.Send(OutboundMessage{Type: MessageTypeError, Message: err.Error()})
		return
	}

	result := c.hub.orchestrator.Submit(context.Background(), c.OwnerID, in.VillageID, cmd)
	c.Send(OutboundMessage{Type: MessageTypeResult, Result: &result, VillageID: in.VillageID})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbound:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Get().Error("websocket marshal failed", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and starts the
// client's read/write pumps.
func ServeWS(hub *Hub, ownerID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Error("websocket upgrade failed", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		return
	}

	client := NewClient(hub, conn, uniqueClientID(), ownerID)
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func uniqueClientID() string {
	return time.Now().Format("20060102150405.000000000")
}
