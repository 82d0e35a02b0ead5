package ws

import (
	"encoding/json"
	"time"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 64
	maxMessage = 1024
)

// Client is one admin connection to the event feed.
type Client struct {
	UserID string
	Role   domain.Role
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

func NewClient(p domain.Principal, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: p.UserID,
		Role:   p.Role,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		Hub:    hub,
	}
}

// Run registers the client and blocks until the connection is gone.
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	ready, _ := json.Marshal(Message{Type: MsgReady})
	c.Hub.send(c, ready)

	c.readPump()
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessage)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("admin feed read error", "user_id", c.UserID, "error", err)
			}
			return
		}

		// фид только на отправку, от клиента ждём лишь ping
		var in Message
		if err := json.Unmarshal(raw, &in); err != nil || in.Type != MsgPing {
			reply, _ := json.Marshal(Message{Type: MsgError, Message: "only ping messages are accepted"})
			c.Hub.send(c, reply)
			continue
		}
		pong, _ := json.Marshal(Message{Type: MsgPong})
		c.Hub.send(c, pong)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("admin feed write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
