package services

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum control message size allowed from peer
	maxMessageSize = 4 * 1024

	// Send buffer size
	sendBufferSize = 64
)

// AlertClient is one WebSocket app connection receiving live alerts.
type AlertClient struct {
	hub        *AlertHub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	log        *zap.Logger
}

// NewAlertClient creates a client for conn.
func NewAlertClient(hub *AlertHub, conn *websocket.Conn, remoteAddr string, log *zap.Logger) *AlertClient {
	return &AlertClient{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		remoteAddr: remoteAddr,
		log:        log,
	}
}

// ReadPump consumes control messages from the client until the connection
// drops, then unregisters from the hub.
func (c *AlertClient) ReadPump() {
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
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket error", zap.Error(err))
			}
			break
		}

		var msg AlertMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Warn("invalid message from alert client",
				zap.String("remote", c.remoteAddr), zap.Error(err))
			continue
		}

		switch msg.Type {
		case "ping":
			c.sendPong()
		default:
			c.log.Warn("unknown message type", zap.String("type", msg.Type))
		}
	}
}

// WritePump pushes hub messages and keepalive pings to the connection.
func (c *AlertClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func (c *AlertClient) sendPong() {
	msgBytes, _ := json.Marshal(AlertMessage{Type: "pong"})
	select {
	case c.send <- msgBytes:
	default:
	}
}
