package services

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// AlertHub fans detection alerts out to connected WebSocket app clients. It
// consumes the NATS detection subject and broadcasts every alert to every
// client; slow clients drop messages rather than stall the hub.
type AlertHub struct {
	natsConn *nats.Conn
	log      *zap.Logger

	clients   map[*AlertClient]bool
	clientsMu sync.RWMutex

	register   chan *AlertClient
	unregister chan *AlertClient

	alertSub *nats.Subscription
}

// AlertMessage is the envelope sent to WebSocket clients.
type AlertMessage struct {
	Type string          `json:"type"` // alert, pong, error
	Data json.RawMessage `json:"data,omitempty"`
}

// NewAlertHub creates a hub consuming alerts from natsConn.
func NewAlertHub(natsConn *nats.Conn, log *zap.Logger) *AlertHub {
	return &AlertHub{
		natsConn:   natsConn,
		log:        log,
		clients:    make(map[*AlertClient]bool),
		register:   make(chan *AlertClient),
		unregister: make(chan *AlertClient),
	}
}

// Register adds a client to the hub.
func (h *AlertHub) Register(client *AlertClient) {
	h.register <- client
}

// Run subscribes to the detection subject and processes client churn until
// the process exits.
func (h *AlertHub) Run() {
	sub, err := h.natsConn.Subscribe(SubjectDetectionAlert, func(msg *nats.Msg) {
		h.broadcast(msg.Data)
	})
	if err != nil {
		h.log.Error("alert hub failed to subscribe", zap.Error(err))
		return
	}
	h.alertSub = sub
	h.log.Info("alert hub started", zap.String("subject", SubjectDetectionAlert))

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			h.log.Info("alert client connected", zap.String("remote", client.remoteAddr))

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			h.log.Info("alert client disconnected", zap.String("remote", client.remoteAddr))
		}
	}
}

// broadcast wraps the alert JSON and pushes it to every connected client.
func (h *AlertHub) broadcast(alertJSON []byte) {
	msg := AlertMessage{
		Type: "alert",
		Data: alertJSON,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- msgBytes:
		default:
			// client buffer full, drop the alert for this client
		}
	}
}

// HubStats reports hub occupancy for the health endpoint.
type HubStats struct {
	Clients int `json:"clients"`
}

// Stats returns current hub statistics.
func (h *AlertHub) Stats() HubStats {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return HubStats{Clients: len(h.clients)}
}
