package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/services"
)

var (
	alertHub *services.AlertHub
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true // relay has no origin policy, CORS is wide open too
		},
	}
)

// SetAlertHub sets the hub used by the WebSocket endpoint.
func SetAlertHub(hub *services.AlertHub) {
	alertHub = hub
}

// HandleAlertWebSocket handles GET /ws/alerts
// Upgrades the connection and streams live detection alerts to the app.
func HandleAlertWebSocket(c *gin.Context) {
	if alertHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert hub not initialized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := services.NewAlertClient(alertHub, conn, c.ClientIP(), logger)
	alertHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
