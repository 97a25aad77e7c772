package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PostHeartbeat handles POST /device/heartbeat
// First contact creates the status entry; there is no registration step.
func PostHeartbeat(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id is required"})
		return
	}

	state.Heartbeat(req.DeviceID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDeviceStatus handles GET /app/status/:id
// Unknown devices answer {online:false} rather than 404.
func GetDeviceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, state.Status(c.Param("id")))
}
