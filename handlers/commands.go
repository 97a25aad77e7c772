package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostCommand handles POST /app/command
// Queues an arbitrary command for a device, replacing any pending one.
func PostCommand(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
		Action   string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id and action are required"})
		return
	}

	mailbox.Enqueue(req.DeviceID, req.Action)
	logger.Info("command queued",
		zap.String("deviceId", req.DeviceID),
		zap.String("action", req.Action))

	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}

// DrainCommand handles GET /device/command/:id
// Returns the pending command and clears the slot; a poll with nothing
// queued answers {command:null}.
func DrainCommand(c *gin.Context) {
	command, ok := mailbox.Drain(c.Param("id"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"command": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"command": command})
}
