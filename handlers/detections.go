package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/models"
)

// PostDetection handles POST /device/detection
// The payload is arbitrary JSON from the device; it is stored as-is and a
// derived alert is appended to the log.
func PostDetection(c *gin.Context) {
	var payload models.Detection
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "detection payload must be a JSON object"})
		return
	}

	alert := state.RecordDetection(payload)
	logger.Info("detection received",
		zap.String("deviceId", alert.DeviceID),
		zap.Float64("confidence", alert.Confidence))

	c.JSON(http.StatusOK, gin.H{"status": "received", "alertId": alert.ID})
}

// GetLatestDetection handles GET /app/latest
func GetLatestDetection(c *gin.Context) {
	c.JSON(http.StatusOK, state.LatestDetection())
}

// GetAlerts handles GET /app/alerts
// Returns at most 50 alerts, newest first.
func GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": state.Alerts()})
}
