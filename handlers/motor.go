package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/models"
)

// PostMotorReport handles POST /device/motor
// A device reports the state its relay actually reached. Anything outside
// {ON, OFF} is rejected without touching motor state or device status.
func PostMotorReport(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
		State    string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id and state are required"})
		return
	}

	if err := state.ReportMotor(req.DeviceID, models.MotorState(req.State)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("motor state reported",
		zap.String("deviceId", req.DeviceID),
		zap.String("state", req.State))
	c.JSON(http.StatusOK, gin.H{"status": "ok", "state": req.State})
}

// PostMotorAction handles POST /app/motor
// The app flips the motor; the intent is queued as MOTOR_<action> for the
// device to execute on its next poll.
func PostMotorAction(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
		Action   string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id and action are required"})
		return
	}

	if err := state.SetMotor(models.MotorState(req.Action)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mailbox.Enqueue(req.DeviceID, models.CommandMotorPrefix+req.Action)

	c.JSON(http.StatusOK, gin.H{"status": "queued", "command": models.CommandMotorPrefix + req.Action})
}

// GetMotorState handles GET /app/motor
func GetMotorState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": state.Motor()})
}
