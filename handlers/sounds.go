package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/models"
	"github.com/smartfarm/backend/storage"
)

// PostSoundInventory handles POST /device/sounds
// The device reports every sound file it holds; the inventory is replaced
// wholesale, never merged.
func PostSoundInventory(c *gin.Context) {
	var req struct {
		DeviceID string    `json:"device_id" binding:"required"`
		Sounds   *[]string `json:"sounds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Sounds == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id and a sounds list are required"})
		return
	}

	state.SyncSounds(req.DeviceID, *req.Sounds)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(*req.Sounds)})
}

// ListSounds handles GET /app/sounds?device_id=X
// Returns both the uploaded assets and the device-reported inventory.
func ListSounds(c *gin.Context) {
	deviceID := c.Query("device_id")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id is required"})
		return
	}

	uploaded, err := sounds.List()
	if err != nil {
		logger.Error("failed to list uploaded sounds", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sounds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploaded": uploaded,
		"device":   state.Sounds(deviceID),
	})
}

// UploadSound handles POST /app/sounds/upload
// Stores the file under its (sanitized) name, overwriting on collision, and
// queues UPLOAD_SOUND:<name> so the sync device downloads it.
func UploadSound(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a file field is required"})
		return
	}
	defer file.Close()

	name := c.PostForm("filename")
	if name == "" {
		name = header.Filename
	}

	stored, err := sounds.Save(name, file)
	if err != nil {
		if errors.Is(err, storage.ErrBadFilename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to store sound", zap.String("filename", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store sound"})
		return
	}

	mailbox.Enqueue(syncDeviceID, models.CommandUploadPrefix+stored)
	logger.Info("sound uploaded", zap.String("filename", stored))

	c.JSON(http.StatusOK, gin.H{"status": "uploaded", "filename": stored})
}

// DownloadSound handles GET /device/download/:filename
func DownloadSound(c *gin.Context) {
	path, err := sounds.Path(c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sound not found"})
		return
	}
	c.File(path)
}
