package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSettings handles GET /settings
func GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": state.Settings()})
}

// UpdateSettings handles POST /settings
// Applies a field-by-field type-checked merge: mistyped or unknown fields
// are ignored, never rejected. The update also queues SYNC_SETTINGS for the
// sync device so it re-fetches settings on its next poll.
func UpdateSettings(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings payload must be a JSON object"})
		return
	}

	updated := state.UpdateSettings(patch)
	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
