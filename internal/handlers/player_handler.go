package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"back_stream/internal/datasync"
)

// PlayerHandler receives the playback intents the player UI delegates
// upward: play (start tracking) and stop (tear down tracking).
type PlayerHandler struct {
	manager *datasync.Manager
}

func NewPlayerHandler(manager *datasync.Manager) *PlayerHandler {
	return &PlayerHandler{manager: manager}
}

func (h *PlayerHandler) Play(c *gin.Context) {
	userID := c.GetString("user_id")
	songID := c.Param("song_id")

	if _, err := strconv.ParseInt(songID, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid song ID format",
		})
		return
	}

	lib, err := h.manager.ForViewer(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return
	}

	if err := lib.RecordListeningStart(songID); err != nil {
		log.Printf("[Player] record listening start failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to record playback",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Playback recorded",
	})
}

func (h *PlayerHandler) Stop(c *gin.Context) {
	userID := c.GetString("user_id")

	lib, err := h.manager.ForViewer(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return
	}

	lib.StopTracking()

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Tracking stopped",
	})
}
