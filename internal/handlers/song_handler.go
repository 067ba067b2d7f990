package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"back_stream/internal/datasync"
	"back_stream/internal/models"
	"back_stream/internal/repository"
)

type SongHandler struct {
	manager *datasync.Manager
	songs   repository.SongRepository
}

func NewSongHandler(manager *datasync.Manager, songs repository.SongRepository) *SongHandler {
	return &SongHandler{manager: manager, songs: songs}
}

// GetTrending serves the trending shelf. It works signed out; a signed-in
// viewer gets their library's view of it, with like state applied.
func (h *SongHandler) GetTrending(c *gin.Context) {
	if userID := c.GetString("user_id"); userID != "" {
		lib, err := h.manager.ForViewer(userID)
		if err == nil {
			trending := lib.Snapshot().Trending
			respondTrending(c, trending)
			return
		}
		log.Printf("[Songs] library unavailable for viewer %s: %v", userID, err)
	}

	rows, err := h.songs.GetAllSongsByViews()
	if err != nil {
		log.Printf("[Songs] trending fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch trending songs",
		})
		return
	}
	respondTrending(c, datasync.AnonymousTrending(rows))
}

func respondTrending(c *gin.Context, songs []models.Song) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Trending songs fetched successfully",
		"data": gin.H{
			"songs": songs,
			"metadata": gin.H{
				"total": len(songs),
			},
		},
	})
}

// ToggleLike flips the viewer's like on a song. A failed remote write
// leaves local state at the last known good snapshot.
func (h *SongHandler) ToggleLike(c *gin.Context) {
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

	if err := lib.ToggleLike(songID); err != nil {
		log.Printf("[Songs] toggle like failed for song %s: %v", songID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to toggle like",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Like toggled",
	})
}
