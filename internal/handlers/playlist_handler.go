package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"back_stream/internal/datasync"
	"back_stream/internal/repository"
)

type PlaylistHandler struct {
	manager *datasync.Manager
}

func NewPlaylistHandler(manager *datasync.Manager) *PlaylistHandler {
	return &PlaylistHandler{manager: manager}
}

type playlistNameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

func (h *PlaylistHandler) libraryFor(c *gin.Context) (*datasync.Library, bool) {
	lib, err := h.manager.ForViewer(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return nil, false
	}
	return lib, true
}

func (h *PlaylistHandler) GetPlaylists(c *gin.Context) {
	lib, ok := h.libraryFor(c)
	if !ok {
		return
	}

	snap := lib.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Playlists fetched successfully",
		"data": gin.H{
			"playlists": snap.Playlists,
			"metadata": gin.H{
				"total": len(snap.Playlists),
			},
		},
	})
}

func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req playlistNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Playlist name is required",
		})
		return
	}

	lib, ok := h.libraryFor(c)
	if !ok {
		return
	}

	playlist, err := lib.CreatePlaylist(req.Name)
	if err != nil {
		log.Printf("[Playlists] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create playlist",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Playlist created successfully",
		"data":    playlist,
	})
}

func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	playlistID := c.Param("id")
	if !validID(c, playlistID, "Invalid playlist ID format") {
		return
	}

	lib, ok := h.libraryFor(c)
	if !ok {
		return
	}

	if err := lib.DeletePlaylist(playlistID); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Playlist not found",
			})
			return
		}
		log.Printf("[Playlists] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete playlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Playlist deleted successfully",
	})
}

func (h *PlaylistHandler) RenamePlaylist(c *gin.Context) {
	playlistID := c.Param("id")
	if !validID(c, playlistID, "Invalid playlist ID format") {
		return
	}

	var req playlistNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Playlist name is required",
		})
		return
	}

	lib, ok := h.libraryFor(c)
	if !ok {
		return
	}

	if err := lib.RenamePlaylist(playlistID, req.Name); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Playlist not found",
			})
			return
		}
		log.Printf("[Playlists] rename failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to rename playlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Playlist renamed successfully",
	})
}

func (h *PlaylistHandler) AddSong(c *gin.Context) {
	playlistID := c.Param("id")
	songID := c.Param("song_id")
	if !validID(c, playlistID, "Invalid playlist ID format") {
		return
	}
	if !validID(c, songID, "Invalid song ID format") {
		return
	}

	lib, ok := h.libraryFor(c)
	if !ok {
		return
	}

	if err := lib.AddSongToPlaylist(playlistID, songID); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Playlist not found",
			})
			return
		}
		if errors.Is(err, repository.ErrSongNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Song not found",
			})
			return
		}
		log.Printf("[Playlists] add song failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to add song to playlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Song added to playlist",
	})
}

func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	playlistID := c.Param("id")
	songID := c.Param("song_id")
	if !validID(c, playlistID, "Invalid playlist ID format") {
		return
	}
	if !validID(c, songID, "Invalid song ID format") {
		return
	}

	lib, ok := h.libraryFor(c)
	if !ok {
		return
	}

	if err := lib.RemoveSongFromPlaylist(playlistID, songID); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Playlist not found",
			})
			return
		}
		log.Printf("[Playlists] remove song failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to remove song from playlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Song removed from playlist",
	})
}

func validID(c *gin.Context, id, message string) bool {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": message,
		})
		return false
	}
	return true
}
