package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"back_stream/internal/datasync"
	"back_stream/internal/homefeed"
)

// HomeHandler serves the rendered home feed. Pagination state lives here,
// one Feed per viewer; everything else is read from the viewer's library.
type HomeHandler struct {
	manager *datasync.Manager

	mu    sync.Mutex
	feeds map[string]*homefeed.Feed
}

func NewHomeHandler(manager *datasync.Manager) *HomeHandler {
	return &HomeHandler{
		manager: manager,
		feeds:   make(map[string]*homefeed.Feed),
	}
}

func (h *HomeHandler) feedFor(userID string) *homefeed.Feed {
	h.mu.Lock()
	defer h.mu.Unlock()
	feed, ok := h.feeds[userID]
	if !ok {
		feed = homefeed.New()
		h.feeds[userID] = feed
	}
	return feed
}

func (h *HomeHandler) renderPage(c *gin.Context) (homefeed.Page, bool) {
	userID := c.GetString("user_id")
	lib, err := h.manager.ForViewer(userID)
	if err != nil {
		if errors.Is(err, datasync.ErrNoViewer) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "User not authenticated",
			})
			return homefeed.Page{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load library",
		})
		return homefeed.Page{}, false
	}

	return h.feedFor(userID).Render(lib.Snapshot()), true
}

func (h *HomeHandler) GetHome(c *gin.Context) {
	page, ok := h.renderPage(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Home feed rendered",
		"data":    page,
	})
}

func (h *HomeHandler) ShowMoreListened(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return
	}

	h.feedFor(userID).ShowMoreListened()

	page, ok := h.renderPage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Listened section expanded",
		"data":    page,
	})
}

func (h *HomeHandler) ShowMoreNotListened(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return
	}

	h.feedFor(userID).ShowMoreNotListened()

	page, ok := h.renderPage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Discovery section expanded",
		"data":    page,
	})
}

// Refresh reloads catalog and playlists from the remote store.
func (h *HomeHandler) Refresh(c *gin.Context) {
	userID := c.GetString("user_id")
	lib, err := h.manager.ForViewer(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return
	}

	lib.LoadAll()

	page := h.feedFor(userID).Render(lib.Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Library refreshed",
		"data":    page,
	})
}
