package routes

import (
	"log"
	"os"
	"strings"
	"time"

	"back_stream/internal/handlers"
	"back_stream/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	authHandler *handlers.AuthHandler,
	homeHandler *handlers.HomeHandler,
	playerHandler *handlers.PlayerHandler,
	songHandler *handlers.SongHandler,
	playlistHandler *handlers.PlaylistHandler,
) *gin.Engine {

	router := gin.New()

	// =========================
	// GLOBAL MIDDLEWARE
	// =========================
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// =========================
	// CORS CONFIG (DEV / PROD)
	// =========================
	env := os.Getenv("ENV") // development | production
	frontendURL := os.Getenv("CORS_ORIGIN")

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if env == "production" {
		if frontendURL == "" {
			log.Fatal("❌ CORS_ORIGIN environment variable is NOT set in production!")
		}
		corsConfig.AllowOrigins = []string{frontendURL}
		log.Printf("✅ CORS configured for production: %s", frontendURL)
	} else {
		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}

		if frontendURL != "" {
			allowedOrigins = append(allowedOrigins, frontendURL)
		}

		corsConfig.AllowOriginFunc = func(origin string) bool {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			// Allow local network IPs (192.168.x.x, 10.x.x.x)
			if strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.") {
				return true
			}
			return false
		}
		log.Printf("✅ CORS configured for development with %d allowed origins", len(allowedOrigins))
	}

	router.Use(cors.New(corsConfig))

	// =========================
	// SECURITY HEADERS MIDDLEWARE
	// =========================
	router.Use(func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// =========================
	// API ROUTES
	// =========================
	api := router.Group("/api")
	{
		// ---------- AUTH ----------
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			authProtected := auth.Group("/")
			authProtected.Use(middleware.JWTMiddleware())
			{
				authProtected.GET("/me", authHandler.Me)
				authProtected.POST("/logout", authHandler.Logout)
			}
		}

		// ---------- PUBLIC (optional auth) ----------
		// Trending works signed out; a token personalizes the like state.
		public := api.Group("/songs")
		public.Use(middleware.OptionalJWTMiddleware())
		{
			public.GET("/trending", songHandler.GetTrending)
		}

		// ---------- PROTECTED ----------
		protected := api.Group("/")
		protected.Use(middleware.JWTMiddleware())
		{
			// HOME FEED
			home := protected.Group("/home")
			{
				home.GET("", homeHandler.GetHome)
				home.POST("/listened/more", homeHandler.ShowMoreListened)
				home.POST("/discover/more", homeHandler.ShowMoreNotListened)
				home.POST("/refresh", homeHandler.Refresh)
			}

			// PLAYER
			player := protected.Group("/player")
			{
				player.POST("/play/:song_id", playerHandler.Play)
				player.POST("/stop", playerHandler.Stop)
			}

			// SONGS
			songs := protected.Group("/songs")
			{
				songs.POST("/:song_id/like", songHandler.ToggleLike)
			}

			// PLAYLISTS
			playlists := protected.Group("/playlists")
			{
				playlists.GET("", playlistHandler.GetPlaylists)
				playlists.POST("", playlistHandler.CreatePlaylist)
				playlists.DELETE("/:id", playlistHandler.DeletePlaylist)
				playlists.PATCH("/:id", playlistHandler.RenamePlaylist)
				playlists.POST("/:id/songs/:song_id", playlistHandler.AddSong)
				playlists.DELETE("/:id/songs/:song_id", playlistHandler.RemoveSong)
			}
		}
	}

	// =========================
	// HEALTH & ROOT
	// =========================
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Stream Home API",
			"version": "1.0.0",
		})
	})

	return router
}
