package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"back_stream/internal/config"
	"back_stream/internal/database"
	"back_stream/internal/datasync"
	"back_stream/internal/handlers"
	"back_stream/internal/repository"
	"back_stream/internal/routes"
)

func main() {

	// =========================
	// LOAD CONFIG
	// =========================
	if err := config.LoadConfig(); err != nil {
		log.Println("⚠️ Config load warning:", err)
		log.Println("⚠️ Using environment variables only")
	}

	// =========================
	// CONNECT DATABASE
	// =========================
	if err := database.ConnectDB(); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}

	database.RunMigrations()

	// Keep the pooled connection warm; Supabase closes idle ones.
	go func() {
		sqlDB, err := database.DB.DB()
		if err != nil {
			return
		}
		for {
			sqlDB.Ping()
			time.Sleep(5 * time.Minute)
		}
	}()

	// =========================
	// INIT REPOSITORIES
	// =========================
	userRepo := repository.NewUserRepository()
	songRepo := repository.NewSongRepository()
	libraryRepo := repository.NewLibraryRepository()

	// =========================
	// INIT DATA SYNC
	// =========================
	manager := datasync.NewManager(songRepo, userRepo, libraryRepo)

	// =========================
	// INIT HANDLERS
	// =========================
	authHandler := handlers.NewAuthHandler(userRepo, manager)
	homeHandler := handlers.NewHomeHandler(manager)
	playerHandler := handlers.NewPlayerHandler(manager)
	songHandler := handlers.NewSongHandler(manager, songRepo)
	playlistHandler := handlers.NewPlaylistHandler(manager)

	// =========================
	// ROUTES
	// =========================
	router := routes.SetupRoutes(
		authHandler,
		homeHandler,
		playerHandler,
		songHandler,
		playlistHandler,
	)

	// =========================
	// PORT
	// =========================
	port := os.Getenv("PORT")
	if port == "" {
		port = config.GlobalConfig.ServerPort
	}
	if port == "" {
		port = "8080"
	}

	bindAddr := "0.0.0.0:" + port

	// =========================
	// SERVER CONFIG
	// =========================
	server := &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// =========================
	// START SERVER
	// =========================
	go func() {
		log.Println("🎵 =======================================")
		log.Println("🎵   STREAM HOME API")
		log.Println("🎵 =======================================")
		log.Printf("🎵   Running on: %s", bindAddr)
		log.Println("🎵 =======================================")
		log.Println("🚀 Server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("❌ Server error:", err)
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("✅ Server exited properly")
}
