package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/food-guardian/internal/config"
	"github.com/jwebster45206/food-guardian/internal/handlers"
	"github.com/jwebster45206/food-guardian/internal/logger"
	"github.com/jwebster45206/food-guardian/internal/middleware"
	"github.com/jwebster45206/food-guardian/internal/storage"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Food Guardian API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"story_file", cfg.StoryFile)

	graph, err := story.Load(cfg.StoryFile)
	if err != nil {
		log.Error("Failed to load story", "error", err, "file", cfg.StoryFile)
		os.Exit(1)
	}
	log.Info("Story loaded", "nodes", graph.Len(), "start", graph.Start())
	if unreachable := graph.Unreachable(); len(unreachable) > 0 {
		log.Warn("Story has unreachable nodes", "nodes", unreachable)
	}

	var store storage.Storage
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, keeping sessions in memory")
		store = storage.NewMemoryStorage()
	} else {
		redisStore, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
		if err != nil {
			log.Error("Failed to configure storage", "error", err)
			os.Exit(1)
		}
		storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer storageCancel()
		if err := redisStore.WaitForConnection(storageCtx); err != nil {
			log.Error("Failed to connect to storage", "error", err)
			os.Exit(1)
		}
		log.Info("Storage connection established successfully", "session_ttl", cfg.SessionTTL)
		store = redisStore
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	storyHandler := handlers.NewStoryHandler(graph, log)
	mux.Handle("/v1/story", storyHandler)

	sessionHandler := handlers.NewSessionHandler(graph, store, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
