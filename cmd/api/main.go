// main.go - The entry point and router setup.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bosocmputer/sar_caption_gemini/configs"
	"github.com/bosocmputer/sar_caption_gemini/internal/ai"
	"github.com/bosocmputer/sar_caption_gemini/internal/api"
	"github.com/gin-gonic/gin"
)

func main() {
	// Step 0: Load configuration from environment variables
	cfg := configs.LoadConfig()

	// Step 0.5: Set production mode
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Step 1: Create the caption provider and requester
	provider, err := ai.CreateCaptionProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create caption provider: %v", err)
	}
	requester := ai.NewCaptionRequester(provider)

	// Step 2: Initialize the Gin router
	router := api.NewRouter(cfg, requester)

	// Step 3: Setup HTTP server. WriteTimeout stays generous since the
	// model call has no deadline of its own.
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   3 * time.Minute,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /")
		log.Println("  POST /caption")
		log.Println("  POST /api/v1/caption")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
