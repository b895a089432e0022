// Package main provides the failparse API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/failparse/failparse/internal/api"
	"github.com/failparse/failparse/internal/config"
	"github.com/failparse/failparse/internal/enhance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Wire the engine explicitly: stateless enhancer plus the per-process
	// progressive tracker.
	engine := enhance.NewEngine()
	enhancer := enhance.NewEnhancer(engine)
	tracker := enhance.NewTracker(enhancer, cfg.Retention)

	server := api.NewServer(api.Config{
		Enhancer:     enhancer,
		Tracker:      tracker,
		UpdateRate:   cfg.UpdateRate,
		UpdateBurst:  cfg.UpdateBurst,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped")
}
