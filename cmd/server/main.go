// cmd/server/main.go
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

	"github.com/gin-gonic/gin"
	"github.com/stocksense/inventory-backend/internal/config"
	"github.com/stocksense/inventory-backend/internal/database"
	"github.com/stocksense/inventory-backend/internal/repository"
	"github.com/stocksense/inventory-backend/internal/router"
	"github.com/stocksense/inventory-backend/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router and the enrichment pipeline it shares with the scheduler
	r, enrichmentService := router.Initialize(db, cfg)

	// Start the enrichment scheduler
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()

	var sched *scheduler.EnrichmentScheduler
	if cfg.Enrichment.Enabled {
		sched = scheduler.New(
			enrichmentService,
			repository.NewProductRepository(db),
			cfg.Enrichment.OperatorEmail,
			time.Duration(cfg.Enrichment.IntervalMinutes)*time.Minute,
		)
		go sched.Start(schedCtx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop the scheduler before the HTTP surface so no enrichment run
	// starts while connections drain.
	if sched != nil {
		sched.Stop()
	}
	schedCancel()

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
