package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/codyseavey/chocobo-tracker/internal/api"
	"github.com/codyseavey/chocobo-tracker/internal/config"
	"github.com/codyseavey/chocobo-tracker/internal/database"
	"github.com/codyseavey/chocobo-tracker/internal/services"
)

func main() {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.RegisterFlags(fs)

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize key-value store
	kv, closeStore, err := database.Open(ctx, cfg.Store, cfg.Log.SQLLevel)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	// Initialize services
	collectionStore := services.NewCollectionStore(kv, cfg.Store.PrimaryKey, cfg.Store.LegacyKey)
	cardService := services.NewCardService(collectionStore)
	statsService := services.NewStatsService()

	// Load once at startup so legacy migration or seeding happens before
	// the first request, and a broken store fails fast
	startupCtx, startupCancel := context.WithTimeout(ctx, 10*time.Second)
	cards, err := collectionStore.GetCollection(startupCtx)
	startupCancel()
	if err != nil {
		log.Fatalf("Failed to load collection: %v", err)
	}
	log.Printf("Loaded %d cards (%d found)", len(cards), services.Progress(cards).Found)
	statsService.Compute(cards)

	if cfg.Admin.Token == "" {
		log.Println("WARNING: admin.token is not set; mutation routes are open to anyone")
	}

	router := api.SetupRouter(cfg, cardService, statsService)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
