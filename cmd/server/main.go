package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vinoteca/backend/config"
	httpDelivery "github.com/vinoteca/backend/internal/delivery/http"
	"github.com/vinoteca/backend/internal/infrastructure/cache"
	"github.com/vinoteca/backend/internal/infrastructure/postgres"
	"github.com/vinoteca/backend/internal/infrastructure/sampleapis"
	"github.com/vinoteca/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Vinoteca Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog: %s (TTL: %s)", cfg.Catalog.BaseURL, cfg.Catalog.TTL)

	// Relational store for accounts and favorites
	store, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Upstream catalog client + snapshot cache
	catalogClient := sampleapis.NewClient(cfg.Catalog.BaseURL)
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		log.Printf("Catalog client debug mode enabled")
	}

	catalog := cache.NewCatalogCache(catalogClient, cache.Config{
		TTL:          cfg.Catalog.TTL,
		FetchTimeout: cfg.Catalog.FetchTimeout,
	})

	// Warm the cache; failure is non-fatal, the first request retries.
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalog.Warm(warmCtx); err != nil {
		log.Printf("WARNING: cache warm failed (will retry on demand): %v", err)
	}
	cancel()

	// Pairing datasets are static; failing to load them is a deploy error.
	pairingService, err := usecase.NewPairingService(cfg.Pairings.BasicPath, cfg.Pairings.GourmetPath)
	if err != nil {
		log.Fatalf("Failed to load pairing datasets: %v", err)
	}

	wineService := usecase.NewWineService(catalog)
	authService := usecase.NewAuthService(store, usecase.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(wineService, pairingService, authService, store, store)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
