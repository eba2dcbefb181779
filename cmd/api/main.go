package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/handler"
	"shopfront/internal/repository"
	"shopfront/internal/router"
	"shopfront/internal/service"
	"shopfront/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopfront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize Redis session store
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)

	// Seed the catalogue if a seed file is configured, preferring S3
	// with a local file system fallback.
	if cfg.Catalog.SeedFile != "" {
		fileLoader := catalog.NewFileLoader(logger)
		var s3Loader catalog.Loader

		if cfg.Catalog.S3.Enabled {
			s3Loader, err = catalog.NewS3Loader(ctx, cfg.Catalog.S3.Bucket, cfg.Catalog.S3.Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
				s3Loader = nil
			}
		}

		loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.Catalog.S3.Prefix, cfg.Catalog.S3.Enabled, logger)
		seeder := catalog.NewSeeder(loader, productRepo, logger)
		if err := seeder.Run(ctx, cfg.Catalog.SeedFile); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	// Initialize session provider and cart manager
	sessionProvider := session.NewRedisProvider(redisClient, cfg.Session.Duration(), logger)
	cartManager := cart.NewManager(cartRepo, logger)

	// Initialize services and HTTP handlers
	productService := service.NewProductService(productRepo, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartManager, productService, logger)

	// Initialize router
	mux := router.New(
		productHandler,
		cartHandler,
		sessionProvider,
		cfg.Session.Duration(),
		cfg.CORS.AllowedOrigin,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
