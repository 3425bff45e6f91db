package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"melodix/internal/config"
	"melodix/internal/db"
	"melodix/internal/logger"
	"melodix/internal/notify"
	"melodix/internal/router"
	"melodix/internal/services"
	"melodix/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel, cfg.LogPretty)
	log.Info().Msg("Starting Melodix API")

	dialect, err := db.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported database driver")
	}

	database, err := db.InitDB(dialect, cfg.DBUrl)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Database connection failed")
	}
	defer database.Close()

	if cfg.DBBootstrap {
		if err := db.Bootstrap(context.Background(), database, dialect); err != nil {
			log.Fatal().Err(err).Msg("Catalog schema bootstrap failed")
		}
		log.Info().Msg("Catalog schema ready")
	}

	mongoClient, err := db.InitMongo(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Document store connection failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Error disconnecting document store")
		}
	}()

	documents := mongoClient.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(context.Background(), documents); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	notifier, err := notify.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up mail transport")
	}
	defer notifier.Close()

	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, log)
	productService := services.NewProductService(database, dialect, log)

	handler := router.SetupRouter(router.Services{
		Auth: authService,
		Users: services.NewUserService(store.NewUserStore(documents), authService, notifier, log, services.UserServiceConfig{
			BcryptCost:    cfg.BcryptCost,
			ResetTokenTTL: cfg.ResetTokenTTL,
			FrontendURL:   cfg.FrontendURL,
		}),
		Products:  productService,
		Contacts:  services.NewContactService(store.NewContactStore(documents), notifier, log),
		Favorites: services.NewFavoriteService(store.NewFavoriteStore(documents), productService, log),
		Reviews:   services.NewReviewService(store.NewReviewStore(documents), productService, log),
	}, cfg, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
