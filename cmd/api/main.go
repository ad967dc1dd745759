package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stocklens/backend-go/internal/api"
	"github.com/stocklens/backend-go/internal/assistant"
	"github.com/stocklens/backend-go/internal/auth"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/stocklens/backend-go/internal/service"
	"github.com/stocklens/backend-go/internal/storage"
	"github.com/stocklens/backend-go/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	seriesCache, err := cache.NewSeriesCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize series cache")
	}

	var archive storage.Archive = storage.NewNoopArchive()
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioArchive(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to initialize upload archive")
		}
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Log.Fatal().Msg("JWT_SECRET must be configured")
	}
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	datasetRepo := postgres.NewDatasetRepository(db)
	userRepo := postgres.NewUserRepository(db)

	assistantClient := assistant.NewClient(cfg.Assistant)
	if assistantClient == nil {
		logger.Log.Warn().Msg("no assistant API key configured; chat endpoint disabled")
	}

	services := &api.Services{
		Datasets:  service.NewDatasetService(datasetRepo, archive, seriesCache),
		Assistant: service.NewAssistantService(datasetRepo, assistantClient),
		Auth:      service.NewAuthService(userRepo, tokens),
		Tokens:    tokens,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
