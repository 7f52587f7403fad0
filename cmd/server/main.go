package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-discovery-service/internal/config"
	"movie-discovery-service/internal/handler"
	"movie-discovery-service/internal/repository"
	"movie-discovery-service/internal/service"
	"movie-discovery-service/pkg/httpclient"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	// Load configuration
	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown LOG_LEVEL, using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}

	log.Info().
		Str("port", cfg.Port).
		Str("mode", cfg.GinMode).
		Int("tokens", len(cfg.TMDBAPITokens)).
		Msg("🚀 Starting movie-discovery-service")

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Metrics are optional
	var metrics *repository.Metrics
	if cfg.MetricsEnabled() {
		m, err := repository.NewMetrics(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize metrics")
		}
		defer m.Close()
		m.RecordServerStart(context.Background())
		metrics = m
		log.Info().Msg("📊 Metrics enabled")
	} else {
		log.Info().Msg("REDIS_URL not set, metrics disabled")
	}

	// Initialize services
	httpClient := httpclient.NewClient(cfg.HTTPTimeout)
	tmdbService := service.NewTMDBService(
		cfg.TMDBAPITokens,
		cfg.TMDBBaseURL,
		cfg.TMDBImageBase,
		service.WithHTTPClient(httpClient),
		service.WithImages(service.NewImages(cfg.TMDBImageBase, cfg.ImagePlaceholder)),
	)
	log.Info().Int("tokens", tmdbService.TokenCount()).Msg("🎬 TMDB service enabled (轮询模式)")

	r := handler.NewRouter(handler.RouterConfig{
		TMDB:        tmdbService,
		Metrics:     metrics,
		AdminAPIKey: cfg.AdminAPIKey,
		HeroLimit:   cfg.HeroLimit,
	})

	// 日志输出认证状态
	if cfg.AdminAPIKey != "" {
		log.Info().Msg("🔐 Admin API 认证已启用")
	} else {
		log.Warn().Msg("⚠️  Admin API 未配置认证，管理接口对外开放")
	}

	// Create HTTP server with graceful shutdown support
	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("🌐 Server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("👋 Server exited")
}
