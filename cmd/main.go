package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"podtrend/internal/api"
	"podtrend/internal/cache"
	"podtrend/internal/config"
	"podtrend/internal/logger"
	"podtrend/internal/middleware"
	"podtrend/internal/podchaser"
	"podtrend/internal/translate"
	"podtrend/internal/trends"
	"podtrend/internal/tts"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting application...")

	if !cfg.HasPodchaserCredentials() {
		log.Warn().Msg("Podchaser credentials are not configured; trends will use fallback data")
	}
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not configured; narration requests will fail")
	}

	// Select the snapshot store: Redis when configured, in-memory otherwise.
	var store cache.SnapshotStore
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis snapshot store")
		}
		store = redisStore
		log.Info().Msg("Using Redis snapshot store")
	} else {
		store = cache.NewMemoryStore()
		log.Info().Msg("Using in-memory snapshot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()

	// Wire the pipeline
	catalog := podchaser.NewClient(cfg.PodchaserClientID, cfg.PodchaserClientSecret)
	aggregator := trends.NewAggregator(catalog, store, cfg.SnapshotTTL)
	translator := translate.NewClient(cfg.TranslateEndpoint, cfg.TranslateAPIKey)
	live := tts.NewLiveClient(cfg.GeminiAPIKey, cfg.TTSVoice, cfg.TTSTimeout)
	synth := tts.NewSynthesizer(live, translator, cfg.AudioDir)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// Setup API routes
	api.SetupRoutes(app, cfg, aggregator, synth)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
