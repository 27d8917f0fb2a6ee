package api

import (
	"github.com/gofiber/fiber/v2"

	"podtrend/internal/config"
	"podtrend/internal/trends"
	"podtrend/internal/tts"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, aggregator *trends.Aggregator, synth *tts.Synthesizer) {
	handlers := NewHandlers(cfg, aggregator, synth)

	// Generated narration audio is served straight from disk.
	app.Static("/audio", cfg.AudioDir)

	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)
	api.Get("/trends", handlers.GetTrends)
	api.Get("/categories", handlers.GetCategories)
	api.Post("/tts", handlers.SynthesizeEpisode)

	// Unmatched routes fall through to the router, which reports 404 for
	// unknown paths and 405 for known paths hit with the wrong method;
	// both render through the app error handler.
}
