package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"podtrend/internal/config"
	"podtrend/internal/logger"
	"podtrend/internal/trends"
	"podtrend/internal/tts"
	"podtrend/internal/utils"
)

type Handlers struct {
	config   *config.Config
	trends   *trends.Aggregator
	synth    *tts.Synthesizer
	validate *validator.Validate
}

func NewHandlers(cfg *config.Config, aggregator *trends.Aggregator, synth *tts.Synthesizer) *Handlers {
	return &Handlers{
		config:   cfg,
		trends:   aggregator,
		synth:    synth,
		validate: validator.New(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetTrends handles GET /api/v1/trends
func (h *Handlers) GetTrends(c *fiber.Ctx) error {
	option := utils.NormalizeMaxDuration(c.Query("maxDuration"))

	snapshot := h.trends.Snapshot(c.Context(), trends.SnapshotOptions{
		ForceRefresh:       c.QueryBool("refresh"),
		MaxDurationSeconds: option.Seconds(),
	})

	return c.JSON(fiber.Map{
		"maxDuration": option,
		"generatedAt": snapshot.GeneratedAt,
		"categories":  snapshot.Categories,
	})
}

// GetCategories handles GET /api/v1/categories
func (h *Handlers) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": trends.CategoryMetadata(),
	})
}

type synthesizeRequest struct {
	EpisodeID   string `json:"episodeId" validate:"required"`
	MaxDuration string `json:"maxDuration"`
}

// SynthesizeEpisode handles POST /api/v1/tts
func (h *Handlers) SynthesizeEpisode(c *fiber.Ctx) error {
	var req synthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "episodeId is required",
		})
	}

	option := utils.NormalizeMaxDuration(req.MaxDuration)
	episode, category, err := h.trends.FindEpisode(c.Context(), req.EpisodeID, trends.SnapshotOptions{
		MaxDurationSeconds: option.Seconds(),
	})
	if err != nil {
		if errors.Is(err, trends.ErrEpisodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Episode not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up episode",
		})
	}

	result, err := h.synth.SynthesizeEpisode(c.Context(), episode)
	if err != nil {
		logger.Get().Error().Err(err).Str("episode_id", episode.ID).Msg("TTS generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "TTS generation failed",
		})
	}

	return c.JSON(fiber.Map{
		"success":                  true,
		"audioUrl":                 result.PublicURL,
		"script":                   result.Script,
		"estimatedDurationSeconds": result.EstimatedDurationSeconds,
		"episodeId":                episode.ID,
		"categoryId":               category.ID,
	})
}
