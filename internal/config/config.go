package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Podchaser catalog credentials. Both may be empty: the aggregator
	// then serves static fallback trends instead of live data.
	PodchaserClientID     string `json:"podchaser_client_id"`
	PodchaserClientSecret string `json:"podchaser_client_secret"`

	// Speech synthesis (Gemini Live)
	GeminiAPIKey string        `json:"gemini_api_key"`
	TTSVoice     string        `json:"tts_voice"`
	TTSTimeout   time.Duration `json:"tts_timeout"`

	// Translation (LibreTranslate-compatible endpoint)
	TranslateEndpoint string `json:"translate_endpoint"`
	TranslateAPIKey   string `json:"translate_api_key"`

	// Snapshot cache. RedisURL is optional; when empty an in-memory
	// store is used instead.
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	SnapshotTTL time.Duration `json:"snapshot_ttl"`

	// Generated audio files are written here and served at /audio.
	AudioDir string `json:"audio_dir"`

	// Logging
	LogLevel string `json:"log_level"`
}

// Load loads configuration from environment variables
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		PodchaserClientID:     getEnv("PODCHASER_API_KEY", ""),
		PodchaserClientSecret: getEnv("PODCHASER_API_SECRET", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		TTSVoice:     getEnv("TTS_VOICE", "Zephyr"),
		TTSTimeout:   getEnvAsDuration("TTS_TIMEOUT", 120*time.Second),

		TranslateEndpoint: getEnv("LIBRE_TRANSLATE_API_URL", "https://libretranslate.com/translate"),
		TranslateAPIKey:   getEnv("LIBRE_TRANSLATE_API_KEY", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "podtrend:"),
		SnapshotTTL: getEnvAsDuration("SNAPSHOT_TTL", time.Hour),

		AudioDir: getEnv("AUDIO_DIR", "./public/audio"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// HasPodchaserCredentials reports whether live catalog access is configured.
func (c *Config) HasPodchaserCredentials() bool {
	return c.PodchaserClientID != "" && c.PodchaserClientSecret != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
