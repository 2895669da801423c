package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production"` // development, staging, production

	// Completion provider
	OpenAIAPIKey      string
	OpenAIAPIURL      string        `validate:"required,url"`
	OpenAIModel       string        `validate:"required"`
	OpenAITemperature float64       `validate:"gte=0,lte=2"`
	OpenAITimeout     time.Duration `validate:"gte=0"` // 0 keeps the http.Client default (no timeout)

	// Uploads
	MaxUploadBytes int64 `validate:"gt=0"`

	// CORS
	FrontendOrigin string `validate:"required,url"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (development only). Real env takes precedence.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL:      getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAITemperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
		OpenAITimeout:     getEnvDuration("OPENAI_TIMEOUT", 0),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
		FrontendOrigin:    getEnv("FRONTEND_ORIGIN", "https://ai-resume-frontend-mg.vercel.app"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// WriteTimeout is the server write deadline. It is unbounded while the
// provider call is, and otherwise leaves headroom past OPENAI_TIMEOUT.
func (c *Config) WriteTimeout() time.Duration {
	if c.OpenAITimeout <= 0 {
		return 0
	}
	return c.OpenAITimeout + writeTimeoutHeadroom
}

const writeTimeoutHeadroom = 30 * time.Second

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
