package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumehelp-api/internal/config"
	"github.com/yourusername/resumehelp-api/internal/extract"
	"github.com/yourusername/resumehelp-api/internal/handler"
	"github.com/yourusername/resumehelp-api/internal/service"
)

func main() {
	// ── Logging ──────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// ── Config ───────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("model", cfg.OpenAIModel).
		Str("frontendOrigin", cfg.FrontendOrigin).
		Msg("Starting ResumeHelp API")

	if cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; evaluation requests will fail")
	}

	// ── Services ─────────────────────────────────────────
	openai := service.NewOpenAIClient(
		cfg.OpenAIAPIKey,
		cfg.OpenAIAPIURL,
		cfg.OpenAIModel,
		cfg.OpenAITemperature,
		cfg.OpenAITimeout,
	)
	analyzer := service.NewAnalyzer(openai)

	// ── Handlers ─────────────────────────────────────────
	analyzeHandler := handler.NewAnalyzeHandler(analyzer, extract.New(), cfg.MaxUploadBytes)

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(analyzeHandler, cfg.FrontendOrigin)

	// ── Server ───────────────────────────────────────────
	// Writes must outlast the provider call, which has no deadline unless OPENAI_TIMEOUT is set
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("ResumeHelp API server running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
