// Package main implements resumectl, a command-line front end to the resume evaluation pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/resumehelp-api/internal/config"
	"github.com/yourusername/resumehelp-api/internal/extract"
	"github.com/yourusername/resumehelp-api/internal/handler"
	"github.com/yourusername/resumehelp-api/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "resumectl",
	Short:         "Evaluate resumes from the command line",
	Long:          "resumectl runs the same analysis, ranking and improvement pipeline as the HTTP API against local PDF or DOCX files.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	},
}

var (
	apiKey  string
	outFile string
	verbose bool
)

// Swapped out in tests
var (
	newCompleter = func(cfg *config.Config) service.Completer {
		return service.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL, cfg.OpenAIModel, cfg.OpenAITemperature, cfg.OpenAITimeout)
	}
	extractor handler.TextExtractor = extract.New()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVarP(&outFile, "out", "o", "", "Write the JSON result to this file instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newAnalyzer builds the pipeline from env config, honoring --api-key
func newAnalyzer() (*service.Analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.OpenAIAPIKey = apiKey
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("API key is required (set OPENAI_API_KEY environment variable or use --api-key flag)")
	}
	return service.NewAnalyzer(newCompleter(cfg)), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
