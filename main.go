package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"clemfr/grantwatch/config"
	"clemfr/grantwatch/internal/digest"
	"clemfr/grantwatch/internal/extractor"
	"clemfr/grantwatch/internal/fetcher"
	"clemfr/grantwatch/logger"
	"clemfr/grantwatch/services/notifier"
	"clemfr/grantwatch/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration before any network call
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("model", cfg.LLMModel).
		Int("sources", len(cfg.Sources)).
		Msg("Starting grants run")

	// Set up context with cancellation on shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Build the pipeline
	strategies := fetcher.CreateStrategies(cfg)
	ext := extractor.New(cfg)
	webhook := notifier.NewWebhookNotifier(cfg.WebhookURL, cfg.FetchTimeout)
	defer webhook.Close()
	formatter := digest.NewFormatter(cfg.MaxDigestEntries, cfg.MaxMessageLength)

	w := worker.NewWorker(strategies, ext, webhook, formatter, cfg)

	// Execute one run
	report, err := w.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		return 1
	}

	log.Info().
		Int("grants", report.GrantsFound).
		Int("sources_processed", report.SourcesProcessed).
		Int("sources_failed", report.SourcesFailed).
		Dur("duration", report.Duration).
		Bool("notified", report.Notified).
		Msg("Run complete")

	return 0
}
