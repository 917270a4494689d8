package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/config"
	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/deck"
	"github.com/aristath/stockpitch/internal/modules/narrative"
	"github.com/aristath/stockpitch/internal/modules/pitch"
	"github.com/aristath/stockpitch/internal/modules/valuation"
	"github.com/aristath/stockpitch/internal/scheduler"
	"github.com/aristath/stockpitch/internal/server"
	"github.com/aristath/stockpitch/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Stock Pitch server")

	// Build services
	yahooClient := yahoo.NewClient(yahoo.Config{
		MaxRetries: cfg.YahooMaxRetries,
		Timeout:    time.Duration(cfg.YahooTimeoutSecs) * time.Second,
	}, log)
	valuationSvc := valuation.NewService(cfg.Valuation, log)
	analysisSvc := analysis.NewService(log)
	deckWriter := deck.NewWriter(cfg.OutputDir, log)

	// Narrative providers: the premium path needs an API credential and
	// always degrades to the template provider on failure
	templateProvider := narrative.NewTemplateProvider(log)
	var premiumProvider narrative.Provider
	if cfg.PremiumEnabled() {
		premiumProvider = narrative.NewFallbackProvider(
			narrative.NewOpenAIProvider(cfg.Narrative, log),
			templateProvider,
			log,
		)
		log.Info().Str("model", cfg.Narrative.Model).Msg("Premium narrative mode enabled")
	} else {
		log.Info().Msg("No API credential configured, narrative runs in template mode")
	}

	pitchSvc := pitch.NewService(cfg, yahooClient, valuationSvc, analysisSvc, deckWriter, premiumProvider, templateProvider, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	cleanupJob := scheduler.NewCleanupJob(cfg.OutputDir, cfg.DeckRetentionDays, log)
	if err := sched.AddJob("0 0 3 * * *", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Log:          log,
		Config:       cfg,
		PitchHandler: pitch.NewHandler(pitchSvc, log),
		Scheduler:    sched,
		CleanupJob:   cleanupJob,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
