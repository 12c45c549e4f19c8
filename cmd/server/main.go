// Package main implements the entry point for the jobagent server, which
// orchestrates job-search automation: scraping postings, matching them
// against a candidate profile, and generating application documents as
// tracked background operations.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jcarver/jobagent/internal/api"
	"github.com/jcarver/jobagent/internal/batchstore"
	"github.com/jcarver/jobagent/internal/config"
	"github.com/jcarver/jobagent/internal/docstore"
	"github.com/jcarver/jobagent/internal/domain"
	"github.com/jcarver/jobagent/internal/extraction"
	"github.com/jcarver/jobagent/internal/operation"
	"github.com/jcarver/jobagent/internal/platform/gemini"
	"github.com/jcarver/jobagent/internal/platform/logger"
	"github.com/jcarver/jobagent/internal/resolver"
	"github.com/jcarver/jobagent/internal/scraper"
	"github.com/jcarver/jobagent/internal/service"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_key_present", cfg.LLM.GeminiAPIKey != "")

	ctx := context.Background()

	// Collaborators.
	scrapeClient := scraper.New(scraper.Config{
		Timeout:    cfg.Scraper.Timeout(),
		MaxRetries: cfg.Scraper.MaxRetries,
		RetryDelay: cfg.Scraper.RetryDelay(),
		UserAgent:  cfg.Scraper.UserAgent,
	}, appLogger)

	var extractor extraction.Service
	if cfg.LLM.GeminiAPIKey != "" {
		extractor, err = gemini.New(ctx, gemini.Config{
			APIKey:            cfg.LLM.GeminiAPIKey,
			Model:             cfg.LLM.Model,
			Timeout:           cfg.LLM.Timeout(),
			MaxRetries:        cfg.LLM.MaxRetries,
			RetryDelaySeconds: cfg.LLM.RetryDelaySeconds,
		}, appLogger)
		if err != nil {
			return fmt.Errorf("creating gemini client: %w", err)
		}
	} else {
		appLogger.Warn("gemini API key not set; operations needing the LLM will fail")
		extractor = extraction.Unconfigured{}
	}

	batches, err := batchstore.New(cfg.Storage.BatchDir, appLogger)
	if err != nil {
		return fmt.Errorf("creating batch store: %w", err)
	}

	documents, err := docstore.New(cfg.Storage.DocumentsDir, appLogger)
	if err != nil {
		return fmt.Errorf("creating document store: %w", err)
	}

	thresholds := domain.SufficiencyThresholds{
		MinDescriptionLength: cfg.Sufficiency.MinDescriptionLength,
	}
	jobResolver := resolver.New(scrapeClient, batches, extractor, thresholds, appLogger)

	// Orchestrator.
	registry := operation.NewRegistry(operation.RegistryConfig{
		CompletedTTL: cfg.Worker.CompletedOperationTTL(),
	}, appLogger)
	registry.Start()

	launcher := operation.NewLauncher(registry, appLogger)
	bulk := operation.NewBulkRunner(operation.BulkRunnerConfig{
		MaxConcurrency: cfg.Worker.BulkMaxConcurrency,
	}, appLogger)

	operationService, err := service.NewOperationService(
		launcher, registry, bulk,
		jobResolver, scrapeClient, extractor, batches, documents,
		cfg.Scraper.SearchBaseURLs,
		appLogger,
	)
	if err != nil {
		return fmt.Errorf("creating operation service: %w", err)
	}

	handler := api.NewOperationHandler(operationService, appLogger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		appLogger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown incomplete", "error", err)
	}

	// In-flight operations get the same deadline to unwind cooperatively.
	if err := launcher.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("operation shutdown incomplete", "error", err)
	}

	registry.Stop()
	appLogger.Info("shutdown complete")
	return nil
}
