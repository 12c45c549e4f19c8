package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 4, cfg.Worker.BulkMaxConcurrency)
	assert.Equal(t, 120, cfg.Sufficiency.MinDescriptionLength)
	assert.Equal(t, "data/batches", cfg.Storage.BatchDir)
	assert.Equal(t, "data/documents", cfg.Storage.DocumentsDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JOBAGENT_SERVER_PORT", "9090")
	t.Setenv("JOBAGENT_SERVER_LOG_LEVEL", "debug")
	t.Setenv("JOBAGENT_LLM_GEMINI_API_KEY", "test-key-123")
	t.Setenv("JOBAGENT_WORKER_BULK_MAX_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "test-key-123", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 8, cfg.Worker.BulkMaxConcurrency)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("JOBAGENT_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating config")
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("JOBAGENT_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}

func TestDurationHelpers(t *testing.T) {
	t.Parallel()

	server := ServerConfig{ShutdownTimeoutSeconds: 20}
	assert.Equal(t, 20*time.Second, server.ShutdownTimeout())

	scraper := ScraperConfig{TimeoutSeconds: 15, RetryDelaySeconds: 2}
	assert.Equal(t, 15*time.Second, scraper.Timeout())
	assert.Equal(t, 2*time.Second, scraper.RetryDelay())

	llm := LLMConfig{TimeoutSeconds: 45}
	assert.Equal(t, 45*time.Second, llm.Timeout())

	worker := WorkerConfig{CompletedOperationTTLMins: 60}
	assert.Equal(t, time.Hour, worker.CompletedOperationTTL())
}
