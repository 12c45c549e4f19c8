package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Scraper     ScraperConfig     `mapstructure:"scraper" validate:"required"`
	LLM         LLMConfig         `mapstructure:"llm" validate:"required"`
	Worker      WorkerConfig      `mapstructure:"worker" validate:"required"`
	Sufficiency SufficiencyConfig `mapstructure:"sufficiency" validate:"required"`
	Storage     StorageConfig     `mapstructure:"storage" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// ShutdownTimeout returns the graceful shutdown bound as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// ScraperConfig contains the scraping client settings.
type ScraperConfig struct {
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int      `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int      `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	UserAgent         string   `mapstructure:"user_agent" validate:"required"`
	SearchBaseURLs    []string `mapstructure:"search_base_urls" validate:"dive,url"`
}

// Timeout returns the per-fetch bound as a duration.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base delay between fetch attempts.
func (c ScraperConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// LLMConfig contains the Gemini integration settings. The API key is
// deliberately not required at load time: a missing credential surfaces as
// a configuration error on the operations that need it, so read-only
// endpoints keep working without one.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	Model             string `mapstructure:"model" validate:"required"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// Timeout returns the per-call bound as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WorkerConfig contains the operation orchestrator settings.
type WorkerConfig struct {
	BulkMaxConcurrency        int `mapstructure:"bulk_max_concurrency" validate:"required,gt=0,lte=64"`
	CompletedOperationTTLMins int `mapstructure:"completed_operation_ttl_minutes" validate:"gte=0"`
}

// CompletedOperationTTL returns how long terminal operations stay
// queryable.
func (c WorkerConfig) CompletedOperationTTL() time.Duration {
	return time.Duration(c.CompletedOperationTTLMins) * time.Minute
}

// SufficiencyConfig contains the content sufficiency thresholds.
type SufficiencyConfig struct {
	MinDescriptionLength int `mapstructure:"min_description_length" validate:"required,gt=0"`
}

// StorageConfig contains the on-disk storage locations.
type StorageConfig struct {
	BatchDir     string `mapstructure:"batch_dir" validate:"required"`
	DocumentsDir string `mapstructure:"documents_dir" validate:"required"`
}
