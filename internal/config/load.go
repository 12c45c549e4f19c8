package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional YAML file and environment
// variables, then validates it. Environment variables take precedence and
// use the JOBAGENT_ prefix with underscores for nesting, e.g.
// JOBAGENT_SERVER_PORT or JOBAGENT_LLM_GEMINI_API_KEY.
//
// Returns a populated Config or an error describing what failed
// loading/validation.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults plus environment carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("JOBAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults establishes defaults for everything that has a sensible one.
// Secrets have no default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 20)

	v.SetDefault("scraper.timeout_seconds", 15)
	v.SetDefault("scraper.max_retries", 2)
	v.SetDefault("scraper.retry_delay_seconds", 1)
	v.SetDefault("scraper.user_agent", "jobagent/1.0")

	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.timeout_seconds", 45)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("worker.bulk_max_concurrency", 4)
	v.SetDefault("worker.completed_operation_ttl_minutes", 60)

	v.SetDefault("sufficiency.min_description_length", 120)

	v.SetDefault("storage.batch_dir", "data/batches")
	v.SetDefault("storage.documents_dir", "data/documents")
}
