// Package config defines the application configuration structures and
// loading logic. Configuration comes from an optional YAML file overridden
// by JOBAGENT_-prefixed environment variables, and is validated before use.
package config
