// Package config provides tasktape configuration with viper-backed layering:
// CLI flags over environment variables over config.toml over defaults.
package config

import "time"

// Config represents the full tasktape configuration. The TOML layout uses
// sections for logical grouping.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	API     APIConfig     `mapstructure:"api" toml:"api"`
	Agent   AgentConfig   `mapstructure:"agent" toml:"agent"`
}

// StorageConfig holds database settings. When PostgresURL is set it takes
// precedence over SQLitePath; an empty SQLitePath means in-memory.
type StorageConfig struct {
	SQLitePath  string `mapstructure:"sqlite_path" toml:"sqlite_path,omitempty"`
	PostgresURL string `mapstructure:"postgres_url" toml:"postgres_url,omitempty"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Listen string `mapstructure:"listen" toml:"listen,omitempty"`
}

// AgentConfig holds LLM and orchestration settings.
type AgentConfig struct {
	Provider       string  `mapstructure:"provider" toml:"provider,omitempty"`
	Model          string  `mapstructure:"model" toml:"model,omitempty"`
	BaseURL        string  `mapstructure:"base_url" toml:"base_url,omitempty"`
	APIKey         string  `mapstructure:"api_key" toml:"api_key,omitempty"`
	Temperature    float64 `mapstructure:"temperature" toml:"temperature,omitempty"`
	MaxTokens      int     `mapstructure:"max_tokens" toml:"max_tokens,omitempty"`
	TopP           float64 `mapstructure:"top_p" toml:"top_p,omitempty"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" toml:"timeout_seconds,omitempty"`
}

// Timeout returns the per-run agent deadline as a duration.
func (a AgentConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}
