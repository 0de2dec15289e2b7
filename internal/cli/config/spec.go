package config

import "time"

// CLIConfig is the configuration for mcp-cli.
type CLIConfig struct {
	// Server is the MCP server base URL.
	Server string `koanf:"server" yaml:"server"`

	// Output is the default output format: table, json, yaml.
	Output string `koanf:"output" yaml:"output"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`

	// IdleWindow is the inactivity window for non-durable interactive
	// sessions.
	IdleWindow time.Duration `koanf:"idle_window" yaml:"idle_window"`

	// LogLevel controls diagnostic log verbosity.
	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:     "http://localhost:8000",
		Output:     "table",
		Timeout:    30 * time.Second,
		IdleWindow: 5 * time.Minute,
		LogLevel:   "warn",
	}
}
