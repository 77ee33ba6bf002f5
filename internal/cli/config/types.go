// Package config loads fieldguide settings from defaults, fieldguide.yaml,
// FIELDGUIDE_ environment variables and command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Dataset   string       `koanf:"dataset"`
	Format    string       `koanf:"format"`
	Table     string       `koanf:"table"`
	Locale    string       `koanf:"locale"`
	Verbose   bool         `koanf:"verbose"`
	Output    string       `koanf:"output"`
	Clipboard string       `koanf:"clipboard"`
	Log       LogConfig    `koanf:"log"`
	Fetch     FetchConfig  `koanf:"fetch"`
	Schema    SchemaConfig `koanf:"schema"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// FetchConfig bounds remote dataset reads.
type FetchConfig struct {
	Timeout  time.Duration `koanf:"timeout"`
	Insecure bool          `koanf:"insecure"`
	MaxBytes int64         `koanf:"max_bytes"`
}

// SchemaConfig adjusts field role inference.
type SchemaConfig struct {
	// Strict leaves the symptom id unresolved when several fields match.
	Strict bool `koanf:"strict"`
	// Fields pins roles (by snake_case key, e.g. "spare_part") to field names.
	Fields map[string]string `koanf:"fields"`
}

// Default configuration values.
const (
	DefaultLocale    = "en"
	DefaultOutput    = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultClipboard = "auto"
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 64 << 20
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Locale:    DefaultLocale,
		Output:    DefaultOutput,
		Clipboard: DefaultClipboard,
		Log:       LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Fetch:     FetchConfig{Timeout: DefaultTimeout, MaxBytes: DefaultMaxBytes},
	}
}
