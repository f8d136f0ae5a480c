// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values.
const (
	EnvDatabaseURL       = "DATABASE_URL"
	EnvAPIKey            = "GEMINI_API_KEY"
	EnvStorageBasePath   = "STORAGE_BASE_PATH"
	EnvMaxUploadSize     = "MAX_UPLOAD_SIZE"
	EnvPort              = "PORT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvTranscriptionTier = "TRANSCRIPTION_TIER"
)

// Defaults
const (
	DefaultPort          = 8080
	DefaultStoragePath   = ".data/blobs"
	DefaultMaxUploadSize = "25MB"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config represents the configuration that can be loaded from a JSON or TOML file.
// All fields are optional; missing values use defaults or come from CLI flags.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty" toml:"api_key"`           // Gemini API key
	Verbose     bool   `json:"verbose,omitempty" toml:"verbose"`           // Print detailed debug information

	Server        ServerConfig        `json:"server" toml:"server"`
	Storage       StorageConfig       `json:"storage" toml:"storage"`
	Logging       LoggingConfig       `json:"logging" toml:"logging"`
	Parser        ParserConfig        `json:"parser" toml:"parser"`
	Transcription TranscriptionConfig `json:"transcription" toml:"transcription"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" toml:"port"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" toml:"allowed_origins"`
}

// StorageConfig configures the filesystem blob store.
type StorageConfig struct {
	BasePath      string `json:"base_path,omitempty" toml:"base_path"`
	MaxUploadSize string `json:"max_upload_size,omitempty" toml:"max_upload_size"` // e.g. "25MB"

	maxUploadBytes int64
}

// MaxUploadSizeBytes returns the parsed upload limit. Only valid after Finalize.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadBytes
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" toml:"level"`   // debug, info, warn, error
	Format string `json:"format,omitempty" toml:"format"` // text or json
}

// ParserConfig tunes minutes parsing.
type ParserConfig struct {
	// SignatureNames are officer names whose lines are dropped from resolution text.
	SignatureNames []string `json:"signature_names,omitempty" toml:"signature_names"`
}

// TranscriptionConfig configures audio transcription.
type TranscriptionConfig struct {
	Tier string `json:"tier,omitempty" toml:"tier"` // lite, standard, advanced
}

// LoadConfig loads configuration from a JSON or TOML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Default returns a configuration with defaults and environment overrides applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.Validate()
}

func (c *Config) loadDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Storage.BasePath == "" {
		c.Storage.BasePath = DefaultStoragePath
	}
	if c.Storage.MaxUploadSize == "" {
		c.Storage.MaxUploadSize = DefaultMaxUploadSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.Storage.BasePath = v
	}
	if v := os.Getenv(EnvMaxUploadSize); v != "" {
		c.Storage.MaxUploadSize = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvTranscriptionTier); v != "" {
		c.Transcription.Tier = v
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields such as the API key since only
// some commands need them.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}

	if c.Storage.MaxUploadSize != "" {
		size, err := units.FromHumanSize(c.Storage.MaxUploadSize)
		if err != nil {
			return fmt.Errorf("config error: invalid 'storage.max_upload_size': %w", err)
		}
		if size <= 0 {
			return fmt.Errorf("config error: 'storage.max_upload_size' must be positive")
		}
		c.Storage.maxUploadBytes = size
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'logging.format' must be text or json")
	}

	switch strings.ToLower(c.Transcription.Tier) {
	case "", "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: 'transcription.tier' must be lite, standard or advanced")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Storage.BasePath == "" {
		result.Storage.BasePath = defaults.Storage.BasePath
	}
	if result.Storage.MaxUploadSize == "" {
		result.Storage.MaxUploadSize = defaults.Storage.MaxUploadSize
	}
	if result.Logging.Level == "" {
		result.Logging.Level = defaults.Logging.Level
	}
	if result.Logging.Format == "" {
		result.Logging.Format = defaults.Logging.Format
	}
	if result.Transcription.Tier == "" {
		result.Transcription.Tier = defaults.Transcription.Tier
	}

	// Int fields: use default if zero
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}

	// Slices: use default if empty
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if len(result.Parser.SignatureNames) == 0 {
		result.Parser.SignatureNames = defaults.Parser.SignatureNames
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
