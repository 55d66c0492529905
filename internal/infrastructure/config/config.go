package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "PATHVAULT_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Vault     VaultConfig     `yaml:"vault" toml:"vault"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" yaml:"host" toml:"host"`
}

// VaultConfig holds the filesystem gateway configuration.
type VaultConfig struct {
	BaseDir        string `envconfig:"VAULT_BASE_DIR" yaml:"base_dir" toml:"base_dir"`
	MaxTreeDepth   int    `envconfig:"VAULT_MAX_TREE_DEPTH" yaml:"max_tree_depth" toml:"max_tree_depth"`
	MaxUploadBytes int64  `envconfig:"VAULT_MAX_UPLOAD_BYTES" yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration. RequestsPerSecond and
// Burst apply per client IP; GlobalRequestsPerSecond caps the whole server
// and is off when zero.
type RateLimitConfig struct {
	RequestsPerSecond       int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst                   int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	GlobalRequestsPerSecond int  `envconfig:"RATE_LIMIT_GLOBAL_RPS" yaml:"global_requests_per_second" toml:"global_requests_per_second"`
	Enabled                 bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// Load builds configuration from defaults, then the file named by
// PATHVAULT_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// No default tags on the fields: envconfig only overwrites what is set.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Vault: VaultConfig{
			BaseDir:        "./storage",
			MaxTreeDepth:   64,
			MaxUploadBytes: 32 << 20,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
