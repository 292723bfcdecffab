// Package config loads service configuration from YAML with
// environment overrides, and supports explicit reloads through a
// watched-file signal rather than re-parsing on every request.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Storage    StorageConfig   `yaml:"storage"`
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
	Catalog    CatalogConfig   `yaml:"catalog"`
	Auth       AuthConfig      `yaml:"auth"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Path is the repository root (the original's UPLOAD_FOLDER).
	Path string `yaml:"path"`
	// MaxContentLength caps the declared size of a whole batch.
	MaxContentLength int64 `yaml:"max_content_length"`
	// MaxFileSize caps each file, measured from the actual stream.
	MaxFileSize int64 `yaml:"max_file_size"`
	// AllowedExtensions, without dots. Empty permits everything.
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

type ThumbnailConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

type CatalogConfig struct {
	GroupsPerPage int `yaml:"groups_per_page"`
}

type AuthConfig struct {
	CredentialsFile string        `yaml:"credentials_file"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration the service runs with when no file
// is present. The extension set and size ceilings mirror a small
// self-hosted photo drop.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: "8080"},
		Storage: StorageConfig{
			Path:             "./uploads",
			MaxContentLength: 100 << 20,
			MaxFileSize:      50 << 20,
			AllowedExtensions: []string{
				"jpg", "jpeg", "png", "gif",
				"pdf", "txt", "md", "zip",
			},
		},
		Thumbnails: ThumbnailConfig{MaxWidth: 800, MaxHeight: 800},
		Catalog:    CatalogConfig{GroupsPerPage: 10},
		Auth: AuthConfig{
			CredentialsFile: "./users.txt",
			SessionTTL:      24 * time.Hour,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path, falling back to defaults when the file is missing.
// A file that exists but does not parse is an error: silently running
// with defaults after a config typo is worse than failing to start.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnv(cfg)

	if cfg.Catalog.GroupsPerPage < 1 {
		cfg.Catalog.GroupsPerPage = 10
	}
	return cfg, nil
}

// applyEnv layers environment overrides on top of file values. The
// variable names follow the original deployment knobs.
func applyEnv(cfg *Config) {
	if v := os.Getenv("UPLOAD_FOLDER"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MAX_CONTENT_LENGTH"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Storage.MaxContentLength = n
		}
	}
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Storage.MaxFileSize = n
		}
	}
	if v := os.Getenv("DEPOT_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DEPOT_CREDENTIALS_FILE"); v != "" {
		cfg.Auth.CredentialsFile = v
	}
}
