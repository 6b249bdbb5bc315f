// Package config loads application settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultMaxAttachmentSize caps uploads at 10 MiB unless configured.
const DefaultMaxAttachmentSize = 10 << 20

// Config is the top-level application configuration.
type Config struct {
	// DatabasePath is the SQLite database file location.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// MediaDir is the root directory for stored attachment files.
	MediaDir string `mapstructure:"media_dir" yaml:"media_dir"`

	// MaxAttachmentSize is the upload size ceiling in bytes. Files
	// larger than this are rejected before anything is stored.
	MaxAttachmentSize int64 `mapstructure:"max_attachment_size" yaml:"max_attachment_size"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/scope/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "scope", "config.yaml")
}

// defaultConfig returns a sensible default configuration rooted in the
// user's home directory.
func defaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".local", "share", "scope")
	return &Config{
		DatabasePath:      filepath.Join(dataDir, "scope.db"),
		MediaDir:          filepath.Join(dataDir, "media"),
		MaxAttachmentSize: DefaultMaxAttachmentSize,
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultConfig()
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("media_dir", defaults.MediaDir)
	v.SetDefault("max_attachment_size", defaults.MaxAttachmentSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.MaxAttachmentSize <= 0 {
		cfg.MaxAttachmentSize = DefaultMaxAttachmentSize
	}

	return cfg, nil
}
