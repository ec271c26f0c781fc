// Package config provides configuration management for graphmail.
//
// This package handles loading configuration from multiple sources with
// proper precedence:
//   - YAML configuration files
//   - Environment variables (GRAPHMAIL_ prefix)
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Default values
//  2. Configuration files (./.graphmail.yaml, ~/.graphmail/config.yaml)
//  3. Environment variables (GRAPHMAIL_ prefix)
//  4. Command-line flags (bound by the cli package)
//
// # Environment Variables
//
// Use the prefix and underscores for nested keys:
//   - GRAPHMAIL_GRAPH_TENANT_ID=<guid>
//   - GRAPHMAIL_GRAPH_CLIENT_ID=<guid>
//   - GRAPHMAIL_SERVER_CHECK_INTERVAL=1h
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// GraphConfig contains the Microsoft Entra ID application settings used for
// device-code authentication.
type GraphConfig struct {
	// TenantID is the Entra ID tenant (GUID)
	TenantID string `mapstructure:"tenant_id"`

	// ClientID is the registered application's client ID (GUID)
	ClientID string `mapstructure:"client_id"`
}

// TokenConfig contains token cache settings.
type TokenConfig struct {
	// CachePath is the token cache file location
	// (default: ~/.graphmail/token.json)
	CachePath string `mapstructure:"cache_path"`
}

// OrganizeConfig contains the subject-based organize rule.
type OrganizeConfig struct {
	// Term is the subject search term
	Term string `mapstructure:"term"`

	// Folder is the target folder display name
	Folder string `mapstructure:"folder"`
}

// ServerConfig contains polling server settings.
type ServerConfig struct {
	// CheckInterval is the pause between processing cycles
	CheckInterval time.Duration `mapstructure:"check_interval"`

	// ErrorRetry is the shorter pause after a failed cycle
	ErrorRetry time.Duration `mapstructure:"error_retry"`

	// StatusAddr is the listen address for the health/status endpoint;
	// empty disables the endpoint
	StatusAddr string `mapstructure:"status_addr"`

	// StatePath is the bbolt state database location
	// (default: ~/.graphmail/state.db)
	StatePath string `mapstructure:"state_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log output format ("text" or "json")
	Format string `mapstructure:"format"`
}

// Config is the root graphmail configuration.
type Config struct {
	Graph    GraphConfig    `mapstructure:"graph"`
	Token    TokenConfig    `mapstructure:"token"`
	Organize OrganizeConfig `mapstructure:"organize"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Loader provides configuration loading functionality.
type Loader struct {
	v      *viper.Viper
	prefix string
}

// NewLoader creates a new configuration loader with the given environment
// prefix (e.g. "GRAPHMAIL" -> "GRAPHMAIL_GRAPH_TENANT_ID").
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		v:      viper.New(),
		prefix: envPrefix,
	}
}

// SetConfigDefaults sets standard graphmail defaults.
func (l *Loader) SetConfigDefaults() {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}

	// Required keys default to empty so viper still resolves them from the
	// environment when neither flag nor config file provides a value
	l.v.SetDefault("graph.tenant_id", "")
	l.v.SetDefault("graph.client_id", "")

	l.v.SetDefault("token.cache_path", filepath.Join(home, ".graphmail", "token.json"))

	l.v.SetDefault("organize.term", "daily stand up")
	l.v.SetDefault("organize.folder", "daily meetings")

	l.v.SetDefault("server.check_interval", "1h")
	l.v.SetDefault("server.error_retry", "1m")
	l.v.SetDefault("server.status_addr", "")
	l.v.SetDefault("server.state_path", filepath.Join(home, ".graphmail", "state.db"))

	l.v.SetDefault("logging.level", "info")
	l.v.SetDefault("logging.format", "text")
}

// Load reads configuration from file and environment variables.
// If cfgFile is empty, searches for .graphmail.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (with prefix)
//  2. Configuration file
//  3. Default values
func (l *Loader) Load(cfgFile string, target interface{}) error {
	if cfgFile != "" {
		l.v.SetConfigFile(cfgFile)
	} else {
		l.v.SetConfigName(".graphmail")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("$HOME")
		l.v.AddConfigPath("$HOME/.graphmail")
	}

	if err := l.v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if l.prefix != "" {
		l.v.SetEnvPrefix(l.prefix)
	}
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if err := l.v.Unmarshal(target); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	return nil
}

// LoadConfig is a convenience function that loads graphmail configuration
// with standard defaults and validates it.
func LoadConfig(cfgFile string) (*Config, error) {
	loader := NewLoader("GRAPHMAIL")
	loader.SetConfigDefaults()

	cfg := &Config{}
	if err := loader.Load(cfgFile, cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ValidateConfig validates the loaded configuration. Authentication settings
// are required; everything else has workable defaults.
func ValidateConfig(cfg *Config) error {
	var missing []string
	if cfg.Graph.TenantID == "" {
		missing = append(missing, "graph.tenant_id")
	}
	if cfg.Graph.ClientID == "" {
		missing = append(missing, "graph.client_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.Server.CheckInterval <= 0 {
		return fmt.Errorf("invalid server check interval: %s", cfg.Server.CheckInterval)
	}
	if cfg.Server.ErrorRetry <= 0 {
		return fmt.Errorf("invalid server error retry interval: %s", cfg.Server.ErrorRetry)
	}

	return nil
}
