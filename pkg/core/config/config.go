package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned by LoadFromEnv when no configuration file exists
var ErrNoConfig = errors.New("no config file found")

// Stale response policies
const (
	StaleDiscard = "discard"
	StaleApply   = "apply"
)

// Config holds the complete client configuration
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Endpoints EndpointsConfig `toml:"endpoints" yaml:"endpoints"`
	Engine    EngineConfig    `toml:"engine" yaml:"engine"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`
}

// ServerConfig describes the JoyJoin site the client talks to
type ServerConfig struct {
	BaseURL   string   `toml:"base_url" yaml:"base_url"`
	CSRFToken string   `toml:"csrf_token" yaml:"csrf_token"`
	Timeout   Duration `toml:"timeout" yaml:"timeout"`
	UserAgent string   `toml:"user_agent" yaml:"user_agent"`
}

// EndpointsConfig holds the paths of the remote checks and of the submission,
// relative to Server.BaseURL
type EndpointsConfig struct {
	LoginAvailable    string `toml:"login_available" yaml:"login_available"`
	PasswordNotCommon string `toml:"password_not_common" yaml:"password_not_common"`
	AgeEligible       string `toml:"age_eligible" yaml:"age_eligible"`
	Submit            string `toml:"submit" yaml:"submit"`
}

// EngineConfig tunes the validation engine
type EngineConfig struct {
	// StaleResponses is "discard" (latest request wins) or "apply"
	// (late verdicts overwrite the field, as the original page did)
	StaleResponses string `toml:"stale_responses" yaml:"stale_responses"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	Format     string `toml:"format" yaml:"format"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// MetricsConfig holds the optional Prometheus listener
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from the JOYJOIN_CONFIG environment variable
// or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("JOYJOIN_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./configs/joyjoin.toml",
			"./joyjoin.toml",
			"./joyjoin.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/joyjoin/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, fmt.Errorf("%w, set JOYJOIN_CONFIG or create configs/joyjoin.toml", ErrNoConfig)
	}

	return Load(path)
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	switch c.Engine.StaleResponses {
	case StaleDiscard, StaleApply:
	default:
		return fmt.Errorf("engine.stale_responses must be %q or %q, got %q",
			StaleDiscard, StaleApply, c.Engine.StaleResponses)
	}
	if c.Server.Timeout.Duration < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server; a zero timeout means requests never time out
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8000/"
	}

	// Endpoints, as routed by the register app
	if c.Endpoints.LoginAvailable == "" {
		c.Endpoints.LoginAvailable = "register/is_login_unused/"
	}
	if c.Endpoints.PasswordNotCommon == "" {
		c.Endpoints.PasswordNotCommon = "register/is_password_uncommon/"
	}
	if c.Endpoints.AgeEligible == "" {
		c.Endpoints.AgeEligible = "register/is_age_ok/"
	}
	if c.Endpoints.Submit == "" {
		c.Endpoints.Submit = "register/complete/"
	}

	// Engine
	if c.Engine.StaleResponses == "" {
		c.Engine.StaleResponses = StaleDiscard
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Server.BaseURL = os.ExpandEnv(c.Server.BaseURL)
	c.Server.CSRFToken = os.ExpandEnv(c.Server.CSRFToken)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
}
