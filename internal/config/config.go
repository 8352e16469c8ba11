// Package config provides configuration management for the position engine.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

const (
	// defaultBrokerTimeout is used when broker.timeout is unset
	defaultBrokerTimeout = "15s"
	// defaultServerPort is used when server.port is unset
	defaultServerPort = 8088
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Broker      BrokerConfig      `yaml:"broker"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
}

// EnvironmentConfig defines the environment settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// BrokerConfig defines brokerage gateway settings.
type BrokerConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	AccountID string `yaml:"account_id"`
	Timeout   string `yaml:"timeout"`
	// UseCircuitBreaker wraps the snapshot client with a circuit breaker.
	UseCircuitBreaker bool `yaml:"use_circuit_breaker"`
}

// StorageConfig defines storage settings for trade records.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig defines the control-panel API server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.Broker.Endpoint == "" {
		return fmt.Errorf("broker.endpoint is required")
	}
	if c.Broker.APIKey == "" {
		return fmt.Errorf("broker.api_key is required")
	}
	if c.Broker.AccountID == "" {
		return fmt.Errorf("broker.account_id is required")
	}
	if c.Broker.Timeout != "" {
		if _, err := time.ParseDuration(c.Broker.Timeout); err != nil {
			return fmt.Errorf("broker.timeout invalid: %w", err)
		}
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}
	switch c.Environment.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be debug, info, warn or error")
	}
	return nil
}

// BrokerTimeout returns the configured broker timeout duration.
func (c *Config) BrokerTimeout() time.Duration {
	raw := c.Broker.Timeout
	if raw == "" {
		raw = defaultBrokerTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		d, _ = time.ParseDuration(defaultBrokerTimeout)
	}
	return d
}

// ServerPort returns the configured server port, falling back to the default.
func (c *Config) ServerPort() int {
	if c.Server.Port == 0 {
		return defaultServerPort
	}
	return c.Server.Port
}
