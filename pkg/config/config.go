// Package config loads the optional yaml runtime config used by the smoke
// binary and embedders. Credentials never live here; they come from the
// environment (see pkg/credentials).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betbot/goderive/pkg/logger"
)

// HTTPConfig tunes the REST transport.
type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	RetryCount     int `yaml:"retry_count"`
	RetryWaitMs    int `yaml:"retry_wait_ms"`
	RetryMaxWaitMs int `yaml:"retry_max_wait_ms"`
}

// Timeout returns the configured timeout with the 30s default.
func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// StreamConfig tunes the websocket market-data client.
type StreamConfig struct {
	Enabled        bool `yaml:"enabled"`
	PingSeconds    int  `yaml:"ping_seconds"`
	ReconnectDelay int  `yaml:"reconnect_delay_seconds"`
	MaxReconnects  int  `yaml:"max_reconnects"`
}

// Config is the top-level runtime config.
type Config struct {
	Network string        `yaml:"network"` // optional override of DERIVE_NETWORK
	HTTP    HTTPConfig    `yaml:"http"`
	Stream  StreamConfig  `yaml:"stream"`
	Log     logger.Config `yaml:"log"`
}

// Default returns the config used when no file is given.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{TimeoutSeconds: 30},
		Log:  logger.Config{Level: "info"},
	}
}

// Load parses a yaml config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
