package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DevicePort is the port the camera serves its websocket on.
const DevicePort = "81"

// Config holds the application configuration.
type Config struct {
	// URL is the device websocket URL. Built from FACECAM_HOST when
	// FACECAM_URL is not set.
	URL string

	// PingInterval is the websocket keepalive interval; 0 disables pings.
	PingInterval time.Duration

	// MonitorAddr is the listen address of the local HTTP monitor; empty
	// disables it.
	MonitorAddr string

	// MQTTBroker enables the MQTT publisher when set, e.g. tcp://localhost:1883.
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTTopic    string

	LogLevel string
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		PingInterval: 30 * time.Second,
		MQTTClientID: "facecam-remote",
		MQTTTopic:    "facecam",
		LogLevel:     "info",
	}
}

// Load reads configuration from a .env file (if present) and environment
// variables, on top of the defaults. Environment variables take precedence
// over .env values. Call Validate after applying flags.
//
// Environment variables:
//   - FACECAM_HOST: device host name or address (port 81 is implied)
//   - FACECAM_URL: full device websocket URL, overrides FACECAM_HOST
//   - FACECAM_PING_INTERVAL: keepalive interval, e.g. 30s (0 disables)
//   - FACECAM_MONITOR_ADDR: local HTTP monitor address, e.g. 127.0.0.1:8081
//   - FACECAM_MQTT_BROKER, FACECAM_MQTT_CLIENT_ID, FACECAM_MQTT_USERNAME,
//     FACECAM_MQTT_PASSWORD, FACECAM_MQTT_TOPIC: MQTT publisher
//   - FACECAM_LOG_LEVEL: trace, debug, info, warn, error
func Load() (*Config, error) {
	// godotenv.Load does not overwrite existing env vars
	_ = godotenv.Load()

	cfg := Default()

	if host := os.Getenv("FACECAM_HOST"); host != "" {
		cfg.URL = DeviceURL(host)
	}
	if val := os.Getenv("FACECAM_URL"); val != "" {
		cfg.URL = val
	}

	if val := os.Getenv("FACECAM_PING_INTERVAL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("FACECAM_PING_INTERVAL must be a duration: %w", err)
		}
		cfg.PingInterval = d
	}

	if val := os.Getenv("FACECAM_MONITOR_ADDR"); val != "" {
		cfg.MonitorAddr = val
	}

	if val := os.Getenv("FACECAM_MQTT_BROKER"); val != "" {
		cfg.MQTTBroker = val
	}
	if val := os.Getenv("FACECAM_MQTT_CLIENT_ID"); val != "" {
		cfg.MQTTClientID = val
	}
	if val := os.Getenv("FACECAM_MQTT_USERNAME"); val != "" {
		cfg.MQTTUsername = val
	}
	if val := os.Getenv("FACECAM_MQTT_PASSWORD"); val != "" {
		cfg.MQTTPassword = val
	}
	if val := os.Getenv("FACECAM_MQTT_TOPIC"); val != "" {
		cfg.MQTTTopic = val
	}

	if val := os.Getenv("FACECAM_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	return cfg, nil
}

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("FACECAM_HOST or FACECAM_URL environment variable (or --host) is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("parse device URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("device URL %q must use ws or wss", c.URL)
	}
	if c.PingInterval < 0 {
		return fmt.Errorf("ping interval must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// DeviceURL builds the websocket URL for a device host. A host without a
// port gets the device's default port.
func DeviceURL(host string) string {
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, DevicePort)
	}
	return "ws://" + host + "/"
}
