// Package config loads the service configuration from the environment and
// an optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sguter90/sensordash/pkg/api"
	"github.com/sguter90/sensordash/pkg/source"
)

type Config struct {
	// Data source
	Source      string
	APIURL      string
	HTTPTimeout time.Duration

	// HTTP server
	ServerPort     string
	AllowedOrigins []string

	// MQTT tier notifications; disabled when MQTTBroker is empty
	MQTTBroker      string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicStatus string
}

// Load reads a .env file when present and then the environment. The result
// is not validated so that command-line overrides can still be applied.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Source:      strings.ToLower(getEnv("DASHBOARD_SOURCE", source.NameAPI)),
		APIURL:      getEnv("DASHBOARD_API_URL", "http://localhost:7071/api"),
		HTTPTimeout: getEnvDuration("DASHBOARD_HTTP_TIMEOUT", api.DefaultTimeout),

		ServerPort:     getEnv("SERVER_PORT", "8059"),
		AllowedOrigins: getEnvList("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "sensordash"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTTopicStatus: getEnv("MQTT_TOPIC_STATUS", "sensordash/status"),
	}

	return cfg
}

// UseSource overrides the configured source. An empty name keeps it.
func (c *Config) UseSource(name string) {
	if name = strings.TrimSpace(name); name != "" {
		c.Source = strings.ToLower(name)
	}
}

// Validate checks the values that have no usable fallback
func (c *Config) Validate() error {
	switch c.Source {
	case source.NameAPI:
		if c.APIURL == "" {
			return fmt.Errorf("DASHBOARD_API_URL must be set for the api source")
		}
	case source.NameDemo:
	default:
		return fmt.Errorf("invalid DASHBOARD_SOURCE: %s (valid: %s, %s)", c.Source, source.NameAPI, source.NameDemo)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("DASHBOARD_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// MQTTEnabled reports whether tier notifications should be published
func (c *Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("⚠ Failed to parse %s as duration, using default %s: %v", key, defaultValue, err)
		return defaultValue
	}
	return d
}

// getEnvList splits a comma-separated value and trims each entry
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
