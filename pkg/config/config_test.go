package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DASHBOARD_SOURCE",
	"DASHBOARD_API_URL",
	"DASHBOARD_HTTP_TIMEOUT",
	"SERVER_PORT",
	"SERVER_ALLOWED_ORIGINS",
	"MQTT_BROKER",
	"MQTT_CLIENT_ID",
	"MQTT_USERNAME",
	"MQTT_PASSWORD",
	"MQTT_TOPIC_STATUS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "api", cfg.Source)
	assert.Equal(t, "http://localhost:7071/api", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8059", cfg.ServerPort)
	assert.Equal(t, ":8059", cfg.Addr())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.MQTTEnabled())
	assert.Equal(t, "sensordash", cfg.MQTTClientID)
	assert.Equal(t, "sensordash/status", cfg.MQTTTopicStatus)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_SOURCE", "Demo")
	t.Setenv("DASHBOARD_HTTP_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ALLOWED_ORIGINS", " http://a.example , http://b.example,")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "demo", cfg.Source)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MQTTEnabled())
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_HTTP_TIMEOUT", "soon")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_InvalidSourceCanBeOverridden(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_SOURCE", "mock")

	cfg := Load()
	assert.Error(t, cfg.Validate())

	cfg.UseSource("")
	assert.Equal(t, "mock", cfg.Source)

	cfg.UseSource(" Demo ")
	assert.Equal(t, "demo", cfg.Source)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{"API source", Config{Source: "api", APIURL: "http://localhost:7071/api", HTTPTimeout: time.Second}, false},
		{"Demo source without URL", Config{Source: "demo", HTTPTimeout: time.Second}, false},
		{"API source without URL", Config{Source: "api", HTTPTimeout: time.Second}, true},
		{"Unknown source", Config{Source: "mock", APIURL: "x", HTTPTimeout: time.Second}, true},
		{"Negative timeout", Config{Source: "demo", HTTPTimeout: -time.Second}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
