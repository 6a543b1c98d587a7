package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/config"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/scan"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.NewDefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, config.DefaultRedisEndpoint, cfg.Store.Addr)
	assert.Equal(t, config.DefaultScanInterval, cfg.ScanInterval)
	assert.Empty(t, cfg.Sources)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TOPIC_URL", "mem://changes")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("SCAN_INTERVAL", "1h")
	t.Setenv("SCAN_SOURCES",
		"PetStore=https://petstore.swagger.io/v2/swagger.json")
	t.Setenv("FIELD_RULES", "name=full_name, phone=phone_number")

	cfg := config.NewDefaultConfig()
	assert.NoError(t, cfg.LoadFromEnv())
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1", cfg.APIHost)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis:6380", cfg.Store.Addr)
	assert.Equal(t, 3, cfg.Store.DB)
	assert.Equal(t, "mem://changes", cfg.TopicURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Hour, cfg.ScanInterval)
	assert.Equal(t, []scan.Source{{
		Name: "PetStore",
		URL:  "https://petstore.swagger.io/v2/swagger.json",
	}}, cfg.Sources)
	assert.Equal(t, map[string]string{
		"name":  "full_name",
		"phone": "phone_number",
	}, cfg.FieldRules)
}

func TestLoadFromEnvZeroIntervalDisablesScanning(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "0")

	cfg := config.NewDefaultConfig()
	assert.NoError(t, cfg.LoadFromEnv())
	assert.Zero(t, cfg.ScanInterval)
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "API_PORT", "not-a-port"},
		{"port out of range", "API_PORT", "70000"},
		{"bad timeout", "FETCH_TIMEOUT", "fast"},
		{"bad redis db", "REDIS_DB", "three"},
		{"bad source", "SCAN_SOURCES", "missing-url"},
		{"bad rule", "FIELD_RULES", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := config.NewDefaultConfig()
			assert.Error(t, cfg.LoadFromEnv())
		})
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.APIPort = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidAPIPort)

	cfg = config.NewDefaultConfig()
	cfg.FetchTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidFetchTimeout)

	cfg = config.NewDefaultConfig()
	cfg.Sources = []scan.Source{{Name: "NoURL"}}
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidScanSource)
}

func TestParseSourcesMultiple(t *testing.T) {
	sources, err := config.ParseSources(
		"A=http://a.example/openapi.json, B=http://b.example/docs",
	)
	assert.NoError(t, err)
	assert.Equal(t, []scan.Source{
		{Name: "A", URL: "http://a.example/openapi.json"},
		{Name: "B", URL: "http://b.example/docs"},
	}, sources)
}
