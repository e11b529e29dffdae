package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "https://plant.id/api/v3/identification", cfg.PlantID.BaseURL)
	assert.Equal(t, "https://perenual.com/api", cfg.Garden.BaseURL)
	assert.Equal(t, "https://%s.wikipedia.org", cfg.Wiki.HostPattern)
	assert.Equal(t, 5*time.Second, cfg.Geo.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Session.Valkey.Enabled)
	assert.Equal(t, "fa", cfg.Identify.DefaultLocale)
	assert.Empty(t, cfg.PlantID.APIKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PLANT_ID_API_KEY", "secret-key")
	t.Setenv("WIKI_HOST_PATTERN", "https://%s.wiki.local")
	t.Setenv("GEO_TIMEOUT", "2s")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("IDENTIFY_DEFAULT_LOCALE", "ar")
	t.Setenv("IDENTIFY_MAX_IMAGE_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "secret-key", cfg.PlantID.APIKey)
	assert.Equal(t, "https://%s.wiki.local", cfg.Wiki.HostPattern)
	assert.Equal(t, 2*time.Second, cfg.Geo.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "ar", cfg.Identify.DefaultLocale)
	assert.Equal(t, int64(1<<20), cfg.Identify.MaxImageBytes)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  address: ":7070"
plantId:
  apiKey: file-key
session:
  ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Address)
	assert.Equal(t, "file-key", cfg.PlantID.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	// untouched sections keep their defaults
	assert.Equal(t, "https://perenual.com/api", cfg.Garden.BaseURL)
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plantId:\n  apiKey: file-key\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PLANT_ID_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.PlantID.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"host pattern without placeholder", func(c *Config) { c.Wiki.HostPattern = "https://fa.wikipedia.org" }},
		{"zero geo timeout", func(c *Config) { c.Geo.Timeout = 0 }},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"valkey enabled without addr", func(c *Config) { c.Session.Valkey.Enabled = true }},
		{"unsupported default locale", func(c *Config) { c.Identify.DefaultLocale = "en" }},
		{"rate limit enabled without rpm", func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
