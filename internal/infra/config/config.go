package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	PlantID  PlantIDConfig  `yaml:"plantId"`
	Garden   GardenConfig   `yaml:"garden"`
	Wiki     WikiConfig     `yaml:"wiki"`
	Geo      GeoConfig      `yaml:"geo"`
	Session  SessionConfig  `yaml:"session"`
	Storage  StorageConfig  `yaml:"storage"`
	Identify IdentifyConfig `yaml:"identify"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// PlantIDConfig holds the identification service settings.
type PlantIDConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Details string        `yaml:"details"`
	Timeout time.Duration `yaml:"timeout"`
}

// GardenConfig holds the species search/detail service settings.
type GardenConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// WikiConfig holds the encyclopedia summary service settings.
// HostPattern receives the content language code, e.g. "fa" or "ar".
type WikiConfig struct {
	HostPattern string        `yaml:"hostPattern"`
	Timeout     time.Duration `yaml:"timeout"`
}

// GeoConfig controls the one-shot IP geolocation probe.
type GeoConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig drives the session store.
type SessionConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for session storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StorageConfig configures the S3-compatible preview image store.
// An empty endpoint selects the in-memory store.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// IdentifyConfig bounds the identification domain.
type IdentifyConfig struct {
	MaxImageBytes int64  `yaml:"maxImageBytes"`
	DefaultLocale string `yaml:"defaultLocale"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("PLANT_ID_API_KEY"); v != "" {
		cfg.PlantID.APIKey = v
	}
	if v := os.Getenv("PLANT_ID_BASE_URL"); v != "" {
		cfg.PlantID.BaseURL = v
	}
	if v := os.Getenv("GARDEN_API_KEY"); v != "" {
		cfg.Garden.APIKey = v
	}
	if v := os.Getenv("GARDEN_BASE_URL"); v != "" {
		cfg.Garden.BaseURL = v
	}
	if v := os.Getenv("WIKI_HOST_PATTERN"); v != "" {
		cfg.Wiki.HostPattern = v
	}
	if v := os.Getenv("GEO_BASE_URL"); v != "" {
		cfg.Geo.BaseURL = v
	}
	if v := os.Getenv("GEO_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Geo.Timeout = parsed
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_VALKEY_ENABLED"); v != "" {
		cfg.Session.Valkey.Enabled = isTruthy(v)
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("IDENTIFY_MAX_IMAGE_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Identify.MaxImageBytes = parsed
		}
	}
	if v := os.Getenv("IDENTIFY_DEFAULT_LOCALE"); v != "" {
		cfg.Identify.DefaultLocale = v
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if clean := strings.TrimSpace(p); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		PlantID: PlantIDConfig{
			BaseURL: "https://plant.id/api/v3/identification",
			Details: "common_names,url,description",
			Timeout: 30 * time.Second,
		},
		Garden: GardenConfig{
			BaseURL: "https://perenual.com/api",
			Timeout: 15 * time.Second,
		},
		Wiki: WikiConfig{
			HostPattern: "https://%s.wikipedia.org",
			Timeout:     10 * time.Second,
		},
		Geo: GeoConfig{
			BaseURL: "http://ip-api.com/json",
			Timeout: 5 * time.Second,
		},
		Session: SessionConfig{
			TTL: 30 * time.Minute,
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		Storage: StorageConfig{
			Bucket: "plantcare-previews",
		},
		Identify: IdentifyConfig{
			MaxImageBytes: 10 << 20,
			DefaultLocale: "fa",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.PlantID.BaseURL == "" {
		return errors.New("plantId.baseUrl cannot be empty")
	}
	if c.Garden.BaseURL == "" {
		return errors.New("garden.baseUrl cannot be empty")
	}
	if !strings.Contains(c.Wiki.HostPattern, "%s") {
		return errors.New("wiki.hostPattern must contain a %s language placeholder")
	}
	if c.Geo.Timeout <= 0 {
		return errors.New("geo.timeout must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Session.Valkey.Enabled && strings.TrimSpace(c.Session.Valkey.Addr) == "" {
		return errors.New("session.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Storage.Endpoint != "" && c.Storage.Bucket == "" {
		return errors.New("storage.bucket cannot be empty when an endpoint is set")
	}
	if c.Identify.MaxImageBytes <= 0 {
		return errors.New("identify.maxImageBytes must be positive")
	}
	if c.Identify.DefaultLocale != "fa" && c.Identify.DefaultLocale != "ar" {
		return errors.New("identify.defaultLocale must be fa or ar")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
