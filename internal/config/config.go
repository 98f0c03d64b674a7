// Package config loads service configuration from layered sources:
// built-in defaults, an optional YAML file, then ESTIMATE_-prefixed
// environment variables. A .env file in the working directory is applied
// before the environment is read.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/yourorg/estimate-api/internal/logging"
)

// DefaultConfigPaths lists where a config file is searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/estimate-api/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "ESTIMATE_CONFIG_PATH"

const envPrefix = "ESTIMATE_"

type Config struct {
	Port int            `koanf:"port" validate:"gt=0,lte=65535"`
	Log  logging.Config `koanf:"log"`

	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Geocode  GeocodeConfig  `koanf:"geocode" validate:"required"`
	Overpass OverpassConfig `koanf:"overpass" validate:"required"`
	Amenity  AmenityConfig  `koanf:"amenity"`
	Model    ModelConfig    `koanf:"model"`
	Seeder   SeederConfig   `koanf:"seeder"`

	// Tiers maps premium location names to price multipliers. Matching is
	// case-insensitive; unlisted locations get 1.0.
	Tiers map[string]float64 `koanf:"tiers"`
}

// DatabaseConfig configures the Postgres coordinate cache. An empty URL
// disables persistence; the resolver then runs provider-only.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig configures the optional hot cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// GeocodeConfig configures the Nominatim client.
type GeocodeConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// RegionSuffix is appended to every geocode query to disambiguate
	// bare neighbourhood names.
	RegionSuffix string        `koanf:"region_suffix"`
	UserAgent    string        `koanf:"user_agent" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	// RatePerSec caps outbound geocode calls (Nominatim policy is 1 rps).
	RatePerSec float64 `koanf:"rate_per_sec" validate:"gt=0"`
	// CacheTTL bounds Redis coordinate entries; Postgres rows never expire.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`
	// NegativeTTL is the cooldown for names the provider could not resolve.
	NegativeTTL time.Duration `koanf:"negative_ttl" validate:"gt=0"`
}

// OverpassConfig configures the structured amenity provider.
type OverpassConfig struct {
	// Mirrors are tried strictly in order.
	Mirrors []string      `koanf:"mirrors" validate:"min=1,dive,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	// MaxResults bounds the element count requested per query.
	MaxResults int `koanf:"max_results" validate:"gt=0"`
}

type AmenityConfig struct {
	DefaultRadiusMeters int `koanf:"default_radius_meters" validate:"gt=0"`
	MaxRadiusMeters     int `koanf:"max_radius_meters" validate:"gt=0"`
}

// ModelConfig points at the regression artifact and its column schema.
// Both paths may be empty or missing on disk; estimation then degrades to
// the deterministic heuristic.
type ModelConfig struct {
	Path        string `koanf:"path"`
	ColumnsPath string `koanf:"columns_path"`
}

type SeederConfig struct {
	// Enabled starts a background pass that geocodes every schema location
	// not yet present in the store.
	Enabled bool `koanf:"enabled"`
	Workers int  `koanf:"workers" validate:"gt=0"`
}

func defaultConfig() *Config {
	return &Config{
		Port: 5000,
		Log:  logging.Config{Level: "info", Format: "json"},
		Geocode: GeocodeConfig{
			BaseURL:      "https://nominatim.openstreetmap.org",
			RegionSuffix: "Bangalore, India",
			UserAgent:    "estimate-api/1.0",
			Timeout:      10 * time.Second,
			RatePerSec:   1,
			CacheTTL:     24 * time.Hour,
			NegativeTTL:  15 * time.Minute,
		},
		Overpass: OverpassConfig{
			Mirrors: []string{
				"https://overpass-api.de/api/interpreter",
				"https://lz4.overpass-api.de/api/interpreter",
			},
			Timeout:    15 * time.Second,
			MaxResults: 30,
		},
		Amenity: AmenityConfig{
			DefaultRadiusMeters: 2000,
			MaxRadiusMeters:     10000,
		},
		Model: ModelConfig{
			Path:        "artifacts/home_prices_model.json",
			ColumnsPath: "artifacts/columns.json",
		},
		Seeder: SeederConfig{Enabled: false, Workers: 2},
		Tiers: map[string]float64{
			"Whitefield":  1.2,
			"Indiranagar": 1.5,
			"Koramangala": 1.4,
		},
	}
}

// Load builds the effective configuration. Precedence: env > file > defaults.
func Load() (*Config, error) {
	// Same bootstrap as the original deployment: a .env in the working
	// directory feeds the process environment. Absence is not an error.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyLegacyEnv(cfg)
	cfg.Overpass.Mirrors = splitCommaList(cfg.Overpass.Mirrors)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Amenity.DefaultRadiusMeters > c.Amenity.MaxRadiusMeters {
		return fmt.Errorf("invalid configuration: default radius %d exceeds max %d",
			c.Amenity.DefaultRadiusMeters, c.Amenity.MaxRadiusMeters)
	}
	for name, mult := range c.Tiers {
		if mult <= 0 {
			return fmt.Errorf("invalid configuration: tier %q multiplier must be positive", name)
		}
	}
	return nil
}

// envTransform maps ESTIMATE_GEOCODE_REGION_SUFFIX to geocode.region_suffix:
// the first underscore separates the section, the rest is the field name.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if i := strings.Index(s, "_"); i > 0 {
		return s[:i] + "." + s[i+1:]
	}
	return s
}

// applyLegacyEnv honors the unprefixed variables the original deployment
// used (Render sets DATABASE_URL and PORT directly).
func applyLegacyEnv(cfg *Config) {
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
}

// splitCommaList expands a single comma-separated entry, which is how a
// list arrives via an environment variable.
func splitCommaList(in []string) []string {
	if len(in) != 1 || !strings.Contains(in[0], ",") {
		return in
	}
	parts := strings.Split(in[0], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
