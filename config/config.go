package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/kilianp07/chargetime/core/advisor"
	"github.com/kilianp07/chargetime/core/clock"
	"github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/core/model"
	"github.com/kilianp07/chargetime/core/monitoring"
	"github.com/kilianp07/chargetime/infra/mqtt"
)

// EnvPrefix prefixes environment overrides. Nested keys use "__", e.g.
// CHARGETIME_ADVISOR__API_KEY.
const EnvPrefix = "CHARGETIME_"

// Config is the complete chargetime configuration as read by Load.
type Config struct {
	Timezone           string            `json:"timezone"`
	LogLevel           string            `json:"log_level"`
	BatteryCapacityKWh float64           `json:"battery_capacity_kwh"`
	Profiles           []ProfileConfig   `json:"profiles"`
	Store              StoreConfig       `json:"store"`
	Advisor            advisor.Config    `json:"advisor"`
	Refresh            RefreshConfig     `json:"refresh"`
	Metrics            metrics.Config    `json:"metrics"`
	MQTT               mqtt.Config       `json:"mqtt"`
	Sentry             monitoring.Config `json:"sentry"`
}

// Load reads .env, the optional config file at path and CHARGETIME_
// environment overrides, then applies defaults and validates. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return nil, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Advisor.APIKey == "" {
		cfg.Advisor.APIKey = firstEnv("GEMINI_API_KEY", "API_KEY")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = clock.DefaultZone
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.BatteryCapacityKWh == 0 {
		c.BatteryCapacityKWh = model.BatteryCapacityKWh
	}
	c.Store.SetDefaults()
	c.Advisor.SetDefaults()
	c.Refresh.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section. An unknown timezone is not an error; the
// clock falls back to local time.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.BatteryCapacityKWh <= 0 {
		return fmt.Errorf("battery_capacity_kwh must be positive, got %v", c.BatteryCapacityKWh)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("profiles: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Advisor.Validate(); err != nil {
		return fmt.Errorf("advisor: %w", err)
	}
	if err := c.Refresh.Validate(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	return nil
}
