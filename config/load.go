package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hl-seeder/gateway"
)

// AppConfig holds shared defaults for the seeder tools. Everything here can
// also be supplied per invocation via flags; flags win over the file.
type AppConfig struct {
	Env     string        `yaml:"env"`
	Gateway GatewayConfig `yaml:"gateway"`
	Seed    SeedConfig    `yaml:"seed"`
	Log     LogConfig     `yaml:"log"`
}

type GatewayConfig struct {
	BaseURL        string          `yaml:"baseURL"`
	PrivateKey     string          `yaml:"privateKey"`
	TimeoutSeconds int             `yaml:"timeoutSeconds"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

type RateLimitConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

type SeedConfig struct {
	Asset    string `yaml:"asset"`
	Leverage int    `yaml:"leverage"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in defaults; the CLI works with no config file.
func Default() AppConfig {
	return AppConfig{
		Env: "prod",
		Gateway: GatewayConfig{
			BaseURL:        gateway.Mainnet,
			TimeoutSeconds: 10,
			RateLimit:      RateLimitConfig{Rate: 5, Burst: 10},
		},
		Seed: SeedConfig{
			Asset:    "BTC",
			Leverage: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads YAML config from path on top of the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env
// vars if present. A .env file in the working directory is honored first so
// operators never have to export the key into their shell history.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	_ = godotenv.Load() // best effort; absence is fine

	var cfg AppConfig
	var err error
	if path != "" {
		cfg, err = Load(path)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = Default()
	}
	if v := os.Getenv("HL_SEEDER_KEY"); v != "" {
		cfg.Gateway.PrivateKey = v
	}
	if v := os.Getenv("HL_SEEDER_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present. The private key is not
// required here; the CLI enforces it per invocation since it may arrive as a
// flag instead.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.baseURL is required")
	}
	if cfg.Gateway.TimeoutSeconds < 0 {
		return errors.New("gateway.timeoutSeconds must be >= 0")
	}
	if cfg.Gateway.RateLimit.Rate < 0 || cfg.Gateway.RateLimit.Burst < 0 {
		return errors.New("gateway.rateLimit values must be >= 0")
	}
	if cfg.Seed.Asset == "" {
		return errors.New("seed.asset is required")
	}
	if cfg.Seed.Leverage < 1 {
		return errors.New("seed.leverage must be >= 1")
	}
	return nil
}
