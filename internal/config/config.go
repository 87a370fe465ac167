package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type Config struct {
	Server struct {
		Port         string  `yaml:"port" validate:"omitempty,numeric"`
		MessageRate  float64 `yaml:"messageRate" validate:"gte=0"`
		MessageBurst int     `yaml:"messageBurst" validate:"gte=0"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" validate:"omitempty,url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL     string `yaml:"ttl"`
		Catalog string `yaml:"catalog"`
	} `yaml:"quiz"`
	Attempts struct {
		TTL string `yaml:"ttl"`
	} `yaml:"attempts"`
	Score struct {
		RemoteURL string `yaml:"remoteUrl" validate:"omitempty,url"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"score"`
	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Parse(data)
}

// Parse decodes and validates YAML config.
func Parse(data []byte) (Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
