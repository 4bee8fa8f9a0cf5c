package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Questions struct {
		Bank string `yaml:"bank" env:"QUESTIONS_BANK"`
		File string `yaml:"file" env:"QUESTIONS_FILE"`
		TTL  string `yaml:"ttl" env:"QUESTIONS_TTL"`
	} `yaml:"questions"`
	Telemetry struct {
		Endpoint   string `yaml:"endpoint" env:"TELEMETRY_ENDPOINT"`
		Timeout    string `yaml:"timeout" env:"TELEMETRY_TIMEOUT"`
		UserIDFile string `yaml:"user_id_file" env:"USER_ID_FILE"`
	} `yaml:"telemetry"`
	Game struct {
		Profile       string `yaml:"profile" env:"GAME_PROFILE"`
		FrameInterval string `yaml:"frame_interval" env:"GAME_FRAME_INTERVAL"`
		Narrate       bool   `yaml:"narrate" env:"GAME_NARRATE"`
	} `yaml:"game"`
}

// Load reads YAML config from path, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, applyEnv(&cfg)
}

// LoadOptional is Load for tools that can run without a config file: a missing file
// yields a config built from environment overrides alone.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Config{}
		return cfg, applyEnv(&cfg)
	}
	return cfg, err
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
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

// BankID returns the configured bank id, "default" when unset.
func (c Config) BankID() string {
	if c.Questions.Bank == "" {
		return "default"
	}
	return c.Questions.Bank
}
