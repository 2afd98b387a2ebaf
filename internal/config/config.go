package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultQuestionCount = 12
	MaxQuestionCount     = 50
	DefaultBucket        = "fish-videos"
	DefaultPublicURL     = "http://localhost:54321"
	DefaultSessionTTL    = 30 * time.Minute
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" validate:"omitempty,url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL           string `yaml:"ttl"`
		SessionTTL    string `yaml:"session_ttl"`
		QuestionCount int    `yaml:"question_count" validate:"gte=1,lte=50"`
		Seed          uint64 `yaml:"seed"`
	} `yaml:"quiz"`
	Storage struct {
		PublicURL string `yaml:"public_url" validate:"required,url"`
		Bucket    string `yaml:"bucket" validate:"required"`
	} `yaml:"storage"`
	Logger LoggerConfig `yaml:"logger"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Env   string `yaml:"env" validate:"omitempty,oneof=development production"`
}

// Load reads YAML config from path, fills defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Quiz.QuestionCount == 0 {
		c.Quiz.QuestionCount = DefaultQuestionCount
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = DefaultBucket
	}
	if c.Storage.PublicURL == "" {
		c.Storage.PublicURL = DefaultPublicURL
	}
}

// Validate checks field constraints declared in struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SessionTTL is how long an idle quiz session is kept. For the Redis store
// redis.ttl, when set, takes precedence over quiz.session_ttl.
func (c Config) SessionTTL(redisBacked bool) time.Duration {
	ttl := TTLDuration(c.Quiz.SessionTTL, DefaultSessionTTL)
	if redisBacked {
		ttl = TTLDuration(c.Redis.TTL, ttl)
	}
	return ttl
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
