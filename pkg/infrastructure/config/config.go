package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultHTTPAddr  = ":8080"
	DefaultSchedule  = "*/5 * * * *"
)

// Config holds runtime settings for the receiving services
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig is optional; when set, scheduled runs are serialized across instances
type RedisConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// SchedulerConfig controls the background pass over pending received records
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule" validate:"required_if=Enabled true"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		HTTP:      HTTPConfig{Addr: DefaultHTTPAddr},
		Scheduler: SchedulerConfig{Schedule: DefaultSchedule},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. A .env file in the working
// directory is loaded first when present; path may be empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookupNonEmpty(lookup, "DATABASE_URL"); ok {
		cfg.Database.URL = v
	}
	if v, ok := lookupNonEmpty(lookup, "REDIS_URL"); ok {
		cfg.Redis.URL = v
	}
	if v, ok := lookupNonEmpty(lookup, "LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookupNonEmpty(lookup, "LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := lookupNonEmpty(lookup, "HTTP_ADDR"); ok {
		cfg.HTTP.Addr = v
	}
	if v, ok := lookupNonEmpty(lookup, "RECONCILE_SCHEDULE"); ok {
		cfg.Scheduler.Schedule = v
		cfg.Scheduler.Enabled = true
	}
}

func lookupNonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks settings that have no usable fallback
func (c *Config) Validate() error {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}

	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		fields := make([]string, 0, len(validationErrors))
		for _, ve := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s (%s)", strings.TrimPrefix(ve.Namespace(), "Config."), ve.Tag()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
	}
	return nil
}
