package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/harbour/internal/domain"
)

// Config holds all client configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Backend  BackendConfig `yaml:"backend"`
	Strategy string        `yaml:"strategy"`
	Logger   LoggerConfig  `yaml:"logger"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"`
	Key string `yaml:"key"`
}

type BackendConfig struct {
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerMinute int           `yaml:"rate_per_minute"`
	Burst         int           `yaml:"burst"`
}

type LoggerConfig struct {
	Level        string `yaml:"level"`
	Mode         string `yaml:"mode"`
	Encoding     string `yaml:"encoding"`
	ColorEnabled bool   `yaml:"color_enabled"`
}

// Load reads configuration with viper. When path is empty the file
// harbour.yaml is searched in ., ./.harbour and $HOME/.config/harbour; a
// missing file is not an error. HARBOUR_* environment variables override
// file values, e.g. HARBOUR_BACKEND_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("harbour")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./.harbour")
		v.AddConfigPath("$HOME/.config/harbour")
	}

	v.SetEnvPrefix("harbour")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Storage: StorageConfig{
			Dir: v.GetString("storage.dir"),
			Key: v.GetString("storage.key"),
		},
		Backend: BackendConfig{
			URL:           strings.TrimRight(v.GetString("backend.url"), "/"),
			Timeout:       v.GetDuration("backend.timeout"),
			RatePerMinute: v.GetInt("backend.rate_per_minute"),
			Burst:         v.GetInt("backend.burst"),
		},
		Strategy: v.GetString("strategy"),
		Logger: LoggerConfig{
			Level:        v.GetString("logger.level"),
			Mode:         v.GetString("logger.mode"),
			Encoding:     v.GetString("logger.encoding"),
			ColorEnabled: v.GetBool("logger.color_enabled"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.dir", ".harbour")
	v.SetDefault("storage.key", "user_tasks")

	v.SetDefault("backend.url", "http://127.0.0.1:8000")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.rate_per_minute", 60)
	v.SetDefault("backend.burst", 10)

	v.SetDefault("strategy", string(domain.DefaultStrategy))

	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", false)
}

// Validate checks the values a client cannot run without.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return errors.New("storage.dir is required")
	}
	if _, err := domain.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.url %q is not an absolute URL", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("backend.timeout must be positive")
	}
	if c.Backend.RatePerMinute < 0 {
		return errors.New("backend.rate_per_minute cannot be negative")
	}
	return nil
}

// YAML renders the effective configuration. Durations are written in their
// string form so the output can be fed back to Load.
func (c *Config) YAML() ([]byte, error) {
	type backend struct {
		URL           string `yaml:"url"`
		Timeout       string `yaml:"timeout"`
		RatePerMinute int    `yaml:"rate_per_minute"`
		Burst         int    `yaml:"burst"`
	}
	out := struct {
		Storage  StorageConfig `yaml:"storage"`
		Backend  backend       `yaml:"backend"`
		Strategy string        `yaml:"strategy"`
		Logger   LoggerConfig  `yaml:"logger"`
	}{
		Storage: c.Storage,
		Backend: backend{
			URL:           c.Backend.URL,
			Timeout:       c.Backend.Timeout.String(),
			RatePerMinute: c.Backend.RatePerMinute,
			Burst:         c.Backend.Burst,
		},
		Strategy: c.Strategy,
		Logger:   c.Logger,
	}
	return yaml.Marshal(out)
}
