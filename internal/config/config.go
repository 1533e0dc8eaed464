// Package config loads userdesk settings from an optional YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/userdesk/internal/remote"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the client settings loaded from userdesk.yml.
type Config struct {
	BaseURL string        `yaml:"baseURL,omitempty" env:"USERDESK_BASE_URL"`
	Timeout time.Duration `yaml:"timeout,omitempty" env:"USERDESK_TIMEOUT"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// LogConfig selects the logger level and output format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" env:"USERDESK_LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"USERDESK_LOG_FORMAT"` // text or json
}

// Load attempts to read userdesk.yml or userdesk.yaml from the given
// directory, then applies USERDESK_* environment overrides and defaults. A
// missing file is not an error; an unreadable one is.
func Load(dir string) (*Config, error) {
	var cfg Config
	for _, name := range []string{"userdesk.yml", "userdesk.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
		break
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = remote.DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("baseURL %q must be an absolute http(s) URL", c.BaseURL))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
