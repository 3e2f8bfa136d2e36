// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type RemindLimit struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

type Config struct {
	Port           string       `yaml:"port"`
	DBPath         string       `yaml:"db_path"`
	LogLevel       string       `yaml:"log_level"`
	LogFormat      string       `yaml:"log_format"`
	AllowedOrigins []string     `yaml:"allowed_origins"`
	Gemini         GeminiConfig `yaml:"gemini"`
	RemindLimit    RemindLimit  `yaml:"remind_limit"`
}

func Default() Config {
	return Config{
		Port:        "8080",
		DBPath:      "chorechamp.db",
		LogLevel:    "info",
		LogFormat:   "text",
		RemindLimit: RemindLimit{Requests: 10, WindowSeconds: 60},
	}
}

// Load reads path (if non-empty) over the defaults and then applies
// environment overrides. A missing file is an error only when path was given.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config file %s not found", path)
			}
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}

	set(&cfg.Port, "CHORECHAMP_PORT")
	set(&cfg.DBPath, "CHORECHAMP_DB_PATH")
	set(&cfg.LogLevel, "CHORECHAMP_LOG_LEVEL")
	set(&cfg.LogFormat, "CHORECHAMP_LOG_FORMAT")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY", "API_KEY")
	set(&cfg.Gemini.Model, "CHORECHAMP_GEMINI_MODEL")

	if v, ok := lookup("CHORECHAMP_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.RemindLimit.Requests < 1 || c.RemindLimit.WindowSeconds < 1 {
		return fmt.Errorf("remind_limit must be positive, got %d per %ds",
			c.RemindLimit.Requests, c.RemindLimit.WindowSeconds)
	}
	return nil
}
