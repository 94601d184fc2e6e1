package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"premium-calc/internal/logging"
	"premium-calc/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// RatesDir holds the *.csv rate tables. Relative paths are resolved against the config file directory
	// when that location exists, otherwise against the working directory.
	RatesDir string         `yaml:"rates_dir"`
	Server   ServerConfig   `yaml:"server"`
	Logging  logging.Config `yaml:"logging"`
	Defaults WindowDefaults `yaml:"defaults"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Env         string   `yaml:"env"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// WindowDefaults pre-fills the policy window when a caller omits it (CLI flags).
type WindowDefaults struct {
	Sex           string `yaml:"sex"`
	StartAge      int    `yaml:"start_age"`
	EndAge        int    `yaml:"end_age"`
	IncludeEndAge bool   `yaml:"include_end_age"`
}

func Default() *Config {
	return &Config{
		RatesDir: "rates",
		Server: ServerConfig{
			Port:        8080,
			Env:         "development",
			CORSOrigins: []string{"*"},
		},
		Logging: logging.DefaultConfig(),
		Defaults: WindowDefaults{
			Sex:           "M",
			StartAge:      16,
			EndAge:        50,
			IncludeEndAge: true,
		},
	}
}

// Load reads path (defaults only when path is empty), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked overlays the YAML file onto Default without validating.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.RatesDir != "" && !filepath.IsAbs(c.RatesDir) {
		cand := filepath.Join(filepath.Dir(path), c.RatesDir)
		if _, err := os.Stat(cand); err == nil {
			c.RatesDir = cand
		}
	}
	return c, nil
}

// ApplyEnv overrides file settings with RATES_DIR, API_PORT, API_ENV and LOG_LEVEL when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("RATES_DIR"); v != "" {
		c.RatesDir = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.RatesDir == "" {
		return errors.New("rates_dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if _, err := model.ParseSex(c.Defaults.Sex); err != nil {
		return fmt.Errorf("defaults.sex: %w", err)
	}
	if c.Defaults.StartAge < 0 || c.Defaults.EndAge < c.Defaults.StartAge || c.Defaults.EndAge > model.MaxAge {
		return fmt.Errorf("defaults: need 0 <= start_age <= end_age <= %d, got %d..%d",
			model.MaxAge, c.Defaults.StartAge, c.Defaults.EndAge)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config invalid: %w", err)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
