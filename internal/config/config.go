// Package config provides YAML-based configuration loading for the fleet tracker.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvAdminKey   = "JARVIS_ADMIN_KEY"
	EnvDBPassword = "JARVIS_DB_PASSWORD"
)

// Config is the top-level configuration, loaded from jarvis.yaml.
type Config struct {
	AdminKey string         `yaml:"admin_key"`
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Rate     RateConfig     `yaml:"rate"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects and addresses the instance store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "mysql" or "sqlite"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"` // sqlite file
}

// HTTPConfig holds settings for the API server.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// SweepConfig controls presence sweeping.
type SweepConfig struct {
	Threshold time.Duration `yaml:"threshold"`
	Schedule  string        `yaml:"schedule"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RateConfig controls the activity rate gate.
type RateConfig struct {
	Window time.Duration `yaml:"window"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads a YAML config file from path, applies environment overrides
// (including a .env file next to the working directory, if present) and
// returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	// A missing .env is normal.
	_ = godotenv.Load()
	return parse(data, os.Getenv)
}

// Parse unmarshals YAML bytes into a validated Config. It does not consult
// the environment.
func Parse(data []byte) (*Config, error) {
	return parse(data, func(string) string { return "" })
}

func parse(data []byte, getenv func(string) string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv(getenv)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAdminKey); v != "" {
		c.AdminKey = v
	}
	if v := getenv(EnvDBPassword); v != "" {
		c.Database.Password = v
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
		if c.Database.Database == "" {
			c.Database.Database = "jarvis"
		}
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "jarvis.db"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Sweep.Threshold == 0 {
		c.Sweep.Threshold = 30 * time.Minute
	}
	if c.Sweep.Schedule == "" {
		c.Sweep.Schedule = "@every 5m"
	}
	if c.Sweep.Timeout == 0 {
		c.Sweep.Timeout = 30 * time.Second
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = 24 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.AdminKey == "" {
		errs = append(errs, "admin_key is required (or set "+EnvAdminKey+")")
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be mysql or sqlite", c.Database.Driver))
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port %d out of range", c.HTTP.Port))
	}
	if c.Sweep.Threshold < 0 {
		errs = append(errs, "sweep.threshold must be positive")
	}
	if c.Sweep.Timeout < 0 {
		errs = append(errs, "sweep.timeout must be positive")
	}
	if c.Rate.Window < 0 {
		errs = append(errs, "rate.window must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
