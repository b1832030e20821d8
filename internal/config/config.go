package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the monthly server and TUI.
type Config struct {
	// Port is the HTTP listen port.
	Port string `yaml:"port"`

	// DBPath selects the SQLite store. Empty keeps events in memory only.
	DBPath string `yaml:"db_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Timezone is the IANA zone that decides which day is "today".
	Timezone string `yaml:"timezone"`

	// AuthUser and AuthHash (bcrypt) enable basic auth on mutating routes.
	AuthUser string `yaml:"auth_user"`
	AuthHash string `yaml:"auth_hash"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "text",
		Timezone:  "UTC",
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the
// YAML file named by MONTHLY_CONFIG, and MONTHLY_* environment variables. A
// .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("MONTHLY_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(os.LookupEnv)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	vars := map[string]*string{
		"MONTHLY_PORT":       &c.Port,
		"MONTHLY_DB_PATH":    &c.DBPath,
		"MONTHLY_LOG_LEVEL":  &c.LogLevel,
		"MONTHLY_LOG_FORMAT": &c.LogFormat,
		"MONTHLY_TIMEZONE":   &c.Timezone,
		"MONTHLY_AUTH_USER":  &c.AuthUser,
		"MONTHLY_AUTH_HASH":  &c.AuthHash,
	}
	for name, dst := range vars {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
}

// Normalize fills empty values with defaults.
func (c *Config) Normalize() {
	d := Default()
	if strings.TrimSpace(c.Port) == "" {
		c.Port = d.Port
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
}

// Validate reports configuration that cannot be started with.
func (c *Config) Validate() error {
	var errs []error

	if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.LogFormat))
	}
	if (c.AuthUser == "") != (c.AuthHash == "") {
		errs = append(errs, errors.New("auth_user and auth_hash must be set together"))
	}

	return errors.Join(errs...)
}

// Location returns the configured time zone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
