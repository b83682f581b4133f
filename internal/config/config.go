// Package config loads studyhub settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName names the config and data directories.
const AppName = "studyhub"

// Config holds user-level settings.
type Config struct {
	DataDir  string `yaml:"data_dir,omitempty"`
	Driver   string `yaml:"driver,omitempty"`   // sqlite3 | sqlite
	Timezone string `yaml:"timezone,omitempty"` // IANA name, empty for local
	User     string `yaml:"user,omitempty"`     // current identity
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the settings used when no file or variable says otherwise.
func Default() (Config, error) {
	dataDir, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DataDir:  dataDir,
		Driver:   "sqlite3",
		LogLevel: "info",
	}, nil
}

// DefaultPath is $XDG_CONFIG_HOME/studyhub/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}

// defaultDataDir uses the XDG data directory or falls back to ~/.local/share
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppName), nil
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	file, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.merge(file)

	cfg.merge(Config{
		DataDir:  os.Getenv("STUDYHUB_DATA_DIR"),
		Driver:   os.Getenv("STUDYHUB_DRIVER"),
		Timezone: os.Getenv("STUDYHUB_TZ"),
		User:     os.Getenv("STUDYHUB_USER"),
		LogLevel: os.Getenv("STUDYHUB_LOG_LEVEL"),
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadFile returns only what the file at path sets, without defaults or
// environment overrides. A missing or empty file yields the zero Config.
func ReadFile(path string) (Config, error) {
	var file Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return file, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&file); err != nil {
		return file, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return file, nil
}

// merge copies the non-empty fields of o into c
func (c *Config) merge(o Config) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.User != "" {
		c.User = o.User
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate checks values that would otherwise fail later and far away.
func (c Config) Validate() error {
	switch c.Driver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("invalid driver %q: must be sqlite3 or sqlite", c.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location is the time zone calendar days are computed in.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Save writes c to path as YAML, creating the directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
