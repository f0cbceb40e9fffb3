// Package config handles user settings and pool seed files for caucus.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output when set; otherwise stderr is used.
	File string `mapstructure:"file"`
}

// ImproConfig holds generation defaults.
type ImproConfig struct {
	// DefaultPlaces is the initial number of places requested.
	DefaultPlaces int `mapstructure:"default_places"`
	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// SheetConfig controls how a generated impro is printed.
type SheetConfig struct {
	// Format is "text" or "markdown".
	Format string `mapstructure:"format"`
	// Template is an optional path to a text/template file.
	Template string `mapstructure:"template"`
}

// Settings is the top-level configuration.
type Settings struct {
	DataDir  string        `mapstructure:"data_dir"`
	Database string        `mapstructure:"database"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Impro    ImproConfig   `mapstructure:"impro"`
	Sheet    SheetConfig   `mapstructure:"sheet"`
}

// DatabasePath returns the SQLite file path, resolved against DataDir when relative.
func (s Settings) DatabasePath() string {
	if filepath.IsAbs(s.Database) || s.DataDir == "" {
		return s.Database
	}
	return filepath.Join(s.DataDir, s.Database)
}

// PoolsPath returns the location of the pool seed file.
func (s Settings) PoolsPath() string {
	return filepath.Join(s.DataDir, PoolsFile)
}

// Validate checks every setting and reports all violations at once.
func (s Settings) Validate() error {
	var errs []string
	if strings.TrimSpace(s.Database) == "" {
		errs = append(errs, "database must not be empty")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[s.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", s.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[s.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", s.Logging.Format))
	}
	if s.Impro.DefaultPlaces < 1 || s.Impro.DefaultPlaces > 10 {
		errs = append(errs, fmt.Sprintf("impro.default_places must be 1-10, got %d", s.Impro.DefaultPlaces))
	}
	validSheets := map[string]bool{"text": true, "markdown": true}
	if !validSheets[s.Sheet.Format] {
		errs = append(errs, fmt.Sprintf("sheet.format must be one of [text, markdown], got %q", s.Sheet.Format))
	}
	if len(errs) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	dir, err := DefaultDataDir()
	if err != nil {
		dir = "."
	}
	v.SetDefault("data_dir", dir)
	v.SetDefault("database", "caucus.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("impro.default_places", 1)
	v.SetDefault("impro.seed", 0)
	v.SetDefault("sheet.format", "text")
	v.SetDefault("sheet.template", "")
}

// Load builds Settings from v, reading the config file first when one is set.
// A missing config file is not an error.
func Load(v *viper.Viper) (Settings, error) {
	v.SetEnvPrefix("CAUCUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Settings{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DefaultDataDir returns the default data directory, honouring XDG_CONFIG_HOME.
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "caucus"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "caucus"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir(s Settings) error {
	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
