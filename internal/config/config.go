// Package config loads the job editor configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "jobeditor.toml"

// DefaultStorePath is the job store used when none is configured.
const DefaultStorePath = "jobs.yaml"

// Config is the job editor configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`
}

// StoreConfig configures the job store.
type StoreConfig struct {
	Path string `toml:"path"`
}

// EditorConfig configures editing sessions.
type EditorConfig struct {
	DefaultColor    string `toml:"default_color"`
	DefaultStepType string `toml:"default_step_type"`
	// LockDuringSave rejects structural edits while a save is in flight.
	LockDuringSave *bool `toml:"lock_during_save"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	lock := true
	return Config{
		Store: StoreConfig{Path: DefaultStorePath},
		Editor: EditorConfig{
			DefaultColor:    job.DefaultColor,
			DefaultStepType: string(job.StepTypeText),
			LockDuringSave:  &lock,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration at path, filling unset keys with defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, &UserError{
			Code:       ErrCodeConfigRead,
			Message:    "could not read configuration",
			Context:    path,
			Underlying: err,
		}
	}

	var fileCfg Config
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, &UserError{
			Code:       ErrCodeConfigParse,
			Message:    "configuration is not valid TOML",
			Context:    path,
			Suggestion: "check the file with a TOML linter",
			Underlying: err,
		}
	}
	cfg.merge(fileCfg)

	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) && fileCfg.Store.Path != "" {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}

	if err := cfg.Validate(); err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) {
			userErr.Context = path
		}
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(other Config) {
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Editor.DefaultColor != "" {
		c.Editor.DefaultColor = other.Editor.DefaultColor
	}
	if other.Editor.DefaultStepType != "" {
		c.Editor.DefaultStepType = other.Editor.DefaultStepType
	}
	if other.Editor.LockDuringSave != nil {
		c.Editor.LockDuringSave = other.Editor.LockDuringSave
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	c.Log.JSON = c.Log.JSON || other.Log.JSON
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := job.ValidateColor(c.Editor.DefaultColor); err != nil {
		return &UserError{
			Code:       ErrCodeConfigInvalid,
			Message:    fmt.Sprintf("editor.default_color %q is not a color", c.Editor.DefaultColor),
			Suggestion: "use a hex color such as \"#ff9131\"",
			Underlying: err,
		}
	}
	if _, err := job.ParseStepType(c.Editor.DefaultStepType); err != nil {
		return &UserError{
			Code:       ErrCodeConfigInvalid,
			Message:    fmt.Sprintf("editor.default_step_type %q is not a step type", c.Editor.DefaultStepType),
			Suggestion: "use one of text, number, date, time, date_time, multiple_choice, photo",
			Underlying: err,
		}
	}
	if _, err := ports.ParseLevel(c.Log.Level); err != nil {
		return &UserError{
			Code:       ErrCodeConfigInvalid,
			Message:    fmt.Sprintf("log.level %q is not a log level", c.Log.Level),
			Suggestion: "use debug, info, warn or error",
			Underlying: err,
		}
	}
	if c.Store.Path == "" {
		return &UserError{
			Code:       ErrCodeConfigInvalid,
			Message:    "store.path must not be empty",
			Suggestion: fmt.Sprintf("set store.path, for example %q", DefaultStorePath),
		}
	}
	return nil
}

// StepType returns the configured default step type.
func (c Config) StepType() job.StepType {
	t, err := job.ParseStepType(c.Editor.DefaultStepType)
	if err != nil {
		return job.StepTypeText
	}
	return t
}

// LockEditsDuringSave reports whether edits are rejected while saving.
func (c Config) LockEditsDuringSave() bool {
	return c.Editor.LockDuringSave == nil || *c.Editor.LockDuringSave
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() ports.Level {
	level, err := ports.ParseLevel(c.Log.Level)
	if err != nil {
		return ports.LevelInfo
	}
	return level
}

// Write stores the configuration at path.
func Write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
