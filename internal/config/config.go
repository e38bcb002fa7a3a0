package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tool configuration.
type Config struct {
	// Log configures logging output.
	Log LogConfig `toml:"log"`

	// Script configures the Lua scripting surface.
	Script ScriptConfig `toml:"script"`

	// State configures the state container.
	State StateConfig `toml:"state"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `toml:"level"`
}

// ScriptConfig configures script execution.
type ScriptConfig struct {
	// Dir is the directory searched for Lua scripts.
	Dir string `toml:"dir"`

	// Timeout bounds a single script execution, e.g. "5s".
	Timeout string `toml:"timeout"`
}

// StateConfig configures the state container.
type StateConfig struct {
	// File is a JSON file holding the initial state.
	File string `toml:"file"`
}

// Default returns the built-in default configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Script: ScriptConfig{Dir: "scripts", Timeout: "5s"},
	}
}

// ParseError describes a configuration file that could not be parsed.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load resolves the configuration from defaults, the TOML file at path,
// and environment overrides. A missing file is not an error; an empty
// path skips the file layer entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// loadFile merges the TOML file at path into cfg.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	return nil
}

// ScriptTimeout parses the configured script timeout, falling back to the
// default on empty or malformed values.
func (c Config) ScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Script.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
