package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dshills/statevault/internal/config"
	"github.com/dshills/statevault/internal/engine/version"
	"github.com/dshills/statevault/internal/script"
)

// ErrQuit signals a normal user-initiated exit.
var ErrQuit = errors.New("quit")

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// StateFile is a JSON file holding the initial state. Overrides the
	// configured state file.
	StateFile string

	// LogLevel sets the logging verbosity. Overrides the configured level.
	LogLevel string

	// Watch enables live reload of the configuration file.
	Watch bool

	// Input is the command source. Defaults to os.Stdin.
	Input io.Reader

	// Output is where command results are written. Defaults to os.Stdout.
	Output io.Writer
}

// App is the central coordinator: it owns the state container, the
// scripting engine, configuration, and the interactive loop.
type App struct {
	opts   Options
	cfg    config.Config
	logger *Logger

	state  *version.State
	engine *script.Engine

	watcher *config.Watcher

	in  io.Reader
	out io.Writer
}

// New creates a new App with the given options.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(level),
		Prefix: "statevault",
	})

	stateFile := cfg.State.File
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}
	initial, err := loadInitialState(stateFile)
	if err != nil {
		return nil, err
	}

	st := version.New(initial)

	eng, err := script.NewEngine(st, script.WithExecutionTimeout(cfg.ScriptTimeout()))
	if err != nil {
		return nil, err
	}

	a := &App{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		state:  st,
		engine: eng,
		in:     opts.Input,
		out:    opts.Output,
	}
	if a.in == nil {
		a.in = os.Stdin
	}
	if a.out == nil {
		a.out = os.Stdout
	}

	if opts.Watch && opts.ConfigPath != "" {
		if err := a.startWatcher(); err != nil {
			eng.Close()
			return nil, err
		}
	}

	return a, nil
}

// loadInitialState reads the initial state from a JSON file. An empty
// path yields an empty initial state.
func loadInitialState(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	var initial map[string]any
	if err := json.Unmarshal(data, &initial); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	return initial, nil
}

// startWatcher begins live reload of the configuration file.
func (a *App) startWatcher() error {
	w, err := config.NewWatcher(a.opts.ConfigPath, a.applyConfig)
	if err != nil {
		return err
	}
	a.watcher = w

	go func() {
		for err := range w.Errors() {
			a.logger.WithComponent("config").Error("watch: %v", err)
		}
	}()

	a.logger.Debug("watching %s", w.Path())
	return nil
}

// applyConfig applies a reloaded configuration. Only settings that are
// safe to change at runtime take effect.
func (a *App) applyConfig(cfg config.Config) {
	a.cfg = cfg
	if a.opts.LogLevel == "" {
		a.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	a.logger.Info("configuration reloaded")
}

// State returns the application's state container.
func (a *App) State() *version.State {
	return a.state
}

// Logger returns the application's logger instance.
func (a *App) Logger() *Logger {
	return a.logger
}

// Shutdown releases application resources.
func (a *App) Shutdown() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	if a.engine != nil {
		a.engine.Close()
		a.engine = nil
	}
}
