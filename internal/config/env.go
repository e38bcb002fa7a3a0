package config

import "os"

// Environment variable names recognized as overrides.
const (
	EnvLogLevel   = "STATEVAULT_LOG_LEVEL"
	EnvScriptDir  = "STATEVAULT_SCRIPT_DIR"
	EnvScriptTime = "STATEVAULT_SCRIPT_TIMEOUT"
	EnvStateFile  = "STATEVAULT_STATE_FILE"
)

// applyEnv overlays environment variables on cfg.
// Note: Empty string values are treated as valid values, not as unset.
func applyEnv(cfg *Config) {
	if val, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = val
	}
	if val, ok := os.LookupEnv(EnvScriptDir); ok {
		cfg.Script.Dir = val
	}
	if val, ok := os.LookupEnv(EnvScriptTime); ok {
		cfg.Script.Timeout = val
	}
	if val, ok := os.LookupEnv(EnvStateFile); ok {
		cfg.State.File = val
	}
}
