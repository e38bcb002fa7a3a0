// Package config provides configuration loading for the statevault tool.
//
// Configuration is resolved from three layers, later layers overriding
// earlier ones:
//
//  1. Built-in defaults
//  2. A TOML configuration file (missing files are not an error)
//  3. STATEVAULT_* environment variables
//
// The Watcher type provides live reload: it monitors the configuration
// file via fsnotify and invokes a callback with the re-resolved
// configuration whenever the file changes.
package config
