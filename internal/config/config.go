// Package config loads balance configuration from a properties file with
// environment variable overrides.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all balance configuration.
type Config struct {
	// TaskTypesDir is scanned for plugin artifacts at startup and watched
	// for new ones while running.
	TaskTypesDir string

	// SaveDir holds one JSON save file per task.
	SaveDir string

	// AutoSaveInt is the auto-save interval in whole seconds; non-positive
	// disables auto-save.
	AutoSaveInt int

	// JournalPath is the SQLite event journal; empty disables the journal.
	JournalPath string

	LogLevel  string
	LogDir    string
	LogFormat string
}

// Defaults mirrors the stock balance.properties.
func Defaults() *Config {
	return &Config{
		TaskTypesDir: "task-types.d",
		SaveDir:      "save.d",
		AutoSaveInt:  300,
		JournalPath:  "balance.db",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads balance.properties (from path if given, otherwise the working
// directory) plus BALANCE_* environment overrides. The returned Config is
// always usable; the error, if any, says why the file itself was not. A
// missing or unreadable file just means defaults, which callers report as
// a warning and carry on, matching how a fresh install behaves.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("properties")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("balance")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("BALANCE")
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("task_types_dir", def.TaskTypesDir)
	v.SetDefault("save_dir", def.SaveDir)
	v.SetDefault("auto_save_int", def.AutoSaveInt)
	v.SetDefault("journal_path", def.JournalPath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_dir", def.LogDir)
	v.SetDefault("log_format", def.LogFormat)

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		readErr = fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{
		TaskTypesDir: v.GetString("task_types_dir"),
		SaveDir:      v.GetString("save_dir"),
		AutoSaveInt:  v.GetInt("auto_save_int"),
		JournalPath:  v.GetString("journal_path"),
		LogLevel:     v.GetString("log_level"),
		LogDir:       v.GetString("log_dir"),
		LogFormat:    v.GetString("log_format"),
	}
	return cfg, readErr
}
