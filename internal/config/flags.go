package config

import (
	"flag"
)

// parseFlags defines and parses the global CLI flags.
// If sources is non-nil, every flag set on the command line is recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todopuzzle", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TodoFile, "todo", cfg.TodoFile, "Path to task file")
	fs.StringVar(&cfg.StateFile, "state", cfg.StateFile, "Path to board state file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to task file JSON Schema (embedded schema if empty)")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")

	// Puzzle
	fs.StringVar(&cfg.City, "city", cfg.City, "City shown in the hidden image for new puzzles")

	// Server
	fs.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "HTTP listen address for serve")

	// Hooks
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run when a puzzle is completed")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		flagToSource := map[string]string{
			"todo":           "todo_file",
			"state":          "state_file",
			"schema":         "schema_file",
			"log-dir":        "log_dir",
			"city":           "city",
			"addr":           "listen_addr",
			"hook":           "hook_command",
			"log-level":      "log_level",
			"log-format":     "log_format",
			"log-timestamps": "log_timestamps",
			"log-caller":     "log_caller",
		}
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagToSource[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}

	return nil
}
