package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load resolves the configuration. Later layers win: defaults, the user
// file, the project file, TODOPUZZLE_* variables, then command-line flags.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources is Load, but also records which layer set each key and
// which config files were read.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	setDefaults(cfg)
	cws := &ConfigWithSources{Config: cfg, Sources: make(map[string]ConfigSource)}
	for _, key := range configFields() {
		cws.Sources[key] = SourceDefault
	}

	files := []struct {
		path   string
		source ConfigSource
	}{
		{findUserConfigFile(), SourceUserFile},
		{findProjectConfigFile(), SourceProjFile},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := loadConfigFile(cfg, f.path, cws.Sources, f.source); err != nil {
			return nil, fmt.Errorf("load %s %s: %w", f.source, f.path, err)
		}
		cws.Files = append(cws.Files, f.path)
	}

	loadFromEnv(cfg, cws.Sources)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cws, nil
}

// loadConfigFile decodes TOML over cfg and marks every key the file defines.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	for _, key := range md.Keys() {
		if sources != nil {
			sources[key.String()] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates paths.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.TodoFile = expandPath(cfg.TodoFile)
	cfg.StateFile = expandPath(cfg.StateFile)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.TodoFile = resolve(cfg.ProjectRoot, cfg.TodoFile)
	cfg.StateFile = resolve(cfg.ProjectRoot, cfg.StateFile)
	if cfg.SchemaFile != "" {
		cfg.SchemaFile = resolve(cfg.ProjectRoot, cfg.SchemaFile)
	}

	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q, must be one of: text, json, logfmt", cfg.LogFormat)
	}
	return nil
}
