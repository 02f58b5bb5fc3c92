package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const configName = "todopuzzle.toml"

// projectConfigNames are checked in order in the working directory.
var projectConfigNames = []string{configName, "." + configName}

func findProjectConfigFile() string {
	return firstExisting(projectConfigNames)
}

// findUserConfigFile prefers ~/.todopuzzle/todopuzzle.toml and then the
// platform config directory.
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".todopuzzle", configName))
	}
	if dir := platformConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "todopuzzle", configName))
	}
	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// platformConfigDir mirrors os.UserConfigDir but tolerates a missing
// $HOME on platforms that have an explicit override variable.
func platformConfigDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	if runtime.GOOS != "darwin" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support")
	}
	return filepath.Join(home, ".config")
}

// setDefaults resets cfg to the built-in defaults.
func setDefaults(cfg *Config) {
	*cfg = Config{
		TodoFile:         DefaultTodoFile,
		StateFile:        DefaultStateFile,
		LogDir:           DefaultLogDir,
		City:             DefaultCity,
		ImageURLTemplate: DefaultImageURLTemplate,
		ListenAddr:       DefaultListenAddr,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// GetConfigFile returns the highest-priority config file that was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if n := len(cws.Files); n > 0 {
		return cws.Files[n-1]
	}
	return ""
}
