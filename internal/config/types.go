package config

import "reflect"

// ConfigSource names the layer that set a value.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources is a resolved Config plus, per key, the layer that set it.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTodoFile         = "todo.json"
	DefaultStateFile        = ".todopuzzle/board.json"
	DefaultLogDir           = "~/.todopuzzle"
	DefaultCity             = "Paris"
	DefaultImageURLTemplate = "https://source.unsplash.com/1600x900/?{city},skyline"
	DefaultListenAddr       = "127.0.0.1:8080"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config is the resolved todopuzzle configuration. Toml tags double as the
// keys reported by Fields.
type Config struct {
	// Paths
	TodoFile   string `toml:"todo_file"`
	StateFile  string `toml:"state_file"`
	SchemaFile string `toml:"schema_file"`
	LogDir     string `toml:"log_dir"`

	// Puzzle
	City             string `toml:"city"`
	ImageURLTemplate string `toml:"image_url_template"`

	// HTTP server
	ListenAddr string `toml:"listen_addr"`

	// Hook run when a puzzle is completed
	HookCommand string `toml:"hook_command"`

	// Console logger
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory at load time
	ProjectRoot string `toml:"-"`
}

// Fields returns the file keys of Config in declaration order.
func Fields() []string {
	return configFields()
}

func configFields() []string {
	t := reflect.TypeFor[Config]()
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if key := t.Field(i).Tag.Get("toml"); key != "" && key != "-" {
			keys = append(keys, key)
		}
	}
	return keys
}
