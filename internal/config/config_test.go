// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// isolate points HOME and the working directory at fresh temp dirs so
// no real config files leak into the test.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, env := range []string{
		"TODOPUZZLE_TODO", "TODOPUZZLE_STATE", "TODOPUZZLE_SCHEMA", "TODOPUZZLE_LOG_DIR",
		"TODOPUZZLE_CITY", "TODOPUZZLE_IMAGE_URL", "TODOPUZZLE_ADDR", "TODOPUZZLE_HOOK",
		"TODOPUZZLE_LOG_LEVEL", "TODOPUZZLE_LOG_FORMAT", "TODOPUZZLE_LOG_TIMESTAMPS", "TODOPUZZLE_LOG_CALLER",
	} {
		t.Setenv(env, "")
	}
	t.Chdir(project)
	return home, project
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
	if cfg.City != "Paris" {
		t.Errorf("City: got %q, want Paris", cfg.City)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr: got %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.HookCommand != "" {
		t.Errorf("HookCommand: got %q, want empty", cfg.HookCommand)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODOPUZZLE_TODO", "custom-todo.json")
	t.Setenv("TODOPUZZLE_CITY", "Lisbon")
	t.Setenv("TODOPUZZLE_LOG_CALLER", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.TodoFile != "custom-todo.json" {
		t.Errorf("TodoFile: got %q, want custom-todo.json", cfg.TodoFile)
	}
	if cfg.City != "Lisbon" {
		t.Errorf("City: got %q, want Lisbon", cfg.City)
	}
	if !cfg.LogCaller {
		t.Errorf("LogCaller: got false, want true")
	}
	if sources["city"] != SourceEnv {
		t.Errorf("city source: got %q, want %q", sources["city"], SourceEnv)
	}
	if _, ok := sources["listen_addr"]; ok {
		t.Errorf("listen_addr should not be tracked when unset")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todopuzzle.toml")

	content := []byte(`todo_file = "custom.json"
city = "Kyoto"
hook_command = "notify-send"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFile(cfg, configFile, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.TodoFile != "custom.json" {
		t.Errorf("TodoFile: got %q, want custom.json", cfg.TodoFile)
	}
	if cfg.City != "Kyoto" {
		t.Errorf("City: got %q, want Kyoto", cfg.City)
	}
	if cfg.HookCommand != "notify-send" {
		t.Errorf("HookCommand: got %q, want notify-send", cfg.HookCommand)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr: got %q, want default", cfg.ListenAddr)
	}
	if sources["city"] != SourceProjFile {
		t.Errorf("city source: got %q, want %q", sources["city"], SourceProjFile)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todopuzzle.toml")
	if err := os.WriteFile(configFile, []byte("max_iterations = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	err := loadConfigFile(cfg, configFile, nil, SourceUserFile)
	if err == nil || !strings.Contains(err.Error(), "max_iterations") {
		t.Fatalf("loadConfigFile: got %v, want unknown key error", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
	}
	if runtime.GOOS == "windows" {
		t.Setenv("TODOPUZZLE_TEST_HOME", home)
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: `~\test`,
			want:  filepath.Join(home, "test"),
		}, struct {
			input string
			want  string
		}{
			input: `%TODOPUZZLE_TEST_HOME%\logs`,
			want:  filepath.Join(home, "logs"),
		})
	} else {
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: `~\test`,
			want:  `~\test`,
		})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--todo", "flag-todo.json",
		"--city", "Cairo",
		"--addr", ":9999",
		"--log-timestamps",
		"ls",
	}

	sources := map[string]ConfigSource{}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.TodoFile != "flag-todo.json" {
		t.Errorf("TodoFile: got %q, want flag-todo.json", cfg.TodoFile)
	}
	if cfg.City != "Cairo" {
		t.Errorf("City: got %q, want Cairo", cfg.City)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr: got %q, want :9999", cfg.ListenAddr)
	}
	if !cfg.LogTimestamps {
		t.Errorf("LogTimestamps: got false, want true")
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "ls" {
		t.Errorf("remaining args: got %v, want [ls]", got)
	}
	if sources["listen_addr"] != SourceFlag {
		t.Errorf("listen_addr source: got %q, want %q", sources["listen_addr"], SourceFlag)
	}
	if _, ok := sources["state_file"]; ok {
		t.Errorf("state_file should not be tracked when the flag is unset")
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadWithSourcesPriority(t *testing.T) {
	home, project := isolate(t)

	userDir := filepath.Join(home, ".todopuzzle")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(userDir, "todopuzzle.toml")
	if err := os.WriteFile(userFile, []byte("city = \"Oslo\"\nlisten_addr = \":7000\"\nhook_command = \"user-hook\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, "todopuzzle.toml"), []byte("city = \"Rome\"\nlisten_addr = \":7001\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOPUZZLE_ADDR", ":7002")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-state", "custom/board.json"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	checks := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"hook_command", cfg.HookCommand, "user-hook", SourceUserFile},
		{"city", cfg.City, "Rome", SourceProjFile},
		{"listen_addr", cfg.ListenAddr, ":7002", SourceEnv},
		{"state_file", cfg.StateFile, filepath.Join(project, "custom", "board.json"), SourceFlag},
		{"todo_file", cfg.TodoFile, filepath.Join(project, DefaultTodoFile), SourceDefault},
		{"log_dir", cfg.LogDir, userDir, SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
		if cws.Sources[c.field] != c.source {
			t.Errorf("%s source: got %q, want %q", c.field, cws.Sources[c.field], c.source)
		}
	}
	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want user and project files", cws.Files)
	}
	if cws.GetConfigFile() != "todopuzzle.toml" {
		t.Errorf("GetConfigFile: got %q, want todopuzzle.toml", cws.GetConfigFile())
	}
	if cfg.ProjectRoot == "" {
		t.Errorf("ProjectRoot should be set")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	isolate(t)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := Load(fs, []string{"-log-format", "yaml"}); err == nil {
		t.Fatal("Load: expected error for log format yaml")
	}
}

func TestExampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todopuzzle.toml")
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	if err := loadConfigFile(cfg, path, nil, SourceProjFile); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if cfg.City != DefaultCity {
		t.Errorf("City: got %q, want %q", cfg.City, DefaultCity)
	}
	if cfg.ImageURLTemplate != DefaultImageURLTemplate {
		t.Errorf("ImageURLTemplate: got %q, want %q", cfg.ImageURLTemplate, DefaultImageURLTemplate)
	}
}
