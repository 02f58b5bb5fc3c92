package cmd

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todopuzzle/internal/config"
)

// configCommand prints the effective configuration as TOML, annotating each
// key with where its value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todopuzzle config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example todopuzzle.toml")
	if err := noArgs(fs, args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	data, err := toml.Marshal(cws.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	fmt.Fprintln(stdout, "# Effective todopuzzle configuration")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "# No config files found")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "# Read: %s\n", f)
	}
	fmt.Fprintf(stdout, "# Project root: %s\n", cws.Config.ProjectRoot)
	fmt.Fprintln(stdout)

	for _, key := range config.Fields() {
		fmt.Fprintf(stdout, "%s = %s  # %s\n", key, formatValue(values[key]), cws.Sources[key])
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return `""`
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
