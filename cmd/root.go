// Package cmd implements the CLI command structure for todopuzzle.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todopuzzle/internal/config"
	"github.com/nibzard/todopuzzle/internal/game"
	"github.com/nibzard/todopuzzle/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams. Tests swap these to capture command output.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todopuzzle CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todopuzzle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No args or a leading flag means "ls"
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "board":
		return boardCommand(cfg, remainingArgs)
	case "reveal":
		return revealCommand(ctx, cfg, remainingArgs)
	case "reset":
		return resetCommand(cfg, remainingArgs)
	case "city":
		return cityCommand(cfg, remainingArgs)
	case "layout":
		return layoutCommand(remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "serve":
		return serveCommand(ctx, cfg, remainingArgs)
	case "log":
		return logCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openGame builds a Game from cfg. The returned close func flushes the
// journal and must be called when the command is done.
func openGame(cfg *config.Config) (*game.Game, func()) {
	logger := newLogger(cfg)

	journal, err := logging.OpenJournal(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		logger.Warn("journal disabled", "err", err)
		journal = nil
	}

	g := game.New(game.Options{
		TodoPath:         cfg.TodoFile,
		StatePath:        cfg.StateFile,
		SchemaPath:       cfg.SchemaFile,
		City:             cfg.City,
		ImageURLTemplate: cfg.ImageURLTemplate,
		HookCommand:      cfg.HookCommand,
		HookOutput:       stderr,
		WorkDir:          cfg.ProjectRoot,
		Logger:           logger,
		Journal:          journal,
	})
	return g, func() {
		if err := journal.Close(); err != nil {
			logger.Warn("closing journal", "err", err)
		}
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

func versionCommand() error {
	fmt.Fprintf(stdout, "todopuzzle version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todopuzzle - finish tasks, uncover a hidden city")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todopuzzle [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls              List tasks (default command)")
	fmt.Fprintln(w, "  add <title>     Add a task")
	fmt.Fprintln(w, "  done <id>       Toggle a task between todo and done")
	fmt.Fprintln(w, "  rm <id>         Delete a task")
	fmt.Fprintln(w, "  board           Show the puzzle board")
	fmt.Fprintln(w, "  reveal <piece>  Spend a credit to reveal a piece (number shown on the board)")
	fmt.Fprintln(w, "  reset           Generate a fresh puzzle")
	fmt.Fprintln(w, "  city <name>     Change the hidden city")
	fmt.Fprintln(w, "  layout <n>      Print a one-off layout for n pieces")
	fmt.Fprintln(w, "  tui             Launch terminal UI")
	fmt.Fprintln(w, "  serve           Serve the JSON API")
	fmt.Fprintln(w, "  log             Print the activity journal")
	fmt.Fprintln(w, "  doctor          Check config, files and hook")
	fmt.Fprintln(w, "  config          Show effective config and where each value came from")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (todo|done)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout Options:")
	fmt.Fprintln(w, "  -seed int")
	fmt.Fprintln(w, "        Random seed (0 = time based)")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the layout as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example todopuzzle.toml")
}

// parseArgs parses fs allowing flags after positional arguments, so both
// "layout -seed 7 12" and "layout 12 -seed 7" work.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(stderr)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// oneArg returns the single positional argument of a subcommand, joined
// with spaces when joinRest is set.
func oneArg(fs *flag.FlagSet, args []string, what string, joinRest bool) (string, error) {
	rest, err := parseArgs(fs, args)
	if err != nil {
		return "", err
	}
	if len(rest) == 0 {
		return "", fmt.Errorf("missing %s", what)
	}
	if joinRest {
		return strings.Join(rest, " "), nil
	}
	if len(rest) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", rest[1:])
	}
	return rest[0], nil
}

// noArgs parses a subcommand that takes no positional arguments.
func noArgs(fs *flag.FlagSet, args []string) error {
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	return nil
}
