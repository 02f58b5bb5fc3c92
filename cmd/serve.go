package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nibzard/todopuzzle/internal/config"
	"github.com/nibzard/todopuzzle/internal/logging"
	"github.com/nibzard/todopuzzle/internal/server"
	"github.com/nibzard/todopuzzle/internal/ui"
)

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle tui", flag.ContinueOnError)
	if err := noArgs(fs, args); err != nil {
		return err
	}

	// Log lines would tear the alt screen, so only errors reach stderr.
	cfg.LogLevel = "error"
	g, closeGame := openGame(cfg)
	defer closeGame()
	return ui.RunTUI(ctx, g)
}

// serveCommand runs the JSON API until ctx is cancelled.
func serveCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.ListenAddr, "Listen address")
	if err := noArgs(fs, args); err != nil {
		return err
	}

	logger := newLogger(cfg)
	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	g, closeGame := openGame(cfg)
	defer closeGame()

	srv := server.New(g, logger)
	fmt.Fprintf(stdout, "Serving on http://%s (Ctrl+C to stop)\n", *addr)
	return srv.Run(ctx, *addr)
}

// logCommand prints the project's activity journal.
func logCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle log", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := noArgs(fs, args); err != nil {
		return err
	}

	workDir := cfg.ProjectRoot
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}

	path, err := logging.FindJournal(cfg.LogDir, workDir)
	if err != nil {
		return fmt.Errorf("finding journal: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "No activity yet.")
		return nil
	}

	if *follow {
		fmt.Fprintf(stderr, "Following %s (Ctrl+C to stop)\n", path)
	}
	return logging.Tail(ctx, stdout, path, *n, *follow)
}
