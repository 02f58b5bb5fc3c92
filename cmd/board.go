package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/nibzard/todopuzzle/internal/config"
	"github.com/nibzard/todopuzzle/internal/game"
	"github.com/nibzard/todopuzzle/internal/tiling"
	"github.com/nibzard/todopuzzle/internal/ui"
)

// boardCommand prints the puzzle grid. Hidden pieces show the number used
// by "reveal", revealed pieces show ##, and gaps show dots.
func boardCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle board", flag.ContinueOnError)
	color := fs.Bool("color", ui.IsTTY(stdout), "Colorize the board")
	if err := noArgs(fs, args); err != nil {
		return err
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}
	printBoard(snap, *color)
	return nil
}

func printBoard(snap game.Snapshot, color bool) {
	if !snap.Unlocked {
		fmt.Fprintf(stdout, "Puzzle: %s locked (complete a task to unlock)\n", snap.City)
		return
	}
	revealed := make(map[int]bool, len(snap.Revealed))
	for _, id := range snap.Revealed {
		revealed[id] = true
	}
	grid := ui.RenderBoard(snap.Layout, ui.BoardOptions{
		Revealed:   func(id int) bool { return revealed[id] },
		Revealable: snap.Credits > 0,
		Cursor:     -1,
		Styled:     color,
	})
	if grid != "" {
		fmt.Fprintln(stdout, grid)
		fmt.Fprintln(stdout)
	}
	printSummary(snap)
	if snap.ImageURL != "" {
		fmt.Fprintf(stdout, "Image: %s\n", snap.ImageURL)
	}
}

// revealCommand takes the 1-based piece number printed by "board".
func revealCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle reveal", flag.ContinueOnError)
	arg, err := oneArg(fs, args, "piece number", false)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid piece number %q", arg)
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	snap, err := g.Reveal(ctx, n-1)
	if err != nil {
		return fmt.Errorf("reveal piece %d: %w", n, err)
	}
	fmt.Fprintf(stdout, "Revealed piece %d\n", n)
	if snap.Complete {
		fmt.Fprintf(stdout, "🎉 Puzzle complete! You uncovered %s.\n", snap.City)
	}
	printSummary(snap)
	return nil
}

func resetCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle reset", flag.ContinueOnError)
	if err := noArgs(fs, args); err != nil {
		return err
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	snap, err := g.Reset()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "New puzzle %s with %d pieces\n", snap.PuzzleID, len(snap.Layout.Pieces))
	printSummary(snap)
	return nil
}

func cityCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle city", flag.ContinueOnError)
	city, err := oneArg(fs, args, "city name", true)
	if err != nil {
		return err
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	snap, err := g.SetCity(city)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "City set to %s\n", snap.City)
	if snap.ImageURL != "" {
		fmt.Fprintf(stdout, "Image: %s\n", snap.ImageURL)
	}
	return nil
}

// layoutCommand generates a throwaway layout without touching any state.
func layoutCommand(args []string) error {
	fs := flag.NewFlagSet("todopuzzle layout", flag.ContinueOnError)
	seed := fs.Int64("seed", 0, "Random seed (0 = time based)")
	asJSON := fs.Bool("json", false, "Print the layout as JSON")
	arg, err := oneArg(fs, args, "piece count", false)
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(arg)
	if err != nil || count < 1 {
		return fmt.Errorf("invalid piece count %q", arg)
	}

	gen := tiling.NewGenerator(nil)
	if *seed != 0 {
		gen = tiling.NewSeededGenerator(*seed)
	}
	layout := gen.Generate(count)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(layout)
	}
	fmt.Fprintln(stdout, ui.RenderBoard(layout, ui.BoardOptions{Cursor: -1}))
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%dx%d grid, %d of %d pieces", layout.Rows, layout.Cols, len(layout.Pieces), count)
	if gaps := len(layout.Gaps()); gaps > 0 {
		fmt.Fprintf(stdout, ", %d unassigned %s", gaps, plural(gaps, "cell", "cells"))
	}
	fmt.Fprintln(stdout)
	return nil
}
