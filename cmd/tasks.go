package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/todopuzzle/internal/config"
	"github.com/nibzard/todopuzzle/internal/game"
	"github.com/nibzard/todopuzzle/internal/todo"
)

// lsCommand lists tasks grouped by status, followed by the puzzle summary.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Filter by status (todo|done)")
	verbose := fs.Bool("v", false, "Show timestamps")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 && *statusFilter == "" {
		*statusFilter = remaining[0]
	}
	switch todo.Status(*statusFilter) {
	case "", todo.StatusTodo, todo.StatusDone:
	default:
		return fmt.Errorf("invalid status %q (expected todo|done)", *statusFilter)
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}

	if *statusFilter == "" {
		if len(snap.Tasks) == 0 {
			fmt.Fprintln(stdout, "No tasks yet. Add one with: todopuzzle add <title>")
		}
		printTasksByStatus("todo", snap.Tasks, todo.StatusTodo, *verbose)
		printTasksByStatus("done", snap.Tasks, todo.StatusDone, *verbose)
		printSummary(snap)
		return nil
	}

	var filtered []todo.Task
	for _, t := range snap.Tasks {
		if string(t.Status) == *statusFilter {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		fmt.Fprintln(stdout, "No tasks found.")
		return nil
	}
	for _, t := range filtered {
		printTask(t, *verbose)
	}
	return nil
}

func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle add", flag.ContinueOnError)
	title, err := oneArg(fs, args, "task title", true)
	if err != nil {
		return err
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	task, snap, err := g.AddTask(title)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %s: %s\n", task.ID, task.Title)
	printSummary(snap)
	return nil
}

func doneCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle done", flag.ContinueOnError)
	id, err := oneArg(fs, args, "task id", false)
	if err != nil {
		return err
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	task, snap, err := g.ToggleTask(strings.ToUpper(id))
	if err != nil {
		return err
	}
	if task.Done() {
		fmt.Fprintf(stdout, "Completed %s: %s (+1 reveal)\n", task.ID, task.Title)
	} else {
		fmt.Fprintf(stdout, "Reopened %s: %s\n", task.ID, task.Title)
	}
	printSummary(snap)
	return nil
}

func rmCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle rm", flag.ContinueOnError)
	id, err := oneArg(fs, args, "task id", false)
	if err != nil {
		return err
	}

	g, closeGame := openGame(cfg)
	defer closeGame()
	task, snap, err := g.DeleteTask(strings.ToUpper(id))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted %s: %s\n", task.ID, task.Title)
	printSummary(snap)
	return nil
}

func printTasksByStatus(label string, tasks []todo.Task, status todo.Status, verbose bool) {
	var matching []todo.Task
	for _, t := range tasks {
		if t.Status == status {
			matching = append(matching, t)
		}
	}
	if len(matching) == 0 {
		return
	}
	fmt.Fprintf(stdout, "%s (%d):\n", label, len(matching))
	for _, t := range matching {
		printTask(t, verbose)
	}
	fmt.Fprintln(stdout)
}

func printTask(t todo.Task, verbose bool) {
	icon := "📝"
	if t.Done() {
		icon = "✅"
	}
	fmt.Fprintf(stdout, "  %s [%s] %s\n", icon, t.ID, t.Title)

	if verbose {
		if t.CreatedAt != nil {
			fmt.Fprintf(stdout, "      Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
		}
		if t.CompletedAt != nil {
			fmt.Fprintf(stdout, "      Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
		}
	}
}

// printSummary prints the one-line puzzle status shown after every change.
func printSummary(snap game.Snapshot) {
	revealed, total := snap.Progress()
	switch {
	case snap.Complete:
		fmt.Fprintf(stdout, "Puzzle: %s complete (%d/%d revealed)\n", snap.City, revealed, total)
	case !snap.Unlocked:
		fmt.Fprintf(stdout, "Puzzle: %s locked (complete a task to unlock)\n", snap.City)
	default:
		fmt.Fprintf(stdout, "Puzzle: %s %d/%d revealed, %d %s available\n",
			snap.City, revealed, total, snap.Credits, plural(snap.Credits, "reveal", "reveals"))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
