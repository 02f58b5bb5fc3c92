// Package game ties the task file, the board state, the journal and the
// completion hook together. CLI commands, the TUI and the HTTP server all
// go through a Game.
package game

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todopuzzle/internal/board"
	"github.com/nibzard/todopuzzle/internal/hooks"
	"github.com/nibzard/todopuzzle/internal/logging"
	"github.com/nibzard/todopuzzle/internal/tiling"
	"github.com/nibzard/todopuzzle/internal/todo"
)

// Options configures a Game.
type Options struct {
	TodoPath   string
	StatePath  string
	SchemaPath string

	// City is used when no board state exists yet.
	City             string
	ImageURLTemplate string

	HookCommand string
	HookOutput  io.Writer
	WorkDir     string

	// Generator defaults to a time-seeded tiling generator.
	Generator board.Generator
	// Logger defaults to a discarding logger.
	Logger *log.Logger
	// Journal may be nil.
	Journal *logging.Journal
}

// Game serializes every read-modify-write of the two state files.
type Game struct {
	mu   sync.Mutex
	opts Options
}

// New returns a Game for opts.
func New(opts Options) *Game {
	if opts.Generator == nil {
		opts.Generator = tiling.NewGenerator(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.City == "" {
		opts.City = board.DefaultCity
	}
	return &Game{opts: opts}
}

// Snapshot is a read-only view of the whole game.
type Snapshot struct {
	Tasks     []todo.Task         `json:"tasks"`
	Total     int                 `json:"total"`
	Completed int                 `json:"completed"`
	PuzzleID  string              `json:"puzzle_id"`
	City      string              `json:"city"`
	ImageURL  string              `json:"image_url"`
	Layout    tiling.Layout       `json:"layout"`
	Styles    []tiling.PieceStyle `json:"styles"`
	Revealed  []int               `json:"revealed"`
	Credits   int                 `json:"credits"`
	Unlocked  bool                `json:"unlocked"`
	Complete  bool                `json:"complete"`
}

// Progress returns revealed and total piece counts.
func (s Snapshot) Progress() (revealed, total int) {
	return len(s.Revealed), len(s.Layout.Pieces)
}

// state is one loaded copy of both files.
type state struct {
	tasks *todo.File
	board *board.Board
	// dirty is set when the board changed and must be written back.
	dirty bool
}

func (g *Game) load() (*state, error) {
	tasks, err := todo.Load(g.opts.TodoPath)
	if err != nil {
		return nil, err
	}
	res := tasks.Validate(todo.ValidationOptions{SchemaPath: g.opts.SchemaPath})
	if !res.Valid {
		return nil, fmt.Errorf("invalid todo file %s: %w", g.opts.TodoPath, res.Err())
	}
	for _, w := range res.Warnings {
		g.opts.Logger.Debug(w)
	}

	b, err := board.Load(g.opts.StatePath)
	if err != nil {
		return nil, err
	}

	st := &state{tasks: tasks, board: b}
	total, completed := tasks.Counts()
	if b == nil {
		st.board = board.New(g.opts.Generator, total, g.opts.City)
		st.board.Credits = completed
		st.dirty = true
		g.generated(st.board)
		return st, nil
	}
	if b.Sync(g.opts.Generator, total, completed) {
		st.dirty = true
		g.generated(st.board)
	}
	return st, nil
}

func (g *Game) generated(b *board.Board) {
	g.opts.Logger.Debug("generated puzzle", "puzzle", b.PuzzleID, "pieces", len(b.Layout.Pieces), "requested", b.Layout.Requested)
	g.record(logging.Event{
		Type:     logging.EventPuzzleGenerated,
		PuzzleID: b.PuzzleID,
		Message:  fmt.Sprintf("%d pieces", len(b.Layout.Pieces)),
	})
}

func (g *Game) saveTasks(st *state) error {
	return st.tasks.Save(g.opts.TodoPath)
}

func (g *Game) saveBoard(st *state) error {
	if !st.dirty {
		return nil
	}
	if err := st.board.Save(g.opts.StatePath); err != nil {
		return err
	}
	st.dirty = false
	return nil
}

// sync regenerates the board after a change to the task count.
func (g *Game) sync(st *state) bool {
	total, completed := st.tasks.Counts()
	if st.board.Sync(g.opts.Generator, total, completed) {
		st.dirty = true
		g.generated(st.board)
		return true
	}
	return false
}

func (g *Game) record(event logging.Event) {
	if err := g.opts.Journal.Record(event); err != nil {
		g.opts.Logger.Warn("journal write failed", "err", err)
	}
}

func (g *Game) snapshot(st *state) Snapshot {
	total, completed := st.tasks.Counts()
	b := st.board
	revealed := make([]int, len(b.Revealed))
	copy(revealed, b.Revealed)
	return Snapshot{
		Tasks:     st.tasks.Sorted(),
		Total:     total,
		Completed: completed,
		PuzzleID:  b.PuzzleID,
		City:      b.City,
		ImageURL:  b.ImageURL(g.opts.ImageURLTemplate),
		Layout:    b.Layout,
		Styles:    b.Styles(),
		Revealed:  revealed,
		Credits:   b.Credits,
		Unlocked:  b.Unlocked(completed),
		Complete:  b.Complete(),
	}
}

// Snapshot loads both files, syncing the board to the task count.
func (g *Game) Snapshot() (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return Snapshot{}, err
	}
	if err := g.saveBoard(st); err != nil {
		return Snapshot{}, err
	}
	return g.snapshot(st), nil
}

// AddTask appends a task. The piece count changes, so a new puzzle starts.
func (g *Game) AddTask(title string) (todo.Task, Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	task, err := st.tasks.Add(title)
	if err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	g.sync(st)
	if err := g.saveTasks(st); err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	if err := g.saveBoard(st); err != nil {
		return todo.Task{}, Snapshot{}, err
	}

	g.opts.Logger.Info("task added", "id", task.ID, "title", task.Title)
	g.record(logging.Event{Type: logging.EventTaskAdded, TaskID: task.ID, Message: task.Title})
	return task, g.snapshot(st), nil
}

// ToggleTask flips a task between todo and done. Credits are then settled
// against the completed count, so a reopened task takes back an unspent
// credit and toggling one task cannot earn more than one reveal.
func (g *Game) ToggleTask(id string) (todo.Task, Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	task, err := st.tasks.Toggle(id)
	if err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	if !g.sync(st) {
		_, completed := st.tasks.Counts()
		st.board.Settle(completed)
		st.dirty = true
	}
	if err := g.saveTasks(st); err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	if err := g.saveBoard(st); err != nil {
		return todo.Task{}, Snapshot{}, err
	}

	event := logging.EventTaskReopened
	if task.Done() {
		event = logging.EventTaskCompleted
	}
	g.opts.Logger.Info("task toggled", "id", task.ID, "status", task.Status, "credits", st.board.Credits)
	g.record(logging.Event{Type: event, TaskID: task.ID, PuzzleID: st.board.PuzzleID, Message: task.Title})
	return task, g.snapshot(st), nil
}

// DeleteTask removes a task. The piece count changes, so a new puzzle starts.
func (g *Game) DeleteTask(id string) (todo.Task, Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	task, err := st.tasks.Delete(id)
	if err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	g.sync(st)
	if err := g.saveTasks(st); err != nil {
		return todo.Task{}, Snapshot{}, err
	}
	if err := g.saveBoard(st); err != nil {
		return todo.Task{}, Snapshot{}, err
	}

	g.opts.Logger.Info("task deleted", "id", task.ID)
	g.record(logging.Event{Type: logging.EventTaskDeleted, TaskID: task.ID, Message: task.Title})
	return task, g.snapshot(st), nil
}

// Reveal spends a credit on a piece. When it was the last hidden piece the
// completion hook runs; a failing hook is logged, not returned.
func (g *Game) Reveal(ctx context.Context, pieceID int) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return Snapshot{}, err
	}
	if err := g.saveBoard(st); err != nil {
		return Snapshot{}, err
	}
	if err := st.board.Reveal(pieceID); err != nil {
		return g.snapshot(st), err
	}
	st.dirty = true
	if err := g.saveBoard(st); err != nil {
		return Snapshot{}, err
	}

	b := st.board
	g.opts.Logger.Info("piece revealed", "piece", pieceID, "credits", b.Credits)
	g.record(logging.Event{Type: logging.EventPieceRevealed, PieceID: logging.Piece(pieceID), PuzzleID: b.PuzzleID})

	if b.Complete() {
		g.completed(ctx, b)
	}
	return g.snapshot(st), nil
}

func (g *Game) completed(ctx context.Context, b *board.Board) {
	pieces := len(b.Layout.Pieces)
	g.opts.Logger.Info("puzzle completed", "city", b.City, "pieces", pieces)
	g.record(logging.Event{
		Type:     logging.EventPuzzleCompleted,
		PuzzleID: b.PuzzleID,
		Message:  b.City,
	})

	output := g.opts.HookOutput
	if output == nil {
		output = os.Stderr
	}
	result, err := hooks.Invoke(ctx, hooks.Options{
		Command:   g.opts.HookCommand,
		Event:     logging.EventPuzzleCompleted,
		City:      b.City,
		Pieces:    pieces,
		StatePath: g.opts.StatePath,
		WorkDir:   g.opts.WorkDir,
		Stdout:    output,
		Stderr:    output,
	})
	if err != nil {
		g.opts.Logger.Warn("completion hook failed", "err", err, "exit_code", result.ExitCode)
		g.record(logging.Event{Type: logging.EventHookFailed, PuzzleID: b.PuzzleID, Message: err.Error()})
		return
	}
	if result.Ran {
		g.opts.Logger.Debug("completion hook ran", "command", result.Command)
	}
}

// Reset starts a new puzzle for the same tasks. Reveals are cleared and
// every completed task becomes an unspent credit again.
func (g *Game) Reset() (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return Snapshot{}, err
	}
	_, completed := st.tasks.Counts()
	st.board.Reset(g.opts.Generator, completed)
	st.dirty = true
	if err := g.saveBoard(st); err != nil {
		return Snapshot{}, err
	}

	g.opts.Logger.Info("puzzle reset", "puzzle", st.board.PuzzleID)
	g.record(logging.Event{Type: logging.EventPuzzleReset, PuzzleID: st.board.PuzzleID})
	return g.snapshot(st), nil
}

// SetCity changes the hidden image; the layout and reveals are kept.
func (g *Game) SetCity(city string) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.load()
	if err != nil {
		return Snapshot{}, err
	}
	if err := st.board.SetCity(city); err != nil {
		return Snapshot{}, err
	}
	st.dirty = true
	if err := g.saveBoard(st); err != nil {
		return Snapshot{}, err
	}

	g.opts.Logger.Info("city changed", "city", st.board.City)
	g.record(logging.Event{Type: logging.EventCityChanged, PuzzleID: st.board.PuzzleID, Message: st.board.City})
	return g.snapshot(st), nil
}
