// Package ui provides the terminal renderers and the interactive TUI.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todopuzzle/internal/game"
	"github.com/nibzard/todopuzzle/internal/todo"
)

// Game is the subset of *game.Game the TUI drives.
type Game interface {
	Snapshot() (game.Snapshot, error)
	AddTask(title string) (todo.Task, game.Snapshot, error)
	ToggleTask(id string) (todo.Task, game.Snapshot, error)
	DeleteTask(id string) (todo.Task, game.Snapshot, error)
	Reveal(ctx context.Context, pieceID int) (game.Snapshot, error)
}

// RunTUI starts the interactive TUI on the alternate screen.
func RunTUI(ctx context.Context, g Game) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(ctx, g)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type pane int

const (
	paneTasks pane = iota
	paneBoard
)

type tuiModel struct {
	ctx  context.Context
	game Game

	snap    game.Snapshot
	loadErr error
	// notice is the result of the last action, shown under the panes.
	notice string

	focus       pane
	taskCursor  int
	pieceCursor int

	adding bool
	input  []rune

	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212")).Padding(0, 1)
	blurredStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTUIModel(ctx context.Context, g Game) *tuiModel {
	if ctx == nil {
		ctx = context.Background()
	}
	return &tuiModel{
		ctx:          ctx,
		game:         g,
		pieceCursor:  0,
		tickInterval: 2 * time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		if cmd, handled := m.updatePane(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.focus == paneTasks {
				m.focus = paneBoard
			} else {
				m.focus = paneTasks
			}
		case "r", "f5":
			m.refresh()
			m.notice = ""
		case "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		if !m.adding {
			m.refresh()
		}
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

// updatePane handles keys that belong to the focused pane.
func (m *tuiModel) updatePane(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if m.focus == paneTasks {
		switch key {
		case "j", "down":
			m.moveTask(1)
		case "k", "up":
			m.moveTask(-1)
		case " ", "space", "x":
			m.toggleSelected()
		case "a":
			m.adding = true
			m.input = m.input[:0]
			m.notice = ""
		case "d", "delete":
			m.deleteSelected()
		default:
			return nil, false
		}
		return nil, true
	}

	switch key {
	case "left", "h":
		m.movePiece(-1)
	case "right", "l":
		m.movePiece(1)
	case "up", "k":
		m.pieceCursor = neighbor(m.snap.Layout, m.pieceCursor, -1, 0)
	case "down", "j":
		m.pieceCursor = neighbor(m.snap.Layout, m.pieceCursor, 1, 0)
	case "enter", " ", "space":
		m.revealSelected()
	default:
		return nil, false
	}
	return nil, true
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input = m.input[:0]
	case tea.KeyEnter:
		title := string(m.input)
		m.adding = false
		m.input = m.input[:0]
		task, snap, err := m.game.AddTask(title)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.apply(snap)
		m.taskCursor = indexOf(snap.Tasks, task.ID)
		m.notice = fmt.Sprintf("Added %s; new puzzle with %d pieces", task.ID, len(snap.Layout.Pieces))
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *tuiModel) moveTask(delta int) {
	n := len(m.snap.Tasks)
	if n == 0 {
		return
	}
	m.taskCursor = min(max(m.taskCursor+delta, 0), n-1)
}

func (m *tuiModel) movePiece(delta int) {
	n := len(m.snap.Layout.Pieces)
	if n == 0 {
		return
	}
	m.pieceCursor = min(max(m.pieceCursor+delta, 0), n-1)
}

func (m *tuiModel) selectedTask() (todo.Task, bool) {
	if m.taskCursor < 0 || m.taskCursor >= len(m.snap.Tasks) {
		return todo.Task{}, false
	}
	return m.snap.Tasks[m.taskCursor], true
}

func (m *tuiModel) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	updated, snap, err := m.game.ToggleTask(task.ID)
	if err != nil {
		m.setError(err)
		return
	}
	m.apply(snap)
	if updated.Done() {
		m.notice = fmt.Sprintf("Completed %s: +1 reveal (%d available)", updated.ID, snap.Credits)
	} else {
		m.notice = fmt.Sprintf("Reopened %s", updated.ID)
	}
}

func (m *tuiModel) deleteSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	removed, snap, err := m.game.DeleteTask(task.ID)
	if err != nil {
		m.setError(err)
		return
	}
	m.apply(snap)
	m.notice = fmt.Sprintf("Deleted %s", removed.ID)
}

func (m *tuiModel) revealSelected() {
	if !m.snap.Unlocked {
		m.notice = "Complete your first todo to unlock the puzzle"
		return
	}
	snap, err := m.game.Reveal(m.ctx, m.pieceCursor)
	if err != nil {
		m.setError(err)
		return
	}
	m.apply(snap)
	if snap.Complete {
		m.notice = fmt.Sprintf("Puzzle complete! You revealed %s.", snap.City)
		return
	}
	revealed, total := snap.Progress()
	m.notice = fmt.Sprintf("Revealed piece %d (%d/%d)", m.pieceCursor+1, revealed, total)
}

func (m *tuiModel) refresh() {
	snap, err := m.game.Snapshot()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.apply(snap)
}

func (m *tuiModel) apply(snap game.Snapshot) {
	m.snap = snap
	m.taskCursor = min(m.taskCursor, max(len(snap.Tasks)-1, 0))
	m.pieceCursor = min(m.pieceCursor, max(len(snap.Layout.Pieces)-1, 0))
}

func (m *tuiModel) setError(err error) {
	m.notice = "Error: " + err.Error()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todo Puzzle"))
	b.WriteString("\n\n")

	if m.showHelp {
		writeHelp(&b)
		b.WriteString(footerStyle.Render("Press ? to close help | q to quit"))
		b.WriteString("\n")
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading game state:"))
		b.WriteString("\n  " + m.loadErr.Error() + "\n\n")
		b.WriteString(footerStyle.Render("Press r to retry | q to quit"))
		b.WriteString("\n")
		return b.String()
	}

	tasks := blurredStyle
	board := blurredStyle
	if m.focus == paneTasks {
		tasks = focusedStyle
	} else {
		board = focusedStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		tasks.Render(m.taskPane()),
		" ",
		board.Render(m.boardPane()),
	))
	b.WriteString("\n")

	if m.adding {
		b.WriteString("New task: " + string(m.input) + "_\n")
	} else if m.notice != "" {
		style := noticeStyle
		if strings.HasPrefix(m.notice, "Error:") {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice) + "\n")
	}
	b.WriteString(footerStyle.Render("tab switch pane | ? help | q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) taskPane() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Tasks %d/%d done", m.snap.Completed, m.snap.Total)))
	b.WriteString("\n\n")
	if len(m.snap.Tasks) == 0 {
		b.WriteString("No tasks yet. Press a to add one.")
		return b.String()
	}
	for i, task := range m.snap.Tasks {
		cursor := "  "
		if m.focus == paneTasks && i == m.taskCursor {
			cursor = "> "
		}
		line := FormatTask(task)
		if task.Done() {
			line = doneStyle.Render(line)
		}
		b.WriteString(cursor + line)
		if i < len(m.snap.Tasks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *tuiModel) boardPane() string {
	var b strings.Builder
	revealed, total := m.snap.Progress()
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  %d/%d revealed", m.snap.City, revealed, total)))
	b.WriteString("\n\n")

	if !m.snap.Unlocked {
		b.WriteString("Complete your first todo to unlock the puzzle.")
		return b.String()
	}

	cursor := -1
	if m.focus == paneBoard {
		cursor = m.pieceCursor
	}
	revealedSet := make(map[int]bool, len(m.snap.Revealed))
	for _, id := range m.snap.Revealed {
		revealedSet[id] = true
	}
	b.WriteString(RenderBoard(m.snap.Layout, BoardOptions{
		Revealed:   func(id int) bool { return revealedSet[id] },
		Revealable: m.snap.Credits > 0,
		Cursor:     cursor,
		Styled:     true,
	}))
	b.WriteString("\n\n")
	if m.snap.Complete {
		b.WriteString(noticeStyle.Render("Congratulations! Every piece is revealed."))
	} else {
		b.WriteString(fmt.Sprintf("Reveals available: %d", m.snap.Credits))
	}
	return b.String()
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString("  tab          Switch between tasks and board\n")
	b.WriteString("  r, F5        Reload from disk\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
	b.WriteString("  Tasks\n")
	b.WriteString("  j/k, arrows  Move\n")
	b.WriteString("  space, x     Toggle done\n")
	b.WriteString("  a            Add a task (enter saves, esc cancels)\n")
	b.WriteString("  d            Delete the task\n\n")
	b.WriteString("  Board\n")
	b.WriteString("  arrows, hjkl Move between pieces\n")
	b.WriteString("  enter        Reveal the piece\n\n")
}

// FormatTask renders one task as a list line.
func FormatTask(t todo.Task) string {
	mark := " "
	if t.Done() {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s %s", mark, t.ID, t.Title)
}

func indexOf(tasks []todo.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
