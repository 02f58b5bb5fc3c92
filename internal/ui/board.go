package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todopuzzle/internal/tiling"
)

const (
	revealedCell = "#"
	gapCell      = "."
)

// BoardOptions controls RenderBoard.
type BoardOptions struct {
	// Revealed reports whether a piece has been uncovered. Nil means none.
	Revealed func(id int) bool
	// Revealable marks hidden pieces as spendable.
	Revealable bool
	// Cursor is the highlighted piece id, or -1.
	Cursor int
	// Styled applies lipgloss colors; plain output is used otherwise.
	Styled bool
}

// boardStyles are the lipgloss styles for board cells.
var boardStyles = struct {
	hidden     lipgloss.Style
	revealable lipgloss.Style
	revealed   lipgloss.Style
	gap        lipgloss.Style
	cursor     lipgloss.Style
}{
	hidden:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	revealable: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	revealed:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	gap:        lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	cursor:     lipgloss.NewStyle().Reverse(true),
}

// RenderBoard draws a layout as a character grid, one cell per grid square.
// Hidden pieces show their 1-based number, revealed pieces show #, and cells
// no piece owns show dots.
func RenderBoard(layout tiling.Layout, opts BoardOptions) string {
	if layout.Rows == 0 || layout.Cols == 0 {
		return ""
	}
	width := max(2, len(strconv.Itoa(len(layout.Pieces))))

	var b strings.Builder
	for r, row := range layout.Owners() {
		for c, id := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(renderCell(id, width, opts))
		}
		if r < layout.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderCell(id, width int, opts BoardOptions) string {
	if id < 0 {
		text := strings.Repeat(gapCell, width)
		if opts.Styled {
			return boardStyles.gap.Render(text)
		}
		return text
	}

	revealed := opts.Revealed != nil && opts.Revealed(id)
	var text string
	var style lipgloss.Style
	switch {
	case revealed:
		text = strings.Repeat(revealedCell, width)
		style = boardStyles.revealed
	case opts.Revealable:
		text = fmt.Sprintf("%*d", width, id+1)
		style = boardStyles.revealable
	default:
		text = fmt.Sprintf("%*d", width, id+1)
		style = boardStyles.hidden
	}
	if !opts.Styled {
		return text
	}
	if id == opts.Cursor {
		style = style.Inherit(boardStyles.cursor)
	}
	return style.Render(text)
}

// neighbor returns the piece reached by moving from piece id by (dr, dc)
// from its origin, skipping gaps. It returns id when nothing is there.
func neighbor(layout tiling.Layout, id, dr, dc int) int {
	p, ok := layout.Piece(id)
	if !ok {
		return id
	}
	owners := layout.Owners()
	r, c := p.Row+dr, p.Col+dc
	for r >= 0 && r < layout.Rows && c >= 0 && c < layout.Cols {
		if other := owners[r][c]; other >= 0 && other != id {
			return other
		}
		r += dr
		c += dc
	}
	return id
}
