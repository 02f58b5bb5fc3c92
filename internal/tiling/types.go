package tiling

import "fmt"

// MinPieces is the floor applied to the requested count when sizing the grid.
const MinPieces = 4

// Cell is a grid coordinate, 0-based.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Corner identifies one corner of a 2x2 bounding box.
type Corner int

const (
	CornerNone Corner = iota - 1
	CornerTopLeft
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}

// offset returns the corner's position inside a 2x2 box.
func (c Corner) offset() (dr, dc int) {
	switch c {
	case CornerTopLeft:
		return 0, 0
	case CornerTopRight:
		return 0, 1
	case CornerBottomLeft:
		return 1, 0
	case CornerBottomRight:
		return 1, 1
	default:
		return -1, -1
	}
}

// Piece is one region of the layout.
//
// Row and Col anchor the bounding box. Cells lists the cells the piece owns,
// which for an L-tromino is one fewer than RowSpan*ColSpan.
type Piece struct {
	ID            int    `json:"id"`
	Shape         string `json:"shape"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	RowSpan       int    `json:"row_span"`
	ColSpan       int    `json:"col_span"`
	OmittedCorner Corner `json:"omitted_corner"`
	Cells         []Cell `json:"cells"`
}

// GridRow returns the 1-based row used for layout placement.
func (p Piece) GridRow() int { return p.Row + 1 }

// GridCol returns the 1-based column used for layout placement.
func (p Piece) GridCol() int { return p.Col + 1 }

// Origin returns the anchor cell of the bounding box.
func (p Piece) Origin() Cell { return Cell{Row: p.Row, Col: p.Col} }

// Contains reports whether the piece owns c.
func (p Piece) Contains(c Cell) bool {
	for _, owned := range p.Cells {
		if owned == c {
			return true
		}
	}
	return false
}

// Layout is the result of one generation pass.
type Layout struct {
	// Requested is the piece count the layout was generated for.
	Requested int     `json:"requested"`
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	Pieces    []Piece `json:"pieces"`
}

// Owners returns a rows x cols matrix of owning piece ids, -1 for gaps.
func (l Layout) Owners() [][]int {
	owners := make([][]int, l.Rows)
	for r := range owners {
		owners[r] = make([]int, l.Cols)
		for c := range owners[r] {
			owners[r][c] = unassigned
		}
	}
	for _, p := range l.Pieces {
		for _, cell := range p.Cells {
			if cell.Row < 0 || cell.Row >= l.Rows || cell.Col < 0 || cell.Col >= l.Cols {
				continue
			}
			owners[cell.Row][cell.Col] = p.ID
		}
	}
	return owners
}

// Piece returns the piece with the given id.
func (l Layout) Piece(id int) (Piece, bool) {
	if id < 0 || id >= len(l.Pieces) || l.Pieces[id].ID != id {
		for _, p := range l.Pieces {
			if p.ID == id {
				return p, true
			}
		}
		return Piece{}, false
	}
	return l.Pieces[id], true
}

// Gaps returns the cells no piece owns, in row-major order.
func (l Layout) Gaps() []Cell {
	var gaps []Cell
	for r, row := range l.Owners() {
		for c, id := range row {
			if id == unassigned {
				gaps = append(gaps, Cell{Row: r, Col: c})
			}
		}
	}
	return gaps
}
