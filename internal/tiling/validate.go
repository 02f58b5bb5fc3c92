package tiling

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is wrapped by every error Validate returns.
var ErrInvalidLayout = errors.New("invalid layout")

// Validate checks the structural invariants of a layout: sequential ids in
// raster order, non-empty in-bounds cells, no cell owned twice, cells inside
// the bounding box, and edge-connected pieces.
func (l Layout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("%w: grid is %dx%d", ErrInvalidLayout, l.Rows, l.Cols)
	}
	if l.Requested > 0 && len(l.Pieces) > l.Requested {
		return fmt.Errorf("%w: %d pieces for %d requested", ErrInvalidLayout, len(l.Pieces), l.Requested)
	}

	owner := make(map[Cell]int, l.Rows*l.Cols)
	prev := Cell{Row: -1, Col: -1}
	for i, p := range l.Pieces {
		if p.ID != i {
			return fmt.Errorf("%w: piece at index %d has id %d", ErrInvalidLayout, i, p.ID)
		}
		origin := p.Origin()
		if i > 0 && !rasterBefore(prev, origin) {
			return fmt.Errorf("%w: piece %d origin %s not after %s", ErrInvalidLayout, p.ID, origin, prev)
		}
		prev = origin

		if len(p.Cells) == 0 {
			return fmt.Errorf("%w: piece %d owns no cells", ErrInvalidLayout, p.ID)
		}
		for _, cell := range p.Cells {
			if cell.Row < 0 || cell.Row >= l.Rows || cell.Col < 0 || cell.Col >= l.Cols {
				return fmt.Errorf("%w: piece %d cell %s out of bounds", ErrInvalidLayout, p.ID, cell)
			}
			if cell.Row < p.Row || cell.Row >= p.Row+p.RowSpan || cell.Col < p.Col || cell.Col >= p.Col+p.ColSpan {
				return fmt.Errorf("%w: piece %d cell %s outside its bounding box", ErrInvalidLayout, p.ID, cell)
			}
			if other, ok := owner[cell]; ok {
				return fmt.Errorf("%w: cell %s owned by pieces %d and %d", ErrInvalidLayout, cell, other, p.ID)
			}
			owner[cell] = p.ID
		}
		if !connected(p.Cells) {
			return fmt.Errorf("%w: piece %d is not contiguous", ErrInvalidLayout, p.ID)
		}
	}
	return nil
}

func rasterBefore(a, b Cell) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// connected flood-fills from the first cell over orthogonal neighbours.
func connected(cells []Cell) bool {
	if len(cells) <= 1 {
		return true
	}
	in := make(map[Cell]bool, len(cells))
	for _, c := range cells {
		in[c] = true
	}
	visited := map[Cell]bool{cells[0]: true}
	queue := []Cell{cells[0]}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, nb := range []Cell{
			{Row: c.Row - 1, Col: c.Col},
			{Row: c.Row + 1, Col: c.Col},
			{Row: c.Row, Col: c.Col - 1},
			{Row: c.Row, Col: c.Col + 1},
		} {
			if in[nb] && !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return len(visited) == len(cells)
}
