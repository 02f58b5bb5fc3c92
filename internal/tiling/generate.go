package tiling

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const unassigned = -1

// Rand is the random source a Generator draws from. Float64 must return a
// value in [0, 1).
type Rand interface {
	Float64() float64
}

// Generator produces layouts from a random source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng Rand
}

// NewGenerator returns a generator drawing from rng. A nil rng gets a
// time-seeded source.
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// NewSeededGenerator returns a generator with a reproducible source.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

var defaultGenerator = NewGenerator(nil)

// Generate builds a layout with the process-wide generator.
func Generate(requested int) Layout {
	return defaultGenerator.Generate(requested)
}

// GridSize returns the grid dimensions used for a requested piece count.
func GridSize(requested int) (rows, cols int) {
	effective := max(requested, MinPieces)
	cols = int(math.Ceil(math.Sqrt(float64(effective))))
	rows = (effective + cols - 1) / cols
	return rows, cols
}

// Generate builds a layout for the requested piece count. The result holds
// at most requested pieces; see the package documentation for when it holds
// fewer.
func (g *Generator) Generate(requested int) Layout {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows, cols := GridSize(requested)
	grid := newGrid(rows, cols)
	layout := Layout{Requested: requested, Rows: rows, Cols: cols, Pieces: []Piece{}}

	for r := 0; r < rows && len(layout.Pieces) < requested; r++ {
		for c := 0; c < cols; c++ {
			if grid.owned(r, c) {
				continue
			}

			shape, corner := g.chooseShape(grid, r, c, requested-len(layout.Pieces))
			piece := grid.stamp(len(layout.Pieces), r, c, shape, corner)
			layout.Pieces = append(layout.Pieces, piece)

			if len(layout.Pieces) >= requested {
				break
			}
		}
	}

	return layout
}

func (g *Generator) chooseShape(grid *grid, r, c, remaining int) (Shape, Corner) {
	candidates := Candidates(grid.availableRows(r, c), grid.availableCols(r, c), remaining)
	shape := PickWeighted(candidates, g.rng.Float64())
	if !shape.LShape {
		return shape, CornerNone
	}
	corner := Corner(int(g.rng.Float64() * 4))
	if corner > CornerBottomRight {
		corner = CornerBottomRight
	}
	return shape, corner
}

// grid is the ownership arena for one generation pass.
type grid struct {
	rows, cols int
	cells      []int
}

func newGrid(rows, cols int) *grid {
	cells := make([]int, rows*cols)
	for i := range cells {
		cells[i] = unassigned
	}
	return &grid{rows: rows, cols: cols, cells: cells}
}

func (g *grid) inBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

func (g *grid) owned(r, c int) bool {
	return g.cells[r*g.cols+c] != unassigned
}

func (g *grid) availableRows(r, c int) int {
	n := 0
	for ; r < g.rows && !g.owned(r, c); r++ {
		n++
	}
	return n
}

func (g *grid) availableCols(r, c int) int {
	n := 0
	for ; c < g.cols && !g.owned(r, c); c++ {
		n++
	}
	return n
}

// stamp claims the free cells of the shape's bounding box for piece id.
func (g *grid) stamp(id, r, c int, shape Shape, corner Corner) Piece {
	piece := Piece{
		ID:            id,
		Shape:         shape.Name,
		Row:           r,
		Col:           c,
		RowSpan:       shape.Rows,
		ColSpan:       shape.Cols,
		OmittedCorner: corner,
	}
	skipR, skipC := corner.offset()
	for dr := 0; dr < shape.Rows; dr++ {
		for dc := 0; dc < shape.Cols; dc++ {
			if dr == skipR && dc == skipC {
				continue
			}
			rr, cc := r+dr, c+dc
			if !g.inBounds(rr, cc) || g.owned(rr, cc) {
				continue
			}
			g.cells[rr*g.cols+cc] = id
			piece.Cells = append(piece.Cells, Cell{Row: rr, Col: cc})
		}
	}
	return piece
}
