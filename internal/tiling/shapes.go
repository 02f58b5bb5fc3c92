package tiling

// Shape names as they appear in Piece.Shape.
const (
	ShapeMonomino         = "monomino"
	ShapeDominoHorizontal = "domino-h"
	ShapeDominoVertical   = "domino-v"
	ShapeLTromino         = "l-tromino"
	ShapeIHorizontal      = "i-h"
	ShapeIVertical        = "i-v"
)

// Shape is a catalog entry: a bounding box and its draw weight.
type Shape struct {
	Name   string
	Rows   int
	Cols   int
	Weight int
	// LShape marks the 2x2 box that drops one corner.
	LShape bool
}

var (
	monomino         = Shape{Name: ShapeMonomino, Rows: 1, Cols: 1, Weight: 3}
	dominoHorizontal = Shape{Name: ShapeDominoHorizontal, Rows: 1, Cols: 2, Weight: 2}
	dominoVertical   = Shape{Name: ShapeDominoVertical, Rows: 2, Cols: 1, Weight: 2}
	lTromino         = Shape{Name: ShapeLTromino, Rows: 2, Cols: 2, Weight: 1, LShape: true}
	iHorizontal      = Shape{Name: ShapeIHorizontal, Rows: 1, Cols: 3, Weight: 1}
	iVertical        = Shape{Name: ShapeIVertical, Rows: 3, Cols: 1, Weight: 1}
)

// Catalog returns every shape in draw order.
func Catalog() []Shape {
	return []Shape{monomino, dominoHorizontal, dominoVertical, lTromino, iHorizontal, iVertical}
}

// Candidates returns the shapes that fit at a cell with the given free run
// lengths, in catalog order. The monomino is always first.
func Candidates(availableRows, availableCols, remaining int) []Shape {
	shapes := []Shape{monomino}
	if availableCols >= 2 && remaining > 1 {
		shapes = append(shapes, dominoHorizontal)
	}
	if availableRows >= 2 && remaining > 1 {
		shapes = append(shapes, dominoVertical)
	}
	if availableRows >= 2 && availableCols >= 2 && remaining > 2 {
		shapes = append(shapes, lTromino)
	}
	if availableCols >= 3 && remaining > 3 {
		shapes = append(shapes, iHorizontal)
	}
	if availableRows >= 3 && remaining > 3 {
		shapes = append(shapes, iVertical)
	}
	return shapes
}

// PickWeighted selects a shape with a cumulative-weight draw. u must be in
// [0, 1). The draw x = u*total is reduced by each weight in order and the
// first shape that brings x to zero or below wins. If rounding leaves x
// positive after the last shape, the first shape is returned.
func PickWeighted(shapes []Shape, u float64) Shape {
	if len(shapes) == 0 {
		return monomino
	}
	total := 0
	for _, s := range shapes {
		total += s.Weight
	}
	x := u * float64(total)
	for _, s := range shapes {
		x -= float64(s.Weight)
		if x <= 0 {
			return s
		}
	}
	return shapes[0]
}
