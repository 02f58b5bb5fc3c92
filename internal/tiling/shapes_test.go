package tiling

import "testing"

func shapeNames(shapes []Shape) []string {
	names := make([]string, len(shapes))
	for i, s := range shapes {
		names[i] = s.Name
	}
	return names
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		cols      int
		remaining int
		want      []string
	}{
		{"single cell", 1, 1, 10, []string{ShapeMonomino}},
		{"last piece", 3, 3, 1, []string{ShapeMonomino}},
		{"two remaining", 3, 3, 2, []string{ShapeMonomino, ShapeDominoHorizontal, ShapeDominoVertical}},
		{"three remaining", 3, 3, 3, []string{ShapeMonomino, ShapeDominoHorizontal, ShapeDominoVertical, ShapeLTromino}},
		{"everything", 3, 3, 4, []string{ShapeMonomino, ShapeDominoHorizontal, ShapeDominoVertical, ShapeLTromino, ShapeIHorizontal, ShapeIVertical}},
		{"narrow column", 3, 1, 10, []string{ShapeMonomino, ShapeDominoVertical, ShapeIVertical}},
		{"flat row", 1, 3, 10, []string{ShapeMonomino, ShapeDominoHorizontal, ShapeIHorizontal}},
		{"two by two", 2, 2, 10, []string{ShapeMonomino, ShapeDominoHorizontal, ShapeDominoVertical, ShapeLTromino}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shapeNames(Candidates(tt.rows, tt.cols, tt.remaining))
			if len(got) != len(tt.want) {
				t.Fatalf("Candidates: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Candidates[%d]: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPickWeighted(t *testing.T) {
	all := Catalog()
	tests := []struct {
		name   string
		shapes []Shape
		u      float64
		want   string
	}{
		{"zero picks first", all, 0, ShapeMonomino},
		{"inside monomino weight", all, 0.25, ShapeMonomino},
		{"horizontal domino", all, 0.45, ShapeDominoHorizontal},
		{"vertical domino", all, 0.65, ShapeDominoVertical},
		{"l-tromino", all, 0.75, ShapeLTromino},
		{"horizontal I", all, 0.85, ShapeIHorizontal},
		{"top of range", all, 0.999, ShapeIVertical},
		{"two shapes low", []Shape{monomino, dominoHorizontal}, 0.5, ShapeMonomino},
		{"two shapes high", []Shape{monomino, dominoHorizontal}, 0.7, ShapeDominoHorizontal},
		{"empty list", nil, 0.5, ShapeMonomino},
		{"overflow falls back to first", []Shape{dominoVertical, iVertical}, 1.5, ShapeDominoVertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickWeighted(tt.shapes, tt.u).Name; got != tt.want {
				t.Errorf("PickWeighted(%v): got %s, want %s", tt.u, got, tt.want)
			}
		})
	}
}

func TestCatalogWeights(t *testing.T) {
	want := map[string]int{
		ShapeMonomino:         3,
		ShapeDominoHorizontal: 2,
		ShapeDominoVertical:   2,
		ShapeLTromino:         1,
		ShapeIHorizontal:      1,
		ShapeIVertical:        1,
	}
	for _, s := range Catalog() {
		if s.Weight != want[s.Name] {
			t.Errorf("%s weight: got %d, want %d", s.Name, s.Weight, want[s.Name])
		}
	}
}
