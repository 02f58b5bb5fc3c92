package tiling

import (
	"fmt"
	"strconv"
)

// PieceStyle is the placement of one piece in a CSS-style grid, plus the crop
// of the hidden image it shows once revealed.
type PieceStyle struct {
	ID                 int    `json:"id"`
	GridRow            string `json:"grid_row"`
	GridColumn         string `json:"grid_column"`
	Revealed           bool   `json:"revealed"`
	CanReveal          bool   `json:"can_reveal"`
	BackgroundPosition string `json:"background_position"`
	BackgroundSize     string `json:"background_size"`
}

// Styles maps every piece to its placement. revealed reports whether a piece
// id has been revealed; credits is the number of unspent reveals.
func (l Layout) Styles(revealed func(id int) bool, credits int) []PieceStyle {
	styles := make([]PieceStyle, 0, len(l.Pieces))
	size := fmt.Sprintf("%d%% %d%%", l.Cols*100, l.Rows*100)
	for _, p := range l.Pieces {
		isRevealed := revealed != nil && revealed(p.ID)
		styles = append(styles, PieceStyle{
			ID:                 p.ID,
			GridRow:            fmt.Sprintf("%d / span %d", p.GridRow(), p.RowSpan),
			GridColumn:         fmt.Sprintf("%d / span %d", p.GridCol(), p.ColSpan),
			Revealed:           isRevealed,
			CanReveal:          !isRevealed && credits > 0,
			BackgroundPosition: backgroundOffset(p.Col, l.Cols) + " " + backgroundOffset(p.Row, l.Rows),
			BackgroundSize:     size,
		})
	}
	return styles
}

// backgroundOffset is pos/(n-1) as a percentage, with n-1 replaced by 1 for
// single-row or single-column grids.
func backgroundOffset(pos, n int) string {
	denom := n - 1
	if denom == 0 {
		denom = 1
	}
	pct := float64(pos) / float64(denom) * 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
