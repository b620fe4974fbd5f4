package render

import (
	"image"

	"github.com/costad3atwit/cardchess-client/internal/board"
)

// borderRatio reserves a fixed proportion of the shorter surface edge
// around the grid for coordinate labels.
const borderRatio = 0.05

// Layout is the pixel geometry derived from the surface size and the
// grid dimensions. It is recomputed on every resize and every render;
// caching it across a board-size change would be a bug.
type Layout struct {
	CellSize int
	OriginX  int
	OriginY  int
	Cols     int
	Rows     int
}

// ComputeLayout fits a square-celled grid into the surface, centered
// after subtracting the border. Pure and idempotent.
func ComputeLayout(surfaceWidth, surfaceHeight, cols, rows int) Layout {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	short := surfaceWidth
	if surfaceHeight < short {
		short = surfaceHeight
	}
	border := int(float64(short) * borderRatio)

	availW := surfaceWidth - 2*border
	availH := surfaceHeight - 2*border
	cell := availW / cols
	if byHeight := availH / rows; byHeight < cell {
		cell = byHeight
	}
	if cell < 1 {
		cell = 1
	}

	return Layout{
		CellSize: cell,
		OriginX:  (surfaceWidth - cell*cols) / 2,
		OriginY:  (surfaceHeight - cell*rows) / 2,
		Cols:     cols,
		Rows:     rows,
	}
}

// GridRect is the pixel rectangle covered by the grid.
func (l Layout) GridRect() image.Rectangle {
	return image.Rect(l.OriginX, l.OriginY, l.OriginX+l.CellSize*l.Cols, l.OriginY+l.CellSize*l.Rows)
}

// CellAt maps raw surface coordinates to a grid square, applying the
// reverse orientation flip before any hit-testing. Outside the grid it
// returns ok=false.
func (l Layout) CellAt(x, y int, flipped bool) (board.Square, bool) {
	if l.CellSize < 1 {
		return board.Square{}, false
	}
	col := (x - l.OriginX) / l.CellSize
	row := (y - l.OriginY) / l.CellSize
	if x < l.OriginX || y < l.OriginY || col < 0 || col >= l.Cols || row < 0 || row >= l.Rows {
		return board.Square{}, false
	}
	sq := board.Square{Row: row, Col: col}
	if flipped {
		sq = board.Square{Row: l.Rows - 1 - sq.Row, Col: l.Cols - 1 - sq.Col}
	}
	return sq, true
}

// CellRect is the pixel rectangle of a grid square under the given
// orientation. Renderer and hit-testing share this single flip
// convention.
func (l Layout) CellRect(sq board.Square, flipped bool) image.Rectangle {
	if flipped {
		sq = board.Square{Row: l.Rows - 1 - sq.Row, Col: l.Cols - 1 - sq.Col}
	}
	x := l.OriginX + sq.Col*l.CellSize
	y := l.OriginY + sq.Row*l.CellSize
	return image.Rect(x, y, x+l.CellSize, y+l.CellSize)
}
