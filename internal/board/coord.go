// Package board converts between algebraic square notation and grid
// indices. Orientation flip is a rendering concern and never leaks in
// here: rank 1 is the bottom row on every board size.
package board

import "strconv"

// Square addresses one cell in grid space. Row 0 is the top rendering
// row (the highest rank); Col 0 is file "a".
type Square struct {
	Row int
	Col int
}

// Parse converts notation like "e4" into a Square on a rows x rows
// board. Malformed or out-of-range input returns ok=false; callers
// treat that as "ignore".
func Parse(notation string, rows int) (Square, bool) {
	if rows < 1 || len(notation) < 2 {
		return Square{}, false
	}
	file := int(notation[0] - 'a')
	if file < 0 || file >= rows {
		return Square{}, false
	}
	rank, err := strconv.Atoi(notation[1:])
	if err != nil || rank < 1 || rank > rows {
		return Square{}, false
	}
	return Square{Row: rows - rank, Col: file}, true
}

// Notation converts a Square back to algebraic form, or "" when the
// square lies outside the board.
func (s Square) Notation(rows int) string {
	if s.Row < 0 || s.Row >= rows || s.Col < 0 || s.Col >= rows {
		return ""
	}
	rank := rows - s.Row
	return string(rune('a'+s.Col)) + strconv.Itoa(rank)
}

// In reports whether the square fits a rows x rows board.
func (s Square) In(rows int) bool {
	return s.Row >= 0 && s.Row < rows && s.Col >= 0 && s.Col < rows
}

// Flipped returns the square as seen after a 180 degree board rotation.
func (s Square) Flipped(rows int) Square {
	return Square{Row: rows - 1 - s.Row, Col: rows - 1 - s.Col}
}
