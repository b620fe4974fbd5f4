package gamedto

// Color is the two-valued side marker used on the wire ("W"/"B").
type Color string

const (
	White Color = "W"
	Black Color = "B"
)

func (c Color) Valid() bool { return c == White || c == Black }

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceType is the single-letter piece kind from the server enums.
// Beyond the six chess kinds the variant adds transformed pieces.
type PieceType string

const (
	King       PieceType = "K"
	Queen      PieceType = "Q"
	Rook       PieceType = "R"
	Bishop     PieceType = "B"
	Knight     PieceType = "N"
	Pawn       PieceType = "P"
	Peon       PieceType = "E"
	Scout      PieceType = "S"
	Headhunter PieceType = "H"
	Witch      PieceType = "T"
	Warlock    PieceType = "W"
	Cleric     PieceType = "C"
	Darklord   PieceType = "D"
)

const (
	StatusActive   = "active"
	StatusCaptured = "captured"
)

// Piece is the server's view of one piece. Moves is populated only for
// the local player's pieces and only reflects the position at snapshot
// time; the client never derives destinations itself.
type Piece struct {
	ID       string    `json:"id"`
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position string    `json:"position_algebraic"`
	Status   string    `json:"status"`
	Moves    []string  `json:"moves"`
}

func (p *Piece) Active() bool { return p != nil && p.Status == StatusActive }
