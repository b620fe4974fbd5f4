package gamedto

// BoardView carries the board portion of a snapshot. Special-tile sets
// are notation strings and are replaced wholesale on every apply.
type BoardView struct {
	Pieces         []Piece  `json:"pieces"`
	DMZActive      bool     `json:"dmz_active"`
	Size           int      `json:"size,omitempty"`
	GreenTiles     []string `json:"greenTiles"`
	ForbiddenTiles []string `json:"forbiddenTiles"`
	Mines          []string `json:"mines"`
	GlueTiles      []string `json:"glueTiles"`
}

// Rows resolves the active board dimension. An explicit size wins; a
// bare dmz flag means the 10x10 expansion; otherwise the base 8x8.
func (b *BoardView) Rows() int {
	if b == nil {
		return 8
	}
	if b.Size >= 8 && b.Size <= 10 {
		return b.Size
	}
	if b.DMZActive {
		return 10
	}
	return 8
}

// PlayerView is the partial player record the server may attach to a
// snapshot. Absent fields mean "unchanged", which is why the store
// merges rather than replaces player identity.
type PlayerView struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ServerView is the player-specific snapshot pushed by the server.
// Fields the client does not use are simply not declared here.
type ServerView struct {
	GameID      string  `json:"game_id,omitempty"`
	Status      string  `json:"status,omitempty"`
	CurrentTurn Color   `json:"current_turn"`
	WhiteTime   float64 `json:"white_time"`
	BlackTime   float64 `json:"black_time"`
	Winner      *Color  `json:"winner,omitempty"`
	WinReason   string  `json:"win_reason,omitempty"`

	Board BoardView `json:"board"`

	YourColor        Color    `json:"your_color"`
	YourTurn         bool     `json:"your_turn"`
	YourHand         []Card   `json:"your_hand"`
	YourDeckSize     int      `json:"your_deck_size"`
	YourCaptured     []string `json:"your_captured,omitempty"`
	OpponentHandSize int      `json:"opponent_hand_size"`
	OpponentDeckSize int      `json:"opponent_deck_size"`
	OpponentCaptured []string `json:"opponent_captured,omitempty"`

	WhitePlayer *PlayerView `json:"white_player,omitempty"`
	BlackPlayer *PlayerView `json:"black_player,omitempty"`
}

// HandContains reports whether the local hand still holds cardID.
func (v *ServerView) HandContains(cardID string) bool {
	if v == nil {
		return false
	}
	for i := range v.YourHand {
		if v.YourHand[i].ID == cardID {
			return true
		}
	}
	return false
}
