package gamedto

// TargetType tells the client what a card needs before it can be sent.
type TargetType string

const (
	TargetBoard TargetType = "BOARD"
	TargetPiece TargetType = "PIECE"
	TargetTimer TargetType = "TIMER"
	TargetTurn  TargetType = "TURN"
	TargetNone  TargetType = ""
)

// CardType mirrors the server's card categories.
type CardType string

const (
	CardUnstable  CardType = "UNSTABLE"
	CardCurse     CardType = "CURSE"
	CardHidden    CardType = "HIDDEN"
	CardTransform CardType = "TRANSFORM"
	CardForced    CardType = "FORCED"
)

// Known card ids from the server registry.
const (
	CardMine             = "mine"
	CardForbiddenLands   = "forbidden_lands"
	CardEyeForAnEye      = "eye_for_an_eye"
	CardSummonPeon       = "summon_peon"
	CardPawnScout        = "pawn_scout"
	CardKnightHeadhunter = "knight_headhunter"
	CardBishopWarlock    = "bishop_warlock"
)

type CardImages struct {
	Big   string `json:"big"`
	Small string `json:"small"`
}

// Card is the hand entry the server sends for the local player. The
// opponent's hand is never visible; only its size travels on the wire.
type Card struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CardType    CardType   `json:"cardType"`
	TargetType  TargetType `json:"targetType,omitempty"`
	Images      CardImages `json:"images"`
}

// NeedsPieceTarget reports whether the card can only be sent with a
// currently selected piece as its target.
func (c *Card) NeedsPieceTarget() bool { return c != nil && c.TargetType == TargetPiece }

// NeedsTileTarget reports whether the card requires a board square pick.
func (c *Card) NeedsTileTarget() bool { return c != nil && c.TargetType == TargetBoard }
