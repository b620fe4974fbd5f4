// Package targeting decides what a pointer click means. Every move and
// card-play path funnels through one three-phase machine instead of
// per-card callbacks.
package targeting

import (
	"github.com/costad3atwit/cardchess-client/internal/board"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

type Phase int

const (
	Idle Phase = iota
	PieceSelected
	AwaitingTileTarget
)

func (p Phase) String() string {
	switch p {
	case PieceSelected:
		return "piece_selected"
	case AwaitingTileTarget:
		return "awaiting_tile_target"
	default:
		return "idle"
	}
}

// Board is the read surface the machine needs; *state.Store satisfies it.
type Board interface {
	Rows() int
	YourTurn() bool
	YourColor() gamedto.Color
	PieceAt(board.Square) (gamedto.Piece, bool)
	OccupantColor(notation string) (gamedto.Color, bool)
	PieceByID(id string) (gamedto.Piece, bool)
	HandContains(cardID string) bool
}

type ActionKind int

const (
	ActNone ActionKind = iota
	ActSendMove
	ActSendCard
	ActNotice
)

// Target is the card-dependent payload: a square notation for board
// targets, a piece position for piece targets, empty otherwise.
type Target struct {
	Square string
	Piece  string
}

// Action is what a transition asks the session to do. ActNone means the
// click was absorbed locally (highlight change or ignore).
type Action struct {
	Kind   ActionKind
	From   string
	To     string
	Card   gamedto.Card
	Target Target
	Notice string // msgcat key for user-visible prompts
}

// Machine is the selection/targeting state machine. It never derives
// legal destinations itself; they come from the selected piece's
// server-supplied moves list, partitioned by destination occupancy.
type Machine struct {
	st Board

	phase       Phase
	selectedID  string
	selectedPos string
	legalMoves  []string
	legalCaps   []string
	tileCard    *gamedto.Card
}

func NewMachine(st Board) *Machine {
	return &Machine{st: st}
}

func (m *Machine) Phase() Phase { return m.phase }

// SelectedPiece returns the id of the currently selected piece, or "".
func (m *Machine) SelectedPiece() string { return m.selectedID }

func (m *Machine) LegalMoves() []string    { return append([]string(nil), m.legalMoves...) }
func (m *Machine) LegalCaptures() []string { return append([]string(nil), m.legalCaps...) }

// HandleSquareClick processes a board click already mapped to grid
// space (flip correction happens in the layout, not here).
func (m *Machine) HandleSquareClick(sq board.Square) Action {
	rows := m.st.Rows()
	if !sq.In(rows) {
		return Action{}
	}
	n := sq.Notation(rows)

	switch m.phase {
	case AwaitingTileTarget:
		card := *m.tileCard
		m.ForceIdle()
		// occupancy is irrelevant: the server validates the target
		return Action{Kind: ActSendCard, Card: card, Target: Target{Square: n}}

	case PieceSelected:
		from := m.selectedPos
		hit := contains(m.legalMoves, n) || contains(m.legalCaps, n)
		m.ForceIdle()
		if hit {
			return Action{Kind: ActSendMove, From: from, To: n}
		}
		return Action{} // cancel, no network effect

	default: // Idle
		if !m.st.YourTurn() {
			return Action{}
		}
		p, ok := m.st.PieceAt(sq)
		if !ok || !p.Active() || p.Color != m.st.YourColor() {
			return Action{}
		}
		m.selectPiece(p)
		return Action{}
	}
}

func (m *Machine) selectPiece(p gamedto.Piece) {
	m.phase = PieceSelected
	m.selectedID = p.ID
	m.selectedPos = p.Position
	m.legalMoves, m.legalCaps = m.partition(p.Moves)
}

// partition splits server-supplied destinations into plain moves and
// captures by whether an opposing piece sits on the square.
func (m *Machine) partition(moves []string) (plain, captures []string) {
	you := m.st.YourColor()
	for _, dest := range moves {
		if c, occupied := m.st.OccupantColor(dest); occupied {
			if c != you {
				captures = append(captures, dest)
			}
			continue
		}
		plain = append(plain, dest)
	}
	return plain, captures
}

// ActivateCard handles a hand-card activation. Piece-target cards need
// an existing selection; board-target cards arm the tile picker.
func (m *Machine) ActivateCard(card gamedto.Card) Action {
	if !m.st.YourTurn() {
		return Action{Kind: ActNotice, Notice: "notice.not_your_turn"}
	}

	switch {
	case card.NeedsPieceTarget():
		if m.phase != PieceSelected || m.selectedID == "" {
			return Action{Kind: ActNotice, Notice: "notice.select_piece_first"}
		}
		target := Target{Piece: m.selectedPos}
		m.ForceIdle()
		return Action{Kind: ActSendCard, Card: card, Target: target}

	case card.NeedsTileTarget():
		c := card
		m.clearSelection()
		m.phase = AwaitingTileTarget
		m.tileCard = &c
		return Action{}

	default:
		m.ForceIdle()
		return Action{Kind: ActSendCard, Card: card}
	}
}

// Resync enforces the selection invariant after a snapshot: a selection
// naming a piece that vanished, was captured or moved drops to Idle;
// a still-valid selection recomputes its highlight sets from the new
// moves list, never reusing the old one.
func (m *Machine) Resync() {
	switch m.phase {
	case PieceSelected:
		p, ok := m.st.PieceByID(m.selectedID)
		if !ok || !p.Active() || p.Position != m.selectedPos || p.Color != m.st.YourColor() {
			m.ForceIdle()
			return
		}
		m.legalMoves, m.legalCaps = m.partition(p.Moves)
	case AwaitingTileTarget:
		if m.tileCard == nil || !m.st.HandContains(m.tileCard.ID) {
			m.ForceIdle()
		}
	}
}

// ForceIdle drops all selection and targeting state.
func (m *Machine) ForceIdle() {
	m.clearSelection()
	m.phase = Idle
	m.tileCard = nil
}

func (m *Machine) clearSelection() {
	m.selectedID = ""
	m.selectedPos = ""
	m.legalMoves = nil
	m.legalCaps = nil
	if m.phase == PieceSelected {
		m.phase = Idle
	}
}

func contains(list []string, n string) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
