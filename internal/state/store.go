// Package state keeps the client's mirror of the server snapshot. The
// store has exactly one writer, the session's message router; everything
// else reads.
package state

import (
	"sync"

	"go.uber.org/zap"

	"github.com/costad3atwit/cardchess-client/internal/board"
	"github.com/costad3atwit/cardchess-client/internal/obslog"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

// Player indexes in the store: 0 is always the local player.
const (
	Local  = 0
	Remote = 1
)

// Player is the merged player record. Identity fields survive partial
// snapshots; counts and hands are replaced on every apply.
type Player struct {
	ID       string
	Name     string
	Color    gamedto.Color
	Hand     []gamedto.Card
	HandSize int
	DeckSize int
	Captured []string
}

// TileSets are the named special-tile sets, keyed by notation.
type TileSets struct {
	Green     map[string]struct{}
	Forbidden map[string]struct{}
	Mines     map[string]struct{}
	Glue      map[string]struct{}
}

// Store mirrors the latest authoritative view. Board contents, tiles
// and turn flags are replace-not-merge; player identity is merged.
type Store struct {
	mu sync.RWMutex

	gameID      string
	status      string
	winner      *gamedto.Color
	winReason   string
	currentTurn gamedto.Color
	yourTurn    bool
	whiteTime   float64
	blackTime   float64

	rows      int
	dmzActive bool
	pieces    []gamedto.Piece
	byID      map[string]int
	bySquare  map[string]int
	tiles     TileSets

	players [2]Player

	revision uint64
}

func NewStore() *Store {
	return &Store{
		rows:     8,
		byID:     map[string]int{},
		bySquare: map[string]int{},
		tiles: TileSets{
			Green:     map[string]struct{}{},
			Forbidden: map[string]struct{}{},
			Mines:     map[string]struct{}{},
			Glue:      map[string]struct{}{},
		},
	}
}

// ApplySnapshot ingests one server view. It must only ever be called
// from the session's inbound router so snapshots apply in delivery
// order.
func (s *Store) ApplySnapshot(v *gamedto.ServerView) {
	if s == nil || v == nil {
		return
	}
	s.mu.Lock()

	if v.GameID != "" {
		s.gameID = v.GameID
	}
	if v.Status != "" {
		s.status = v.Status
	}
	s.winner = v.Winner
	if v.WinReason != "" {
		s.winReason = v.WinReason
	}
	s.currentTurn = v.CurrentTurn
	s.yourTurn = v.YourTurn
	s.whiteTime = v.WhiteTime
	s.blackTime = v.BlackTime

	s.rows = v.Board.Rows()
	s.dmzActive = v.Board.DMZActive
	s.pieces = make([]gamedto.Piece, len(v.Board.Pieces))
	copy(s.pieces, v.Board.Pieces)
	s.byID = make(map[string]int, len(s.pieces))
	s.bySquare = make(map[string]int, len(s.pieces))
	for i := range s.pieces {
		p := &s.pieces[i]
		if p.ID != "" {
			s.byID[p.ID] = i
		}
		if p.Active() && p.Position != "" {
			s.bySquare[p.Position] = i
		}
	}
	s.tiles = TileSets{
		Green:     toSet(v.Board.GreenTiles),
		Forbidden: toSet(v.Board.ForbiddenTiles),
		Mines:     toSet(v.Board.Mines),
		Glue:      toSet(v.Board.GlueTiles),
	}

	s.mergePlayers(v)

	s.revision++
	rev := s.revision
	s.mu.Unlock()

	obslog.L().Debug("snapshot_applied",
		zap.Uint64("revision", rev),
		zap.Int("rows", s.Rows()),
		zap.Int("pieces", len(v.Board.Pieces)),
		zap.Bool("your_turn", v.YourTurn),
	)
}

func (s *Store) mergePlayers(v *gamedto.ServerView) {
	if v.YourColor.Valid() {
		s.players[Local].Color = v.YourColor
		s.players[Remote].Color = v.YourColor.Opponent()
	}
	for i, pv := range [2]*gamedto.PlayerView{v.WhitePlayer, v.BlackPlayer} {
		if pv == nil {
			continue
		}
		color := gamedto.White
		if i == 1 {
			color = gamedto.Black
		}
		idx := Remote
		if s.players[Local].Color == color {
			idx = Local
		}
		if pv.ID != "" {
			s.players[idx].ID = pv.ID
		}
		if pv.Name != "" {
			s.players[idx].Name = pv.Name
		}
	}

	s.players[Local].Hand = make([]gamedto.Card, len(v.YourHand))
	copy(s.players[Local].Hand, v.YourHand)
	s.players[Local].HandSize = len(v.YourHand)
	s.players[Local].DeckSize = v.YourDeckSize
	s.players[Local].Captured = append([]string(nil), v.YourCaptured...)

	s.players[Remote].Hand = nil
	s.players[Remote].HandSize = v.OpponentHandSize
	s.players[Remote].DeckSize = v.OpponentDeckSize
	s.players[Remote].Captured = append([]string(nil), v.OpponentCaptured...)
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, n := range list {
		m[n] = struct{}{}
	}
	return m
}

// --- readers ---

func (s *Store) GameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameID
}

func (s *Store) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

func (s *Store) DMZActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dmzActive
}

func (s *Store) CurrentTurn() gamedto.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTurn
}

func (s *Store) YourTurn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.yourTurn
}

func (s *Store) YourColor() gamedto.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[Local].Color
}

// Flipped reports whether the board renders from the second color's
// perspective.
func (s *Store) Flipped() bool { return s.YourColor() == gamedto.Black }

func (s *Store) Clocks() (white, black float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.whiteTime, s.blackTime
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// PieceByID returns a copy of the named piece.
func (s *Store) PieceByID(id string) (gamedto.Piece, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return gamedto.Piece{}, false
	}
	return s.pieces[i], true
}

// PieceAt returns a copy of the active piece on the given square.
func (s *Store) PieceAt(sq board.Square) (gamedto.Piece, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySquare[sq.Notation(s.rows)]
	if !ok {
		return gamedto.Piece{}, false
	}
	return s.pieces[i], true
}

// OccupantColor reports the color of the active piece on a notation
// square, if any.
func (s *Store) OccupantColor(notation string) (gamedto.Color, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySquare[notation]
	if !ok {
		return "", false
	}
	return s.pieces[i].Color, true
}

// Pieces returns a copy of all pieces in the current snapshot.
func (s *Store) Pieces() []gamedto.Piece {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]gamedto.Piece, len(s.pieces))
	copy(out, s.pieces)
	return out
}

// Tiles returns the special-tile sets. The maps are shared read-only
// snapshots; they are replaced, never mutated, on apply.
func (s *Store) Tiles() TileSets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiles
}

// Player returns a copy of the merged player record.
func (s *Store) Player(idx int) Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 0 || idx > Remote {
		return Player{}
	}
	p := s.players[idx]
	p.Hand = append([]gamedto.Card(nil), p.Hand...)
	p.Captured = append([]string(nil), p.Captured...)
	return p
}

// Hand returns a copy of the local hand.
func (s *Store) Hand() []gamedto.Card {
	return s.Player(Local).Hand
}

// HandContains reports whether the local hand holds cardID.
func (s *Store) HandContains(cardID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.players[Local].Hand {
		if s.players[Local].Hand[i].ID == cardID {
			return true
		}
	}
	return false
}

// HandCard returns a copy of the hand card at idx.
func (s *Store) HandCard(idx int) (gamedto.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 0 || idx >= len(s.players[Local].Hand) {
		return gamedto.Card{}, false
	}
	return s.players[Local].Hand[idx], true
}

func (s *Store) Status() (status, winReason string, winner *gamedto.Color) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.winReason, s.winner
}
