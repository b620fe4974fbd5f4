package state

import (
	"testing"

	"github.com/costad3atwit/cardchess-client/internal/board"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

func fullView() *gamedto.ServerView {
	return &gamedto.ServerView{
		GameID:      "g1",
		CurrentTurn: gamedto.White,
		YourColor:   gamedto.White,
		YourTurn:    true,
		WhiteTime:   900, BlackTime: 900,
		Board: gamedto.BoardView{
			Pieces: []gamedto.Piece{
				{ID: "wP1", Type: gamedto.Pawn, Color: gamedto.White, Position: "e2", Status: "active", Moves: []string{"e3", "e4"}},
				{ID: "bN1", Type: gamedto.Knight, Color: gamedto.Black, Position: "d5", Status: "active"},
				{ID: "bP9", Type: gamedto.Pawn, Color: gamedto.Black, Status: "captured"},
			},
			GreenTiles: []string{"c3"},
			Mines:      []string{"f6"},
		},
		YourHand:         []gamedto.Card{{ID: "mine"}, {ID: "pawn_scout"}},
		YourDeckSize:     10,
		OpponentHandSize: 4,
		OpponentDeckSize: 12,
		WhitePlayer:      &gamedto.PlayerView{ID: "p1", Name: "alice"},
		BlackPlayer:      &gamedto.PlayerView{ID: "p2", Name: "bob"},
	}
}

func TestApplySnapshotReplacesBoard(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot(fullView())

	if s.Rows() != 8 {
		t.Fatalf("rows: %d", s.Rows())
	}
	sq, _ := board.Parse("e2", 8)
	p, ok := s.PieceAt(sq)
	if !ok || p.ID != "wP1" {
		t.Fatalf("piece at e2: %+v ok=%v", p, ok)
	}
	// captured pieces must not occupy squares
	if _, ok := s.OccupantColor(""); ok {
		t.Fatalf("captured piece should not be on the board")
	}

	// second snapshot drops the knight and the tiles; nothing may leak
	v2 := fullView()
	v2.Board.Pieces = v2.Board.Pieces[:1]
	v2.Board.GreenTiles = nil
	v2.Board.Mines = nil
	s.ApplySnapshot(v2)
	if _, ok := s.PieceByID("bN1"); ok {
		t.Fatalf("stale piece survived replace")
	}
	tiles := s.Tiles()
	if len(tiles.Green) != 0 || len(tiles.Mines) != 0 {
		t.Fatalf("stale tiles survived replace: %+v", tiles)
	}
	if s.Revision() != 2 {
		t.Fatalf("revision: %d", s.Revision())
	}
}

func TestApplySnapshotMergesPlayers(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot(fullView())

	// partial update: no player records attached
	v2 := fullView()
	v2.WhitePlayer = nil
	v2.BlackPlayer = nil
	v2.YourHand = v2.YourHand[:1]
	v2.OpponentHandSize = 3
	s.ApplySnapshot(v2)

	local := s.Player(Local)
	if local.Name != "alice" || local.ID != "p1" || local.Color != gamedto.White {
		t.Fatalf("local identity lost on partial snapshot: %+v", local)
	}
	if len(local.Hand) != 1 || local.Hand[0].ID != "mine" {
		t.Fatalf("hand should be replaced wholesale: %+v", local.Hand)
	}
	remote := s.Player(Remote)
	if remote.Name != "bob" || remote.HandSize != 3 {
		t.Fatalf("remote merge wrong: %+v", remote)
	}
	if len(remote.Hand) != 0 {
		t.Fatalf("remote hand contents must never be known")
	}
}

func TestRevisionBumpsPerApply(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot(fullView())
	s.ApplySnapshot(fullView())
	if s.Revision() != 2 {
		t.Fatalf("revision = %d after two applies", s.Revision())
	}
}

func TestDMZBoardSize(t *testing.T) {
	s := NewStore()
	v := fullView()
	v.Board.DMZActive = true
	s.ApplySnapshot(v)
	if s.Rows() != 10 {
		t.Fatalf("dmz rows: %d", s.Rows())
	}
	v.Board.Size = 9
	s.ApplySnapshot(v)
	if s.Rows() != 9 {
		t.Fatalf("explicit size must win: %d", s.Rows())
	}
}

func TestFlipped(t *testing.T) {
	s := NewStore()
	v := fullView()
	v.YourColor = gamedto.Black
	s.ApplySnapshot(v)
	if !s.Flipped() {
		t.Fatalf("black player should render flipped")
	}
}
