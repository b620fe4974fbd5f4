package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/costad3atwit/cardchess-client/internal/gamesocket"
	"github.com/costad3atwit/cardchess-client/internal/msgcat"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

type fakeConn struct {
	mu       sync.Mutex
	sent     []any
	sendErr  error // consumed by the next Send
	msgCBs   map[int]gamesocket.MessageCallback
	stateCBs map[int]gamesocket.StateCallback
	nextID   int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		msgCBs:   map[int]gamesocket.MessageCallback{},
		stateCBs: map[int]gamesocket.StateCallback{},
	}
}

func (f *fakeConn) Connect(ctx context.Context) error { return nil }

func (f *fakeConn) Send(ctx context.Context, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		err := f.sendErr
		f.sendErr = nil
		return err
	}
	f.sent = append(f.sent, v)
	return nil
}

func (f *fakeConn) failNextSend(err error) {
	f.mu.Lock()
	f.sendErr = err
	f.mu.Unlock()
}

func (f *fakeConn) OnMessage(cb gamesocket.MessageCallback) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.msgCBs[f.nextID] = cb
	return f.nextID
}

func (f *fakeConn) RemoveMessageCallback(id int) {
	f.mu.Lock()
	delete(f.msgCBs, id)
	f.mu.Unlock()
}

func (f *fakeConn) OnStateChange(cb gamesocket.StateCallback) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.stateCBs[f.nextID] = cb
	return f.nextID
}

func (f *fakeConn) RemoveStateCallback(id int) {
	f.mu.Lock()
	delete(f.stateCBs, id)
	f.mu.Unlock()
}

func (f *fakeConn) Close(ctx context.Context) error { return nil }

func (f *fakeConn) deliver(t *testing.T, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	f.mu.Lock()
	cbs := make([]gamesocket.MessageCallback, 0, len(f.msgCBs))
	for _, cb := range f.msgCBs {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(raw)
	}
}

func (f *fakeConn) setState(st gamesocket.State) {
	f.mu.Lock()
	cbs := make([]gamesocket.StateCallback, 0, len(f.stateCBs))
	for _, cb := range f.stateCBs {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(st)
	}
}

func (f *fakeConn) sentFrames() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.sent...)
}

func mustCatalog(t *testing.T) *msgcat.Catalog {
	t.Helper()
	c, err := msgcat.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func scoutCard() gamedto.Card {
	return gamedto.Card{ID: gamedto.CardPawnScout, Name: "Pawn Scout", CardType: gamedto.CardTransform, TargetType: gamedto.TargetPiece}
}

func mineCard() gamedto.Card {
	return gamedto.Card{ID: gamedto.CardMine, Name: "Mine", CardType: gamedto.CardHidden, TargetType: gamedto.TargetBoard}
}

func liveView(hand ...gamedto.Card) gamedto.ServerView {
	return gamedto.ServerView{
		GameID:      "g1",
		Status:      "active",
		CurrentTurn: gamedto.White,
		WhiteTime:   300,
		BlackTime:   300,
		Board: gamedto.BoardView{
			Pieces: []gamedto.Piece{
				{ID: "wP1", Type: gamedto.Pawn, Color: gamedto.White, Position: "e2", Status: "active", Moves: []string{"e3", "e4"}},
				{ID: "bK1", Type: gamedto.King, Color: gamedto.Black, Position: "e8", Status: "active"},
			},
		},
		YourColor: gamedto.White,
		YourTurn:  true,
		YourHand:  hand,
	}
}

func frame(typ string, view gamedto.ServerView) map[string]any {
	return map[string]any{"type": typ, "game_state": view}
}

func newTestSession(t *testing.T, events Events) (*Session, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	s := New("g1", conn, mustCatalog(t), nil, 720, 720, events)
	t.Cleanup(s.Close)
	return s, conn
}

func TestSnapshotRequestedOnConnect(t *testing.T) {
	_, conn := newTestSession(t, Events{})
	conn.setState(gamesocket.StateConnected)

	frames := conn.sentFrames()
	if len(frames) != 1 {
		t.Fatalf("sent %d frames, want 1", len(frames))
	}
	req, ok := frames[0].(gamesocket.GetGameStateRequest)
	if !ok || req.GameID != "g1" {
		t.Fatalf("unexpected frame: %#v", frames[0])
	}
}

func TestPendingSurvivesSnapshotThenDiscardsOnce(t *testing.T) {
	var discards []gamedto.Card
	s, conn := newTestSession(t, Events{OnDiscard: func(c gamedto.Card) { discards = append(discards, c) }})

	conn.deliver(t, frame("game_state", liveView(scoutCard())))

	// select the pawn, then play the piece-target card on it
	s.HandleClick(36+4*81+40, 36+6*81+40) // e2 from white's view on a 720 surface
	s.ActivateHandCard(0)

	frames := conn.sentFrames()
	if len(frames) != 1 {
		t.Fatalf("sent %d frames, want 1 play_card", len(frames))
	}
	play, ok := frames[0].(gamesocket.PlayCardRequest)
	if !ok || play.CardID != gamedto.CardPawnScout || play.Target.Piece != "e2" {
		t.Fatalf("unexpected frame: %#v", frames[0])
	}

	// server echoes a snapshot that still lists the card: in flight
	conn.deliver(t, frame("game_update", liveView(scoutCard())))
	if len(discards) != 0 {
		t.Fatalf("discard fired while card still in hand")
	}

	// card gone: exactly one discard
	conn.deliver(t, frame("game_update", liveView()))
	conn.deliver(t, frame("game_update", liveView()))
	if len(discards) != 1 {
		t.Fatalf("discards = %d, want 1", len(discards))
	}
	if discards[0].ID != gamedto.CardPawnScout {
		t.Fatalf("wrong card discarded: %s", discards[0].ID)
	}
}

func TestErrorClearsPendingSilently(t *testing.T) {
	var discards int
	var notices []string
	s, conn := newTestSession(t, Events{
		OnDiscard: func(gamedto.Card) { discards++ },
		OnNotice:  func(text string) { notices = append(notices, text) },
	})

	conn.deliver(t, frame("game_state", liveView(scoutCard())))
	s.HandleClick(36+4*81+40, 36+6*81+40)
	s.ActivateHandCard(0)

	conn.deliver(t, map[string]any{"type": "error", "message": "card not playable"})
	if discards != 0 {
		t.Fatalf("rejection must not animate a discard")
	}
	found := false
	for _, n := range notices {
		if strings.Contains(n, "card not playable") {
			found = true
		}
	}
	if !found {
		t.Fatalf("rejection reason not surfaced: %v", notices)
	}

	// tracker is free again
	conn.deliver(t, frame("game_state", liveView(scoutCard())))
	s.HandleClick(36+4*81+40, 36+6*81+40)
	s.ActivateHandCard(0)
	var plays int
	for _, f := range conn.sentFrames() {
		if _, ok := f.(gamesocket.PlayCardRequest); ok {
			plays++
		}
	}
	if plays != 2 {
		t.Fatalf("plays = %d, want 2", plays)
	}
}

func TestSecondCardBlockedWhilePending(t *testing.T) {
	var notices []string
	s, conn := newTestSession(t, Events{OnNotice: func(text string) { notices = append(notices, text) }})

	conn.deliver(t, frame("game_state", liveView(scoutCard(), mineCard())))
	s.HandleClick(36+4*81+40, 36+6*81+40)
	s.ActivateHandCard(0)
	s.ActivateHandCard(1)

	var plays int
	for _, f := range conn.sentFrames() {
		if _, ok := f.(gamesocket.PlayCardRequest); ok {
			plays++
		}
	}
	if plays != 1 {
		t.Fatalf("second play must be blocked, got %d sends", plays)
	}
	if len(notices) == 0 {
		t.Fatalf("blocked play should notify the user")
	}
}

func TestSendFailureReleasesPending(t *testing.T) {
	var discards int
	s, conn := newTestSession(t, Events{OnDiscard: func(gamedto.Card) { discards++ }})

	conn.deliver(t, frame("game_state", liveView(scoutCard())))
	s.HandleClick(36+4*81+40, 36+6*81+40)
	conn.failNextSend(errors.New("socket not connected"))
	s.ActivateHandCard(0)

	// the write never left, so no error frame will arrive; the tracker
	// must be free immediately
	conn.deliver(t, frame("game_update", liveView(scoutCard())))
	if discards != 0 {
		t.Fatalf("failed send must not animate a discard")
	}

	s.HandleClick(36+4*81+40, 36+6*81+40)
	s.ActivateHandCard(0)
	var plays int
	for _, f := range conn.sentFrames() {
		if _, ok := f.(gamesocket.PlayCardRequest); ok {
			plays++
		}
	}
	if plays != 1 {
		t.Fatalf("retry after failed send blocked, plays = %d", plays)
	}
}

func TestClockTickForwarded(t *testing.T) {
	var ticks int
	var lastWhite float64
	s, conn := newTestSession(t, Events{OnClockTick: func(white, black float64) {
		ticks++
		lastWhite = white
	}})

	conn.deliver(t, frame("game_state", liveView()))
	s.Clock().Advance(1)

	if ticks == 0 {
		t.Fatalf("clock ticks not forwarded")
	}
	// the background ticker may shave a few extra milliseconds off
	if lastWhite > 299 || lastWhite < 298 {
		t.Fatalf("forwarded white clock = %v, want ~299", lastWhite)
	}
}

func TestTileTargetCardFlow(t *testing.T) {
	s, conn := newTestSession(t, Events{})

	conn.deliver(t, frame("game_state", liveView(mineCard())))
	s.ActivateHandCard(0)
	if len(conn.sentFrames()) != 0 {
		t.Fatalf("board-target card must wait for a square pick")
	}

	s.HandleClick(36+2*81+40, 36+4*81+40) // c4 from white's view
	frames := conn.sentFrames()
	if len(frames) != 1 {
		t.Fatalf("sent %d frames, want 1", len(frames))
	}
	play, ok := frames[0].(gamesocket.PlayCardRequest)
	if !ok || play.CardID != gamedto.CardMine || play.Target.Square != "c4" {
		t.Fatalf("unexpected frame: %#v", frames[0])
	}
}

func TestStaleSelectionResetBySnapshot(t *testing.T) {
	s, conn := newTestSession(t, Events{})

	conn.deliver(t, frame("game_state", liveView()))
	s.HandleClick(36+4*81+40, 36+6*81+40) // select wP1 on e2
	scene, _ := s.Scene()
	if scene.SelectedPos != "e2" {
		t.Fatalf("selection missing: %q", scene.SelectedPos)
	}

	// next snapshot has the pawn elsewhere
	moved := liveView()
	moved.Board.Pieces[0].Position = "e4"
	conn.deliver(t, frame("game_update", moved))

	scene, _ = s.Scene()
	if scene.SelectedPos != "" || len(scene.LegalMoves) != 0 {
		t.Fatalf("stale selection survived: %+v", scene)
	}
}

func TestMoveSentForHighlightedDestination(t *testing.T) {
	s, conn := newTestSession(t, Events{})

	conn.deliver(t, frame("game_state", liveView()))
	s.HandleClick(36+4*81+40, 36+6*81+40) // select wP1
	s.HandleClick(36+4*81+40, 36+4*81+40) // e4

	frames := conn.sentFrames()
	if len(frames) != 1 {
		t.Fatalf("sent %d frames, want 1", len(frames))
	}
	mv, ok := frames[0].(gamesocket.MoveRequest)
	if !ok || mv.From != "e2" || mv.To != "e4" {
		t.Fatalf("unexpected frame: %#v", frames[0])
	}
}

func TestGameOverStopsInteraction(t *testing.T) {
	var over string
	s, conn := newTestSession(t, Events{OnGameOver: func(text string) { over = text }})

	conn.deliver(t, frame("game_state", liveView(mineCard())))
	w := gamedto.Black
	conn.deliver(t, map[string]any{"type": "game_over", "reason": "checkmate", "winner": w})

	if !strings.Contains(over, "checkmate") || !strings.Contains(over, "B") {
		t.Fatalf("game over text: %q", over)
	}
	s.ActivateHandCard(0)
	s.HandleClick(36+2*81+40, 36+4*81+40)
	if got := len(conn.sentFrames()); got != 0 {
		t.Fatalf("input after game over produced %d sends", got)
	}
}
