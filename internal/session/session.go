// Package session owns one game's lifetime on the client: the state
// store, the targeting machine, the pending-card tracker and the clock,
// wired to a socket. All inbound frames funnel through a single router
// under one lock, so snapshots apply in delivery order.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/costad3atwit/cardchess-client/internal/clock"
	"github.com/costad3atwit/cardchess-client/internal/gamesocket"
	"github.com/costad3atwit/cardchess-client/internal/msgcat"
	"github.com/costad3atwit/cardchess-client/internal/obslog"
	"github.com/costad3atwit/cardchess-client/internal/render"
	"github.com/costad3atwit/cardchess-client/internal/state"
	"github.com/costad3atwit/cardchess-client/internal/targeting"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

const sendTimeout = 5 * time.Second

// Events are the UI-facing hooks. All fire from socket or session
// goroutines; handlers must not call back into the session.
type Events struct {
	OnNotice             func(text string)
	OnDiscard            func(card gamedto.Card)
	OnOpponentCardPlayed func(card gamedto.Card)
	OnGameOver           func(text string)
	OnRefresh            func()
	OnClockTick          func(white, black float64)
}

type Session struct {
	gameID string
	conn   gamesocket.Conn
	cat    *msgcat.Catalog
	cache  *state.SnapshotCache // optional

	store   *state.Store
	machine *targeting.Machine
	pending *targeting.Pending
	clk     *clock.Clock

	surfaceW int
	surfaceH int

	events Events

	mu       sync.Mutex
	over     bool
	armedIdx int // hand index of the card arming the tile picker

	msgCB   int
	stateCB int

	closeOnce sync.Once
}

// New wires a session onto an already-constructed socket. The socket is
// not connected here; call conn.Connect after New so the first
// connected transition triggers the initial snapshot request.
func New(gameID string, conn gamesocket.Conn, cat *msgcat.Catalog, cache *state.SnapshotCache, surfaceW, surfaceH int, events Events) *Session {
	s := &Session{
		gameID:   gameID,
		conn:     conn,
		cat:      cat,
		cache:    cache,
		store:    state.NewStore(),
		clk:      clock.New(),
		surfaceW: surfaceW,
		surfaceH: surfaceH,
		events:   events,
		armedIdx: -1,
	}
	s.machine = targeting.NewMachine(s.store)
	s.pending = targeting.NewPending(func(c gamedto.Card) {
		if s.events.OnDiscard != nil {
			s.events.OnDiscard(c)
		}
	})
	s.clk.OnTick(func(white, black float64) {
		if s.events.OnClockTick != nil {
			s.events.OnClockTick(white, black)
		}
	})
	s.msgCB = conn.OnMessage(s.HandleMessage)
	s.stateCB = conn.OnStateChange(func(st gamesocket.State) {
		if st == gamesocket.StateConnected {
			s.requestSnapshot()
		}
	})
	s.clk.Start()
	return s
}

func (s *Session) Store() *state.Store { return s.store }
func (s *Session) Clock() *clock.Clock { return s.clk }

// Resume paints from the snapshot cache before the socket delivers a
// live one. Best effort; a miss or a cache error just means a blank
// board until the first frame.
func (s *Session) Resume(ctx context.Context) {
	if s.cache == nil {
		return
	}
	v, err := s.cache.Load(ctx, s.gameID)
	if err != nil {
		obslog.L().Warn("snapshot_cache_load_failed", zap.String("game_id", s.gameID), zap.Error(err))
		return
	}
	if v == nil {
		return
	}
	s.mu.Lock()
	s.applyView(v)
	s.mu.Unlock()
	s.refresh()
}

// requestSnapshot fires on every connected transition; a reconnect
// needs a fresh snapshot as much as the first connect does.
func (s *Session) requestSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := s.conn.Send(ctx, gamesocket.NewGetGameState(s.gameID)); err != nil {
		obslog.L().Warn("get_game_state_send_failed", zap.Error(err))
	}
}

// HandleMessage is the single inbound entry point; the socket callback
// delivers every raw frame here in order.
func (s *Session) HandleMessage(raw json.RawMessage) {
	msg, err := gamesocket.Decode(raw)
	if err != nil {
		var unknown *gamesocket.ErrUnknownMessage
		if errors.As(err, &unknown) {
			obslog.L().Warn("unknown_server_message", zap.String("type", unknown.Type))
		} else {
			obslog.L().Warn("bad_server_frame", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	refresh := false
	switch m := msg.(type) {
	case *gamesocket.GameStateMsg:
		s.applyView(&m.View)
		refresh = true
	case *gamesocket.GameStartedMsg:
		s.applyView(&m.View)
		refresh = true
	case *gamesocket.GameUpdateMsg:
		s.handleUpdate(m)
		refresh = true
	case *gamesocket.GameOverMsg:
		s.handleGameOver(m)
		refresh = true
	case *gamesocket.ErrorMsg:
		s.handleError(m)
	case *gamesocket.QueueJoinedMsg:
		obslog.L().Info("queue_joined", zap.Int("position", m.Position))
	case *gamesocket.PongMsg:
		// keepalive reply, nothing to do
	}
	s.mu.Unlock()

	if refresh {
		s.refresh()
	}
}

// refresh fires the UI hook. Never call with s.mu held: the handler is
// expected to come back through Scene.
func (s *Session) refresh() {
	if s.events.OnRefresh != nil {
		s.events.OnRefresh()
	}
}

func (s *Session) handleUpdate(m *gamesocket.GameUpdateMsg) {
	if m.CardPlayed != nil && !s.isOwnPending(m.CardPlayed.ID) {
		if s.events.OnOpponentCardPlayed != nil {
			s.events.OnOpponentCardPlayed(*m.CardPlayed)
		}
		s.notice("notice.card_played", map[string]any{
			"Player": s.store.Player(state.Remote).Name,
			"Card":   m.CardPlayed.Name,
		})
	}
	s.applyView(&m.View)
}

func (s *Session) isOwnPending(cardID string) bool {
	act, ok := s.pending.Active()
	return ok && act.Card.ID == cardID
}

func (s *Session) handleGameOver(m *gamesocket.GameOverMsg) {
	s.over = true
	s.clk.Stop()
	s.machine.ForceIdle()
	s.pending.Reject()

	var text string
	if m.Winner == nil {
		text = s.cat.MustRender("game.over_draw", map[string]any{"Reason": m.Reason})
	} else {
		text = s.cat.MustRender("game.over_win", map[string]any{
			"Winner": string(*m.Winner),
			"Reason": m.Reason,
		})
	}
	if s.events.OnGameOver != nil {
		s.events.OnGameOver(text)
	}
}

// handleError clears the pending tracker silently: the hand was never
// mutated optimistically, so there is nothing to roll back. The user
// still sees the rejection reason.
func (s *Session) handleError(m *gamesocket.ErrorMsg) {
	_, hadPending := s.pending.Active()
	s.pending.Reject()
	s.armedIdx = -1
	key := "notice.move_rejected"
	if hadPending {
		key = "notice.card_rejected"
	}
	s.notice(key, map[string]any{"Reason": m.Message})
}

// applyView runs the full reconciliation sequence for one snapshot:
// store replace, selection resync, pending reconcile, clock sync.
// Callers hold s.mu.
func (s *Session) applyView(v *gamedto.ServerView) {
	s.store.ApplySnapshot(v)
	s.machine.Resync()
	if act, ok := s.pending.Active(); ok {
		s.pending.Reconcile(s.store.HandContains(act.Card.ID))
	}
	s.clk.Sync(s.store.Clocks())
	s.clk.SetTurn(s.store.CurrentTurn())

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := s.cache.Save(ctx, s.gameID, v); err != nil {
			obslog.L().Warn("snapshot_cache_save_failed", zap.Error(err))
		}
		cancel()
	}
}

// HandleClick maps a raw surface click to a square and feeds the
// targeting machine. Clicks outside the grid are dropped here.
func (s *Session) HandleClick(x, y int) {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return
	}

	rows := s.store.Rows()
	l := render.ComputeLayout(s.surfaceW, s.surfaceH, rows, rows)
	sq, ok := l.CellAt(x, y, s.store.Flipped())
	if !ok {
		s.mu.Unlock()
		return
	}
	s.dispatch(s.machine.HandleSquareClick(sq))
	s.mu.Unlock()
	s.refresh()
}

// ActivateHandCard starts a card play from hand slot idx.
func (s *Session) ActivateHandCard(idx int) {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return
	}

	card, ok := s.store.HandCard(idx)
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, busy := s.pending.Active(); busy {
		s.mu.Unlock()
		s.notice("notice.card_pending", nil)
		return
	}

	act := s.machine.ActivateCard(card)
	if act.Kind == targeting.ActNone && s.machine.Phase() == targeting.AwaitingTileTarget {
		// tile picker armed; remember the slot for the eventual send
		s.armedIdx = idx
		s.mu.Unlock()
		s.refresh()
		return
	}
	s.dispatchWithIndex(act, idx)
	s.mu.Unlock()
	s.refresh()
}

func (s *Session) dispatch(act targeting.Action) {
	idx := s.armedIdx
	s.armedIdx = -1
	s.dispatchWithIndex(act, idx)
}

func (s *Session) dispatchWithIndex(act targeting.Action, handIdx int) {
	switch act.Kind {
	case targeting.ActSendMove:
		s.send(gamesocket.NewMove(s.gameID, act.From, act.To))

	case targeting.ActSendCard:
		err := s.pending.Begin(act.Card, handIdx, act.Target)
		if err != nil {
			s.notice("notice.card_pending", nil)
			return
		}
		err = s.send(gamesocket.NewPlayCard(s.gameID, act.Card.ID, gamesocket.CardTarget{
			Square: act.Target.Square,
			Piece:  act.Target.Piece,
		}))
		if err != nil {
			// the server never saw the request, so no error frame will
			// clear the tracker for us
			s.pending.Reject()
		}

	case targeting.ActNotice:
		s.notice(act.Notice, map[string]any{"Card": act.Card.Name})
	}
}

func (s *Session) send(v any) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := s.conn.Send(ctx, v); err != nil {
		obslog.L().Warn("send_failed", zap.Error(err))
		s.notice("notice.send_failed", nil)
		return err
	}
	return nil
}

func (s *Session) notice(key string, data map[string]any) {
	if s.events.OnNotice == nil {
		return
	}
	s.events.OnNotice(s.cat.MustRender(key, data))
}

// Scene snapshots everything the renderer needs for one frame, plus
// the layout matching the current board size.
func (s *Session) Scene() (render.Scene, render.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.store.Rows()
	active := rows
	if rows > 8 && !s.store.DMZActive() {
		active = 8
	}
	tiles := s.store.Tiles()

	var selected string
	if id := s.machine.SelectedPiece(); id != "" {
		if p, ok := s.store.PieceByID(id); ok {
			selected = p.Position
		}
	}

	scene := render.Scene{
		Rows:          rows,
		ActiveRows:    active,
		Flipped:       s.store.Flipped(),
		Pieces:        s.store.Pieces(),
		Green:         tiles.Green,
		Forbidden:     tiles.Forbidden,
		Mines:         tiles.Mines,
		Glue:          tiles.Glue,
		SelectedPos:   selected,
		LegalMoves:    s.machine.LegalMoves(),
		LegalCaptures: s.machine.LegalCaptures(),
	}
	return scene, render.ComputeLayout(s.surfaceW, s.surfaceH, rows, rows)
}

// JoinQueue asks the server for matchmaking.
func (s *Session) JoinQueue(name string, deck []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(gamesocket.NewJoinQueue(name, deck))
}

// Close detaches from the socket and stops the clock. Idempotent. The
// socket itself is owned by the caller.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.conn.RemoveMessageCallback(s.msgCB)
		s.conn.RemoveStateCallback(s.stateCB)
		s.clk.Stop()
	})
}
