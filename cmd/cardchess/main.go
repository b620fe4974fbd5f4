package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costad3atwit/cardchess-client/internal/api"
	appcfg "github.com/costad3atwit/cardchess-client/internal/config"
	"github.com/costad3atwit/cardchess-client/internal/gamesocket"
	"github.com/costad3atwit/cardchess-client/internal/msgcat"
	"github.com/costad3atwit/cardchess-client/internal/obslog"
	"github.com/costad3atwit/cardchess-client/internal/presenter"
	"github.com/costad3atwit/cardchess-client/internal/render"
	"github.com/costad3atwit/cardchess-client/internal/session"
	"github.com/costad3atwit/cardchess-client/internal/state"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	clientID := uuid.NewString()
	obslog.L().Info("client_starting", zap.String("client_id", clientID))

	cat, err := msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	gameID := cfg.GameID
	if cfg.ServerBaseURL != "" {
		rest := api.NewClient(cfg.ServerBaseURL)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if st, err := rest.Status(ctx); err != nil {
			obslog.L().Warn("server_status_unavailable", zap.Error(err))
		} else {
			obslog.L().Info("server_status",
				zap.String("status", st.Status),
				zap.Int("active_games", st.ActiveGames),
				zap.Int("queue_length", st.QueueLength),
			)
		}
		if gameID == "" {
			if sample, err := rest.CreateSampleGame(ctx); err != nil {
				obslog.L().Warn("sample_game_failed", zap.Error(err))
			} else {
				gameID = sample.GameID
				obslog.L().Info("sample_game_created", zap.String("game_id", gameID))
			}
		}
		cancel()
	}

	var cache *state.SnapshotCache
	if cfg.RedisURL != "" {
		cache, err = state.NewSnapshotCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("snapshot cache init error: %v", err)
		}
	}

	renderer := render.NewRenderer()
	pres := presenter.NewPresenter(
		func(text string) error { _, err := fmt.Fprintln(os.Stdout, text); return err },
		frameSink(),
	)
	fmtr := presenter.NewFormatter(cat)

	ws := gamesocket.NewSocket(cfg.ServerWSURL, cfg.ReconnectMaxAttempts, time.Second)
	ws.OnStateChange(func(st gamesocket.State) {
		obslog.L().Info("socket_state", zap.String("state", string(st)))
	})

	var sess *session.Session
	sess = session.New(gameID, ws, cat, cache, cfg.SurfaceWidth, cfg.SurfaceHeight, session.Events{
		OnNotice:   func(text string) { _ = pres.Notice(text) },
		OnGameOver: func(text string) { _ = pres.Notice(text) },
		OnDiscard: func(c gamedto.Card) {
			_ = pres.Notice(cat.MustRender("notice.card_discarded", map[string]any{"Card": c.Name}))
		},
		OnClockTick: func(white, black float64) {
			you := sess.Store().Player(state.Local)
			opp := sess.Store().Player(state.Remote)
			yourClock, oppClock := white, black
			if sess.Store().Flipped() {
				yourClock, oppClock = black, white
			}
			_ = pres.Notice(fmtr.PlayerPanel(opp, oppClock) + "\n" + fmtr.PlayerPanel(you, yourClock))
		},
		OnRefresh: func() {
			scene, layout := sess.Scene()
			frame := renderer.Render(scene, layout, cfg.SurfaceWidth, cfg.SurfaceHeight)

			white, black := sess.Clock().Remaining()
			you := sess.Store().Player(state.Local)
			opp := sess.Store().Player(state.Remote)
			yourClock, oppClock := white, black
			if sess.Store().Flipped() {
				yourClock, oppClock = black, white
			}
			header := strings.Join([]string{
				fmtr.TurnIndicator(sess.Store().YourTurn()),
				fmtr.PlayerPanel(opp, oppClock),
				fmtr.PlayerPanel(you, yourClock),
				fmtr.HandLine(sess.Store().Hand()),
			}, "\n")
			_ = pres.Board(header, frame)
		},
	})
	defer sess.Close()

	resumeCtx, cancelResume := context.WithTimeout(context.Background(), 5*time.Second)
	sess.Resume(resumeCtx)
	cancelResume()

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()

	if gameID == "" {
		sess.JoinQueue(cfg.PlayerName, nil)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = ws.Close(context.Background())
	if cache != nil {
		_ = cache.Close()
	}
	_ = obslog.L().Sync()
}

// frameSink writes frames to FRAME_OUTPUT as PNG when set; otherwise
// frames are dropped and only the text surface is used.
func frameSink() func(*image.RGBA) error {
	path := strings.TrimSpace(os.Getenv("FRAME_OUTPUT"))
	if path == "" {
		return nil
	}
	return func(frame *image.RGBA) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return png.Encode(f, frame)
	}
}
