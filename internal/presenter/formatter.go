package presenter

import (
	"fmt"
	"strings"

	"github.com/costad3atwit/cardchess-client/internal/clock"
	"github.com/costad3atwit/cardchess-client/internal/msgcat"
	"github.com/costad3atwit/cardchess-client/internal/state"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

const capturedRecentLimit = 5

// Formatter renders store state into the text blocks around the board:
// player panels, the turn indicator and capture summaries.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

// PlayerPanel is one player's line: name, hand and deck counts, clock.
func (f *Formatter) PlayerPanel(p state.Player, remaining float64) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "?"
	}
	line := f.cat.MustRender("panel.player", map[string]any{
		"Name": name,
		"Hand": p.HandSize,
		"Deck": p.DeckSize,
	})
	return line + " · " + clock.Format(remaining)
}

// TurnIndicator is the one-liner above the board.
func (f *Formatter) TurnIndicator(yourTurn bool) string {
	if yourTurn {
		return f.cat.MustRender("game.turn_you", nil)
	}
	return f.cat.MustRender("game.turn_opponent", nil)
}

// Captured summarizes a capture list, most recent last, truncated.
func (f *Formatter) Captured(pieces []string) string {
	if len(pieces) == 0 {
		return ""
	}
	shown := pieces
	overflow := 0
	if len(shown) > capturedRecentLimit {
		overflow = len(shown) - capturedRecentLimit
		shown = shown[len(shown)-capturedRecentLimit:]
	}
	text := strings.Join(shown, " ")
	if overflow > 0 {
		text = fmt.Sprintf("+%d %s", overflow, text)
	}
	return f.cat.MustRender("panel.captured", map[string]any{"Pieces": text})
}

// HandLine lists the local hand as numbered card names for surfaces
// without card artwork.
func (f *Formatter) HandLine(hand []gamedto.Card) string {
	if len(hand) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, c := range hand {
		if i > 0 {
			sb.WriteString("  ")
		}
		name := c.Name
		if strings.TrimSpace(name) == "" {
			name = c.ID
		}
		fmt.Fprintf(&sb, "[%d] %s", i+1, name)
	}
	return sb.String()
}
