package gamesocket

import (
	"encoding/json"
	"fmt"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

// Server message types. The union is closed: anything else is rejected
// at this boundary instead of leaking ad-hoc field access downstream.
const (
	TypeGameState   = "game_state"
	TypeGameStarted = "game_started"
	TypeGameUpdate  = "game_update"
	TypeGameOver    = "game_over"
	TypeError       = "error"
	TypeQueueJoined = "queue_joined"
	TypePong        = "pong"
)

// ErrUnknownMessage marks an envelope type outside the closed union.
type ErrUnknownMessage struct {
	Type string
}

func (e *ErrUnknownMessage) Error() string {
	return fmt.Sprintf("unknown server message type %q", e.Type)
}

type GameStateMsg struct {
	View gamedto.ServerView `json:"game_state"`
}

// GameStartedMsg is delivered once when matchmaking completes; its
// payload is a full snapshot, same as game_state.
type GameStartedMsg struct {
	View gamedto.ServerView `json:"game_state"`
}

type GameUpdateMsg struct {
	Action     string             `json:"action"`
	View       gamedto.ServerView `json:"game_state"`
	CardPlayed *gamedto.Card      `json:"card_played,omitempty"`
}

type GameOverMsg struct {
	Reason string         `json:"reason"`
	Winner *gamedto.Color `json:"winner"` // nil means draw
}

type ErrorMsg struct {
	Message string `json:"message"`
}

type QueueJoinedMsg struct {
	Position int `json:"position,omitempty"`
}

type PongMsg struct{}

// Decode turns one raw server frame into exactly one typed message.
func Decode(raw json.RawMessage) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch head.Type {
	case TypeGameState:
		var m GameStateMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &m, nil
	case TypeGameStarted:
		var m GameStartedMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &m, nil
	case TypeGameUpdate:
		var m GameUpdateMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &m, nil
	case TypeGameOver:
		var m GameOverMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &m, nil
	case TypeError:
		var m ErrorMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &m, nil
	case TypeQueueJoined:
		var m QueueJoinedMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &m, nil
	case TypePong:
		return &PongMsg{}, nil
	default:
		return nil, &ErrUnknownMessage{Type: head.Type}
	}
}
