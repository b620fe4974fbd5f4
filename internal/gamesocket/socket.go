// Package gamesocket is the connection collaborator: a websocket
// transport that delivers server envelopes in order and carries the
// client's requests back. Reconnect policy lives here, not in the
// game session.
package gamesocket

import (
	"context"
	"encoding/json"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateFailed       State = "failed"
)

type MessageCallback func(raw json.RawMessage)

type StateCallback func(state State)

// Conn is what the session consumes; *Socket is the production
// implementation and tests substitute their own.
type Conn interface {
	Connect(ctx context.Context) error
	Send(ctx context.Context, v any) error
	OnMessage(cb MessageCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}
