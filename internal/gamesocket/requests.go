package gamesocket

// Outbound client requests. Every frame carries its discriminating
// type so the constructors are the only place the literals live.

type GetGameStateRequest struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
}

func NewGetGameState(gameID string) GetGameStateRequest {
	return GetGameStateRequest{Type: "get_game_state", GameID: gameID}
}

type MoveRequest struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func NewMove(gameID, from, to string) MoveRequest {
	return MoveRequest{Type: "make_move", GameID: gameID, From: from, To: to}
}

// CardTarget is the card-dependent target payload: a square for board
// targets, a piece position for piece targets, empty otherwise.
type CardTarget struct {
	Square string `json:"square,omitempty"`
	Piece  string `json:"piece,omitempty"`
}

type PlayCardRequest struct {
	Type   string     `json:"type"`
	GameID string     `json:"game_id"`
	CardID string     `json:"card_id"`
	Target CardTarget `json:"target"`
}

func NewPlayCard(gameID, cardID string, target CardTarget) PlayCardRequest {
	return PlayCardRequest{Type: "play_card", GameID: gameID, CardID: cardID, Target: target}
}

type JoinQueueRequest struct {
	Type string   `json:"type"`
	Name string   `json:"name,omitempty"`
	Deck []string `json:"deck,omitempty"`
}

func NewJoinQueue(name string, deck []string) JoinQueueRequest {
	return JoinQueueRequest{Type: "join_queue", Name: name, Deck: deck}
}

type PingRequest struct {
	Type string `json:"type"`
}

func NewPing() PingRequest { return PingRequest{Type: "ping"} }
