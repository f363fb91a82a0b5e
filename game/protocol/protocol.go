package protocol

import "encoding/json"

// Event names exchanged with clients. Client-to-server events carry requests;
// server-to-client events carry state deltas or forwarded actions.
const (
	EventClientUpdate = "client-update"
	EventCreateRoom   = "create-room"
	EventJoinRoom     = "join-room"
	EventStartGame    = "start-game"
	EventReady        = "ready"
	EventAttackCell   = "attack-cell"
	EventAttackResult = "attack-result"
	EventGameOver     = "game-over"
	EventOpponentLeft = "opponent-left"
	EventRoomError    = "room-error"
)

// Game-state strings clients track for themselves and their opponent.
const (
	StateInactive  = "inactive"
	StatePlacement = "placement"
	StateWaiting   = "waiting"
	StateActive    = "active"
)

// Envelope is the JSON frame carried over the WebSocket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ClientUpdate is a partial state object. Clients merge the non-empty fields
// into their local state, so every field is optional on the wire.
type ClientUpdate struct {
	ClientID          string   `json:"clientId,omitempty"`
	GameState         string   `json:"gameState,omitempty"`
	RoomName          string   `json:"roomName,omitempty"`
	Opponent          string   `json:"opponent,omitempty"`
	OpponentGameState string   `json:"opponentGameState,omitempty"`
	ClientIsHost      *bool    `json:"clientIsHost,omitempty"`
	Players           []string `json:"players,omitempty"`
	Turn              string   `json:"turn,omitempty"`
}

// Bool returns a pointer suitable for ClientUpdate.ClientIsHost, which must
// distinguish "false" from "not included in this delta".
func Bool(b bool) *bool {
	return &b
}

// StartGameRequest asks the server to notify the opponent that the host
// started the game.
type StartGameRequest struct {
	RoomName string `json:"roomName"`
	Opponent string `json:"opponent"`
}

// ReadyRequest signals that the sender finished ship placement.
// OpponentGameState echoes what the sender currently believes about its peer.
type ReadyRequest struct {
	Opponent          string `json:"opponent"`
	OpponentGameState string `json:"opponentGameState"`
}

// AttackCellRequest asks the server to forward an attack to the opponent.
// Cell is kept raw so it is relayed exactly as the client sent it.
type AttackCellRequest struct {
	Opponent string          `json:"opponent"`
	Cell     json.RawMessage `json:"cell"`
}

// AttackResultRequest reports the outcome of an attack back to the attacker.
type AttackResultRequest struct {
	Opponent string          `json:"opponent"`
	Cell     json.RawMessage `json:"cell"`
	Outcome  json.RawMessage `json:"outcome"`
	RoomName string          `json:"roomName"`
}

// AttackResult is the payload forwarded to the attacker.
type AttackResult struct {
	Cell    json.RawMessage `json:"cell"`
	Outcome json.RawMessage `json:"outcome"`
}

// GameOverRequest asks the server to notify the opponent that the game ended.
type GameOverRequest struct {
	Opponent string `json:"opponent"`
	RoomName string `json:"roomName"`
}

// RoomError is sent on a refused create/join, but only when the server is
// configured to surface rejections. Legacy clients never receive it.
type RoomError struct {
	Op       string `json:"op"`
	RoomName string `json:"roomName"`
	Reason   string `json:"reason"`
}
