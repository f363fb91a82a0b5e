package service

import "encoding/json"

// Emitter pushes a named, payloaded event to a single connection (via its
// private channel) or to every connection in a room. Implemented by the
// websocket hub.
type Emitter interface {
	Emit(target, event string, data any)
}

// RelayService pairs connections into rooms and relays game actions between
// the two peers. It also implements the transport's Handler contract.
type RelayService interface {
	HandleConnect(connID string)
	HandleEvent(connID, event string, data json.RawMessage)
	HandleDisconnecting(connID string)
	HandleDisconnect(connID string)

	RoomExists(room string) bool
	ListRooms() []*RoomInfo
	GetRoom(room string) (*RoomInfo, error)
}

// RoomInfo is the observational view of a room exposed over REST and MCP.
type RoomInfo struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Phase   string   `json:"phase"`
}

// Options tune relay behavior.
type Options struct {
	// SurfaceRejections makes refused create/join requests emit a room-error
	// event to the caller. Off by default: legacy clients infer failure from
	// the absence of a client-update.
	SurfaceRejections bool
}
