package session

import "sync"

// Phase is the coarse progress marker of a room.
type Phase int

const (
	PhaseForming Phase = iota
	PhasePlacement
	PhaseReadyNegotiation
	PhaseActive
	PhaseFinished
)

// String returns the phase name used in API responses and logs.
func (p Phase) String() string {
	switch p {
	case PhaseForming:
		return "forming"
	case PhasePlacement:
		return "placement"
	case PhaseReadyNegotiation:
		return "ready-negotiation"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Readiness tracks one member's progress through the placement-done
// handshake.
type Readiness int

const (
	ReadinessUnset Readiness = iota
	ReadinessWaiting
	ReadinessActive
)

type roomState struct {
	phase Phase
	ready map[string]Readiness
}

// PhaseRegistry records per-room phase and per-member readiness for the
// observational surfaces (REST listing, MCP tools, logs). Relay behavior
// never consults it: action events are forwarded without phase checks, and
// room existence is always derived from live membership. Entries are dropped
// on the leave/disconnect path once the room empties.
type PhaseRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*roomState
}

// NewPhaseRegistry creates an empty registry.
func NewPhaseRegistry() *PhaseRegistry {
	return &PhaseRegistry{
		rooms: make(map[string]*roomState),
	}
}

// SetPhase records the room's phase, creating the entry if needed.
func (r *PhaseRegistry) SetPhase(room string, phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[room]
	if !ok {
		state = &roomState{ready: make(map[string]Readiness)}
		r.rooms[room] = state
	}
	state.phase = phase
}

// PhaseOf returns the room's recorded phase.
func (r *PhaseRegistry) PhaseOf(room string) (Phase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[room]
	if !ok {
		return PhaseForming, false
	}
	return state.phase, true
}

// SetReadiness records one member's handshake progress.
func (r *PhaseRegistry) SetReadiness(room, connID string, readiness Readiness) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[room]
	if !ok {
		state = &roomState{ready: make(map[string]Readiness)}
		r.rooms[room] = state
	}
	state.ready[connID] = readiness
}

// ReadinessOf returns a member's handshake progress.
func (r *PhaseRegistry) ReadinessOf(room, connID string) Readiness {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if state, ok := r.rooms[room]; ok {
		return state.ready[connID]
	}
	return ReadinessUnset
}

// Drop forgets a room.
func (r *PhaseRegistry) Drop(room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, room)
}

// Rooms returns every tracked room name.
func (r *PhaseRegistry) Rooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	return names
}

// Count returns the number of tracked rooms.
func (r *PhaseRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
