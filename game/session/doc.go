// Package session provides room membership and phase tracking for the
// Seastrike relay server.
//
// The session package implements:
//   - Directory: room resolution over the transport's live channel
//     membership, enforcing the two-party capacity invariant
//   - PhaseRegistry: per-room phase and readiness bookkeeping for the
//     observational surfaces
//
// Room Model:
//
// A room exists exactly when at least one connection occupies its channel.
// There is no persisted room record: creating a room claims an empty
// channel, and the room vanishes the moment its last member leaves or
// disconnects. The directory never caches membership; every query goes to
// the transport, so there is a single source of truth.
//
// Capacity:
//
// A room holds at most two members. Create succeeds only into an empty
// room, join only into a room with exactly one member (the host). A third
// join attempt is refused without side effects. Each connection occupies at
// most one game room; joining a new room leaves the previous one first.
//
// Phases:
//
// A room moves through forming, placement, ready-negotiation, active, and
// finished. The registry records this for the REST and MCP surfaces only;
// the relay never gates an action event on phase.
package session
