// Package service implements the relay at the heart of the Seastrike
// server: pairing connections into rooms, running the readiness handshake,
// and forwarding game actions between the two peers.
//
// The service trusts its clients. It never evaluates game rules, never
// validates attack payloads, and never checks that an action matches the
// room's phase; cells and outcomes are forwarded exactly as received. The
// readiness handshake likewise trusts the opponentGameState each client
// echoes back: the first peer to signal readiness is parked in "waiting",
// and the second peer, seeing "waiting", advances both to "active".
//
// Refused operations (create of an occupied room, join of a missing or full
// room) are logged and otherwise silent, matching what deployed clients
// expect. Options.SurfaceRejections turns on an explicit room-error event
// for clients that can handle it.
//
// Event handling is serialized by a single mutex, so every
// leave/join/broadcast sequence completes before the next event observes
// membership. No handler blocks on anything but the transport itself.
package service
