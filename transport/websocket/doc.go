// Package websocket provides the WebSocket transport for the Seastrike
// relay server.
//
// The websocket package implements:
//   - Persistent bidirectional event channels per client
//   - Connection identity (one uuid per connection)
//   - Named channels grouping connections, including a private channel
//     per connection named after its own id
//   - Live channel-membership queries
//   - Connection lifecycle callbacks
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines for reading and writing.
//
// Message Protocol:
//
// Frames are JSON envelopes in both directions:
//   - Incoming: {"event": "create-room", "data": "lobby1"}
//   - Outgoing: {"event": "client-update", "data": {...}}
//
// Channel Semantics:
//
// Every connection joins a channel named after its own id on arrival, so
// Emit works uniformly for one connection (its private channel) and for a
// room (the channel both peers joined). The hub is the only owner of
// membership state; callers query it live rather than keeping copies.
//
// Disconnect Lifecycle:
//
// 1. Client socket closes
// 2. HandleDisconnecting fires while membership is still queryable
// 3. The connection is removed from every channel
// 4. HandleDisconnect fires after removal is complete
package websocket
