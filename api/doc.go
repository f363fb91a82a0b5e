// Package api provides the HTTP surface of the Seastrike relay server.
//
// Endpoints:
//
//   - GET /checkRoom?roomName=<name> - {"roomExists": bool}, the legacy
//     room-existence probe used by the lobby screen
//   - GET /api/rooms - list occupied rooms with members and phase
//   - GET /api/rooms/{name} - one room's view, 404 when empty
//   - GET /api/health - health check
//   - /ws - WebSocket upgrade into the relay
//
// All endpoints return JSON and carry permissive CORS headers; browser
// clients connect from arbitrary origins. The room endpoints are read-only:
// rooms are created and destroyed exclusively through the WebSocket event
// protocol.
package api
