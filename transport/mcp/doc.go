// Package mcp exposes a read-only MCP inspection surface over a running
// relay server.
//
// The package follows a thin-client design: every MCP tool call is proxied
// to the REST API over HTTP, so the MCP surface never touches relay state
// directly and can point at any reachable server.
//
// Tools:
//   - check_room: does a named room currently exist?
//   - list_rooms: occupied rooms with members and phase
//   - server_status: REST API health
package mcp
