package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/harborgames/seastrike/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Seastrike Relay Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Seastrike relay server - MCP interface

This is a read-only inspection surface over a running relay server. The
server pairs two WebSocket clients into a room and forwards their battleship
moves; it holds no board state, only room membership and phase.

AVAILABLE TOOLS:
- check_room: Does a named room currently exist (have members)?
- list_rooms: List occupied rooms with members and phase
- server_status: Health of the REST API`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_room",
		Description: "Check whether a room currently exists (has at least one member)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the room to check",
				},
			},
			Required: []string{"room_name"},
		},
	}, c.handleCheckRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List every occupied room with its members and phase",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_status",
		Description: "Report whether the relay server's REST API is healthy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStatus)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs an HTTP request against the REST API
func (c *Client) apiCall(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) handleCheckRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomName, _ := args["room_name"].(string)
	if roomName == "" {
		return mcp.NewToolResultError("room_name is required"), nil
	}

	var response struct {
		RoomExists bool `json:"roomExists"`
	}
	// Room names are free-form, so they must be escaped into the query
	if err := c.apiCall("/checkRoom?roomName="+url.QueryEscape(roomName), &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.RoomExists {
		return mcp.NewToolResultText(fmt.Sprintf("Room %q exists.", roomName)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Room %q does not exist.", roomName)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Rooms []service.RoomInfo `json:"rooms"`
	}
	if err := c.apiCall("/api/rooms", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Occupied rooms (%d):\n\n", response.Count)
	for _, room := range response.Rooms {
		fmt.Fprintf(&b, "- %s (phase: %s, members: %s)\n",
			room.Name, room.Phase, strings.Join(room.Members, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleServerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.apiCall("/api/health", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Server status: %s", response.Status)), nil
}
