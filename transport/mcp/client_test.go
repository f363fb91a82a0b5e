package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestCheckRoomTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkRoom" {
			http.NotFound(w, r)
			return
		}
		exists := r.URL.Query().Get("roomName") == "lobby1"
		json.NewEncoder(w).Encode(map[string]bool{"roomExists": exists})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"room_name": "lobby1"}

	result, err := client.handleCheckRoom(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCheckRoom returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error result: %+v", result)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "exists") {
		t.Errorf("Unexpected tool output: %s", text)
	}
}

func TestCheckRoomToolEscapesRoomName(t *testing.T) {
	const roomName = "my room&x=1#frag"

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("roomName")
		json.NewEncoder(w).Encode(map[string]bool{"roomExists": true})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"room_name": roomName}

	result, err := client.handleCheckRoom(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCheckRoom returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error result: %+v", result)
	}
	if got != roomName {
		t.Errorf("Room name mangled in transit: got %q, want %q", got, roomName)
	}
}

func TestCheckRoomToolMissingArgument(t *testing.T) {
	client := NewClient("http://localhost:0")

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := client.handleCheckRoom(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCheckRoom returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for missing room_name")
	}
}

func TestListRoomsTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"rooms": []map[string]interface{}{
				{"name": "lobby1", "members": []string{"a", "b"}, "phase": "active"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleListRooms(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListRooms returned error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "lobby1") || !strings.Contains(text, "active") {
		t.Errorf("Unexpected tool output: %s", text)
	}
}

func TestServerStatusToolAPIDown(t *testing.T) {
	// Nothing is listening here
	client := NewClient("http://127.0.0.1:1")

	result, err := client.handleServerStatus(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleServerStatus returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result when the API is unreachable")
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Tool result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("Tool result content is %T", result.Content[0])
	}
	return text.Text
}
