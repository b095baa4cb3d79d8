package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/quoridor/api"
	"github.com/wricardo/quoridor/game/config"
	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
	"github.com/wricardo/quoridor/game/session"
)

// newLiveClient wires a client to a real API server backed by the repo's configs
func newLiveClient(t *testing.T) *Client {
	t.Helper()

	configMgr, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("failed to create config manager: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(), configMgr)

	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)

	return NewClient(server.URL)
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func createLiveSession(t *testing.T, client *Client) string {
	t.Helper()

	var info service.SessionInfo
	if err := client.apiCall(context.Background(), http.MethodPost, "/api/sessions", map[string]string{}, &info); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return info.ID
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"echo": body["player"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result map[string]interface{}
	err := client.apiCall(context.Background(), http.MethodPost, "/test", map[string]int{"player": 2}, &result)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if result["echo"] != float64(2) {
		t.Errorf("Expected echo 2, got %v", result["echo"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"error message", http.StatusNotFound, `{"error":"session abcd: session not found"}`, "session not found"},
		{"bare status", http.StatusInternalServerError, `oops`, "API error: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.apiCall(context.Background(), http.MethodGet, "/x", nil, nil)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected %q in error, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_apiCall_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	if err := client.apiCall(context.Background(), http.MethodGet, "/api/sessions", nil, nil); err == nil {
		t.Error("Expected error for unreachable server")
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["config_id"] != "blitz" {
			t.Errorf("Expected config_id blitz, got %q", body["config_id"])
		}

		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "blitz",
			GameState:  engine.InitGameState(nil),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callTool(map[string]interface{}{
		"config_id": "blitz",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "Config: blitz") {
		t.Errorf("Expected config name in result, got: %s", text)
	}
}

func TestClient_MissingSessionID(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	ctx := context.Background()

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_session":    client.handleGetSession,
		"game_state":     client.handleGameState,
		"move_pawn":      client.handleMovePawn,
		"place_fence":    client.handlePlaceFence,
		"legal_moves":    client.handleLegalMoves,
		"fence_ledger":   client.handleFenceLedger,
		"reset_game":     client.handleReset,
		"action_history": client.handleActionHistory,
		"describe_cell":  client.handleDescribeCell,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(ctx, callTool(map[string]interface{}{}))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if !result.IsError {
				t.Error("Expected tool error for missing session_id")
			}
			if text := resultText(t, result); !strings.Contains(text, "session_id") {
				t.Errorf("Expected session_id in error, got: %s", text)
			}
		})
	}
}

func TestClient_PlayThroughLiveAPI(t *testing.T) {
	client := newLiveClient(t)
	ctx := context.Background()
	sessionID := createLiveSession(t, client)

	t.Run("legal moves for player on turn", func(t *testing.T) {
		result, _ := client.handleLegalMoves(ctx, callTool(map[string]interface{}{"session_id": sessionID}))
		text := resultText(t, result)
		for _, want := range []string{"P1 at (4,0)", "(3,0)", "(5,0)", "(4,1)"} {
			if !strings.Contains(text, want) {
				t.Errorf("Expected %q in legal moves, got: %s", want, text)
			}
		}
	})

	t.Run("accepted move", func(t *testing.T) {
		result, _ := client.handleMovePawn(ctx, callTool(map[string]interface{}{
			"session_id": sessionID,
			"player":     1,
			"col":        4,
			"row":        1,
		}))
		text := resultText(t, result)
		if result.IsError {
			t.Fatalf("Unexpected tool error: %s", text)
		}
		if !strings.Contains(text, "P1 move accepted (SIMPLE)") {
			t.Errorf("Expected accepted simple move, got: %s", text)
		}
		if !strings.Contains(text, "Turn: P2") {
			t.Errorf("Expected turn to pass to P2, got: %s", text)
		}
	})

	t.Run("rejected move out of turn", func(t *testing.T) {
		result, _ := client.handleMovePawn(ctx, callTool(map[string]interface{}{
			"session_id": sessionID,
			"player":     1,
			"col":        4,
			"row":        2,
		}))
		text := resultText(t, result)
		if !strings.Contains(text, "rejected [not_your_turn]") {
			t.Errorf("Expected not_your_turn rejection, got: %s", text)
		}
	})

	t.Run("fence placement", func(t *testing.T) {
		result, _ := client.handlePlaceFence(ctx, callTool(map[string]interface{}{
			"session_id":  sessionID,
			"player":      2,
			"orientation": "h",
			"col":         2,
			"row":         5,
		}))
		text := resultText(t, result)
		if !strings.Contains(text, "P2 fence accepted") {
			t.Errorf("Expected accepted fence, got: %s", text)
		}
		if !strings.Contains(text, "   +   +   +---+   +   +   +   +   +   +") {
			t.Errorf("Expected fence drawn above (2,5), got:\n%s", text)
		}
	})

	t.Run("invalid orientation", func(t *testing.T) {
		result, _ := client.handlePlaceFence(ctx, callTool(map[string]interface{}{
			"session_id":  sessionID,
			"player":      1,
			"orientation": "diagonal",
			"col":         2,
			"row":         5,
		}))
		if !result.IsError {
			t.Errorf("Expected tool error for bad orientation, got: %s", resultText(t, result))
		}
	})

	t.Run("fence ledger", func(t *testing.T) {
		result, _ := client.handleFenceLedger(ctx, callTool(map[string]interface{}{
			"session_id": sessionID,
			"player":     2,
		}))
		text := resultText(t, result)
		if !strings.Contains(text, "P2 fences: 1 placed, 9 remaining") {
			t.Errorf("Unexpected ledger: %s", text)
		}
		if !strings.Contains(text, "horizontal at (2,5)") {
			t.Errorf("Expected fence segment in ledger, got: %s", text)
		}
	})

	t.Run("describe fenced cell", func(t *testing.T) {
		result, _ := client.handleDescribeCell(ctx, callTool(map[string]interface{}{
			"session_id": sessionID,
			"col":        2,
			"row":        5,
		}))
		text := resultText(t, result)
		if !strings.Contains(text, "Fenced edges: north") {
			t.Errorf("Expected north edge fenced, got: %s", text)
		}
		if !strings.Contains(text, "Occupant: empty") {
			t.Errorf("Expected empty cell, got: %s", text)
		}
	})

	t.Run("describe out of bounds", func(t *testing.T) {
		result, _ := client.handleDescribeCell(ctx, callTool(map[string]interface{}{
			"session_id": sessionID,
			"col":        9,
			"row":        0,
		}))
		if !result.IsError {
			t.Error("Expected tool error for off-board cell")
		}
	})

	t.Run("history", func(t *testing.T) {
		result, _ := client.handleActionHistory(ctx, callTool(map[string]interface{}{
			"session_id": sessionID,
			"order":      "asc",
		}))
		text := resultText(t, result)
		if !strings.Contains(text, "Total: 2") {
			t.Errorf("Expected two actions, got: %s", text)
		}
		if !strings.Contains(text, "1. P1 move (4,0) -> (4,1) [SIMPLE]") {
			t.Errorf("Expected first move listed first, got: %s", text)
		}
		if !strings.Contains(text, "2. P2 fence horizontal at (2,5)") {
			t.Errorf("Expected fence listed second, got: %s", text)
		}
	})

	t.Run("reset", func(t *testing.T) {
		result, _ := client.handleReset(ctx, callTool(map[string]interface{}{"session_id": sessionID}))
		text := resultText(t, result)
		if !strings.Contains(text, "Game reset successfully") {
			t.Errorf("Expected reset message, got: %s", text)
		}
		if !strings.Contains(text, "P1 at (4,0)") {
			t.Errorf("Expected pawn back home, got: %s", text)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		result, _ := client.handleGameState(ctx, callTool(map[string]interface{}{"session_id": "nope"}))
		if !result.IsError {
			t.Error("Expected tool error for unknown session")
		}
	})
}

func TestClient_SessionsAndConfigs(t *testing.T) {
	client := newLiveClient(t)
	ctx := context.Background()
	sessionID := createLiveSession(t, client)

	result, _ := client.handleListSessions(ctx, callTool(nil))
	if text := resultText(t, result); !strings.Contains(text, sessionID) {
		t.Errorf("Expected session %s in list, got: %s", sessionID, text)
	}

	result, _ = client.handleGetSession(ctx, callTool(map[string]interface{}{"session_id": sessionID}))
	if text := resultText(t, result); !strings.Contains(text, "Session: "+sessionID) {
		t.Errorf("Expected session details, got: %s", text)
	}

	result, _ = client.handleListConfigs(ctx, callTool(nil))
	text := resultText(t, result)
	for _, want := range []string{"config_id: classic", "config_id: standard", "config_id: blitz"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in configs, got: %s", want, text)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Quoridor",
		"(4,0)",
		"COMPLICATED",
		"DIAGONAL",
		"west edge",
		"north edge",
		"not_your_turn",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}
