package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/quoridor/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels should be initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "Test-Session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered under the lower-cased session ID")
	}
	if hub.ClientCount("TEST-SESSION") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("TEST-SESSION"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister must not panic on the closed channel
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)
	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	watcher := newTestClient(hub, "game1")
	other := newTestClient(hub, "game2")
	hub.registerClient(watcher)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		SessionID: "GAME1",
		Event:     "state_update",
		GameState: engine.InitGameState(nil),
	})

	select {
	case data := <-watcher.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != "state_update" {
			t.Errorf("Expected event 'state_update', got %s", message.Event)
		}
		if message.GameState == nil || message.GameState.Turn != engine.PlayerOne {
			t.Error("GameState not correctly transmitted")
		}
	default:
		t.Error("Watcher should have received the message")
	}

	select {
	case <-other.send:
		t.Error("Clients of other sessions should not receive the message")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "state_update"})

	if hub.ClientCount("slow") != 0 {
		t.Error("Client with a full buffer should be dropped")
	}
}

func TestHubBroadcastQueues(t *testing.T) {
	hub := NewHub()

	hub.BroadcastToSession("q1", engine.InitGameState(nil))
	hub.BroadcastEvent("q1", "reset", "test-data")

	first := <-hub.broadcast
	if first.Event != "state_update" || first.GameState == nil {
		t.Errorf("Expected queued state_update, got %+v", first)
	}
	second := <-hub.broadcast
	if second.Event != "reset" || second.Data != "test-data" {
		t.Errorf("Expected queued reset event, got %+v", second)
	}
}

func TestHubBroadcastDoesNotBlockWhenFull(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastEvent("full", "tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked without a running hub")
	}
}

func newWSServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	server := newWSServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	if !waitFor(t, func() bool { return hub.ClientCount("ws-test") == 1 }) {
		t.Fatalf("Expected 1 client in session, got %d", hub.ClientCount("ws-test"))
	}

	conn.Close()

	if !waitFor(t, func() bool { return hub.ClientCount("ws-test") == 0 }) {
		t.Error("Session should have been cleaned up after WebSocket close")
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	server := newWSServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	if !waitFor(t, func() bool { return hub.ClientCount("msg-test") == 1 }) {
		t.Fatal("Client never registered")
	}

	game := engine.NewGame()
	if err := game.MovePawn(engine.PlayerOne, engine.Coord{Col: 4, Row: 1}); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	hub.BroadcastToSession("msg-test", game.GetState())

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.GameState == nil {
		t.Fatal("Expected a game state")
	}
	if got := message.GameState.Players[0].Position; got != (engine.Coord{Col: 4, Row: 1}) {
		t.Errorf("Expected player one at (4,1), got %v", got)
	}
	if message.GameState.Turn != engine.PlayerTwo {
		t.Errorf("Expected player two to move, got %v", message.GameState.Turn)
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newTestClient(hub, "bye")
	hub.register <- client
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-client.send; ok {
		t.Error("Client channels should be closed on shutdown")
	}
	if hub.ClientCount("bye") != 0 {
		t.Error("Hub should be empty after shutdown")
	}
}
