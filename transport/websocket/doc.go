// Package websocket pushes live Quoridor state to browsers and other watchers.
//
// A Hub keeps the connected clients grouped by session ID. After every accepted
// move, fence or reset the HTTP API calls BroadcastToSession and each client watching
// that session receives a JSON Message:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Clients connect with GET /ws?session=<id>. They only listen; anything they send is
// read and discarded to keep the ping/pong deadline alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//
// Concurrency:
//
// Only the Run goroutine changes the client set. Broadcasts are queued on a buffered
// channel and never block the caller; when the queue is full the message is dropped
// and logged. A client whose own send buffer is full is disconnected.
package websocket
