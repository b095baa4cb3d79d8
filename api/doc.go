// Package api provides the REST API for the Quoridor server.
//
// All game endpoints go through service.GameService; the package holds no game
// state of its own.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions              Create a session, body {"config_id": "standard"}
//   - GET    /api/sessions              List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}         Session info with the current state
//   - DELETE /api/sessions/{id}         Delete a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state           Current game state
//   - POST /api/sessions/{id}/move            Move a pawn, body {"player": 1, "col": 4, "row": 1}
//   - POST /api/sessions/{id}/fence           Place a fence, body {"player": 1, "orientation": "v", "col": 3, "row": 2}
//   - POST /api/sessions/{id}/reset           Start the game over
//   - GET  /api/sessions/{id}/history         Accepted actions (?page=1&limit=20&order=desc)
//   - GET  /api/sessions/{id}/legal-moves     Pawn targets (?player=1, defaults to the player on turn)
//   - GET  /api/sessions/{id}/fences/{player} A player's fence ledger
//
// Configuration:
//   - GET  /api/configs          List rule set files
//   - POST /api/configs          Save a rule set
//   - GET  /api/configs/{name}   Load a rule set
//
// Other:
//   - GET /health
//   - GET /ws?session={id}  WebSocket feed of state updates for one session
//
// Response Format:
//
// Move and fence requests always answer 200 with a service.ActionResult once the
// session is found. A rule rejection has "success": false and an "error_code" such as
// "not_your_turn", "illegal_move", "duplicate_fence" or "path_blocked". Transport
// errors use the usual status codes with {"error": "..."}: 400 for malformed input,
// 404 for unknown sessions or configs, 500 otherwise.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
