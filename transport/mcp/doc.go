// Package mcp exposes the Quoridor REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP requests
// against the API server, and the JSON response is rendered as text, including an
// ASCII drawing of the board.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board, turn, fences remaining and goal distances
//   - move_pawn: move a pawn to a target cell
//   - place_fence: place a vertical or horizontal fence at an anchor cell
//   - legal_moves: every target the engine would accept for a pawn
//   - fence_ledger: fences a player has placed
//   - reset_game, action_history
//   - list_configs, game_instructions, describe_cell
//
// Transport Modes:
//
// The same server can be served over stdio (server.ServeStdio) or mounted behind
// an HTTP endpoint that feeds request bodies to MCPServer.HandleMessage.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
