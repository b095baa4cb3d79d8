// Package engine provides the core rules engine for Quoridor.
//
// The engine package implements the game mechanics including:
//   - A directly indexed 9x9 board with per-edge fence flags
//   - Pawn move validation (simple, diagonal and straight jump moves)
//   - Fence placement validation and the per-player fence ledger
//   - Turn management and win detection
//   - Rule set loading and validation
//
// Core Types:
//
// Game is the controller that owns one Board and two Players and implements the
// Engine interface. GameState is the serializable snapshot of a game, while RuleSet
// describes the configurable parts of the rules (fence budget, path-to-goal check).
//
// Usage:
//
//	game := engine.NewGame()
//
//	if err := game.MovePawn(engine.PlayerOne, engine.Coord{Col: 4, Row: 1}); err != nil {
//		log.Println(err)
//	}
//
//	err := game.PlaceFence(engine.PlayerTwo, engine.Vertical, engine.Coord{Col: 1, Row: 1})
//	if errors.Is(err, engine.ErrIllegalFence) {
//		// rejected, nothing changed
//	}
//
// Game Rules:
//
// Player 1 starts at (4,0) and races to row 8; player 2 starts at (4,8) and races to
// row 0. On each turn a player either moves their pawn or places a fence. A failed
// action never changes the board and never passes the turn. The first player to reach
// their goal row wins and the game rejects every further action.
//
// A Game is not safe for concurrent use. Hosts serving several clients must hold one
// lock per game across a whole action.
package engine
