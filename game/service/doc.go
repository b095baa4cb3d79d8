// Package service provides the business logic layer between the transports and
// the Quoridor engine.
//
// The service package implements:
//   - Multi-session game management
//   - Rule set selection per session
//   - Pawn moves and fence placements with per-session locking
//   - Paginated action history
//
// Core Interfaces:
//
// GameService is the main service interface used by the HTTP API and the MCP tools.
// SessionManager stores sessions. ConfigManager loads rule sets.
//
// Rule rejections (illegal move, not your turn, duplicate fence, ...) come back as an
// ActionResult with Success false and a machine-friendly ErrorCode. Only lookup and
// infrastructure failures are returned as errors.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "standard")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.MovePawn(ctx, info.ID, engine.PlayerOne, engine.Coord{Col: 4, Row: 1})
//
// Concurrency:
//
// Every action holds the session's mutex from validation through mutation, so two
// requests against the same session never interleave. Returned game states are deep
// copies and may be encoded after the lock is released.
package service
