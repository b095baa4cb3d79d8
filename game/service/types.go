package service

import (
	"time"

	"github.com/wricardo/quoridor/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	Rules          *engine.RuleSet   `json:"rules"`
}

// ActionResult is the outcome of a move or fence request. A rule rejection is a
// normal result with Success false; only lookups and internal failures are errors.
type ActionResult struct {
	Success   bool                 `json:"success"`
	Action    string               `json:"action"` // "move" or "fence"
	Player    engine.PlayerID      `json:"player"`
	Kind      engine.MoveKind      `json:"kind,omitempty"`
	Error     string               `json:"error,omitempty"`
	ErrorCode string               `json:"error_code,omitempty"`
	Message   string               `json:"message"`
	Record    *engine.ActionRecord `json:"record,omitempty"`
	GameState *engine.GameState    `json:"game_state"`
	Events    []GameEvent          `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "fence", "rejected", "victory", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Player    engine.PlayerID `json:"player,omitempty"`
	Position  *engine.Coord   `json:"position,omitempty"`
}

// LegalMovesResponse lists every target a player's pawn can reach this turn
type LegalMovesResponse struct {
	Player       engine.PlayerID `json:"player"`
	Position     engine.Coord    `json:"position"`
	Moves        []engine.Coord  `json:"moves"`
	IsTurn       bool            `json:"is_turn"`
	GoalRow      int             `json:"goal_row"`
	GoalDistance int             `json:"goal_distance"`
}

// FenceLedgerResponse lists the fences a player has placed
type FenceLedgerResponse struct {
	Player          engine.PlayerID       `json:"player"`
	FencesRemaining int                   `json:"fences_remaining"`
	Fences          []engine.FenceSegment `json:"fences"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionRecord `json:"actions"`
	TotalActions int                   `json:"total_actions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a rule set file
type ConfigInfo struct {
	Filename          string `json:"filename"`
	ConfigID          string `json:"config_id"` // The identifier to use for session creation
	Name              string `json:"name"`      // Display name
	Description       string `json:"description"`
	FencesPerPlayer   int    `json:"fences_per_player"`
	EnforcePathToGoal bool   `json:"enforce_path_to_goal"`
}
