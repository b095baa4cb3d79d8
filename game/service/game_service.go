package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/quoridor/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	MovePawn(ctx context.Context, sessionID string, player engine.PlayerID, target engine.Coord) (*ActionResult, error)
	PlaceFence(ctx context.Context, sessionID string, player engine.PlayerID, orientation engine.Orientation, anchor engine.Coord) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetLegalMoves(ctx context.Context, sessionID string, player engine.PlayerID) (*LegalMovesResponse, error)
	GetFenceLedger(ctx context.Context, sessionID string, player engine.PlayerID) (*FenceLedgerResponse, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.RuleSet, error)
	SaveConfig(ctx context.Context, configName string, rules *engine.RuleSet) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, rules *engine.RuleSet) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, rules *engine.RuleSet) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles rule set loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.RuleSet, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.RuleSet
	SaveConfig(name string, rules *engine.RuleSet) error
}

// Session represents an active game. Hold the session lock across any
// validate-then-mutate sequence on Engine.
type Session struct {
	ID             string
	Engine         *engine.Game
	Rules          *engine.RuleSet
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock serializes actions on the session's game
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock
func (s *Session) Unlock() { s.mu.Unlock() }
