package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/quoridor/game/engine"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ErrConfigUnavailable is returned when a session is requested with a rule set
// that cannot be loaded
var ErrConfigUnavailable = errors.New("config not available")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a rule set name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(rulesName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == rulesName {
				return cfg.ConfigID
			}
		}
	}
	if rulesName == "" {
		return "default"
	}
	return rulesName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var rules *engine.RuleSet
	var err error
	if configName != "" {
		rules, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("%w: '%s' (%v). Available configs: %v", ErrConfigUnavailable, configName, err, configIDs)
			}
			return nil, fmt.Errorf("%w: '%s' (%v). Use /api/configs to list available configurations", ErrConfigUnavailable, configName, err)
		}
	} else {
		rules = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(rules.Name)
	}

	log.WithFields(log.Fields{"session": sess.ID, "config": configID}).Info("session created")

	sess.Lock()
	defer sess.Unlock()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      s.snapshot(sess),
		Rules:          sess.Rules,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.sessionInfo(sess))
		sess.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// MovePawn asks the engine to move player's pawn to target
func (s *gameServiceImpl) MovePawn(ctx context.Context, sessionID string, player engine.PlayerID, target engine.Coord) (*ActionResult, error) {
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	result := &ActionResult{Action: "move", Player: player}
	if err := sess.Engine.MovePawn(player, target); err != nil {
		if !engine.IsRuleViolation(err) {
			return nil, fmt.Errorf("move failed: %w", err)
		}
		s.reject(sess, result, err)
		return result, nil
	}

	result.Success = true
	result.Record = lastAction(sess)
	result.Kind = result.Record.Kind
	result.Events = append(result.Events, GameEvent{
		Type:      "move",
		Message:   fmt.Sprintf("%s moved %s -> %s (%s)", player, result.Record.From, target, result.Kind),
		Timestamp: time.Now(),
		Player:    player,
		Position:  &target,
	})
	s.finishAction(sess, result)
	return result, nil
}

// PlaceFence asks the engine to place a fence for player
func (s *gameServiceImpl) PlaceFence(ctx context.Context, sessionID string, player engine.PlayerID, orientation engine.Orientation, anchor engine.Coord) (*ActionResult, error) {
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	result := &ActionResult{Action: "fence", Player: player}
	if err := sess.Engine.PlaceFence(player, orientation, anchor); err != nil {
		if !engine.IsRuleViolation(err) {
			return nil, fmt.Errorf("fence placement failed: %w", err)
		}
		s.reject(sess, result, err)
		return result, nil
	}

	result.Success = true
	result.Record = lastAction(sess)
	result.Events = append(result.Events, GameEvent{
		Type:      "fence",
		Message:   fmt.Sprintf("%s placed a %s fence at %s", player, orientation, anchor),
		Timestamp: time.Now(),
		Player:    player,
		Position:  &anchor,
	})
	s.finishAction(sess, result)
	return result, nil
}

// reject fills result for a rule violation. Nothing was mutated, so nothing is saved.
func (s *gameServiceImpl) reject(sess *Session, result *ActionResult, err error) {
	result.Success = false
	result.Error = err.Error()
	result.ErrorCode = engine.ErrorCode(err)
	result.Message = sess.Rules.Messages.Rejected
	result.GameState = s.snapshot(sess)
	result.Events = append(result.Events, GameEvent{
		Type:      "rejected",
		Message:   err.Error(),
		Timestamp: time.Now(),
		Player:    result.Player,
	})
}

// finishAction adds end-of-game events, the state snapshot, and persists the session
func (s *gameServiceImpl) finishAction(sess *Session, result *ActionResult) {
	state := s.snapshot(sess)
	result.GameState = state
	result.Message = state.Message

	if state.Status == engine.Won {
		result.Events = append(result.Events, GameEvent{
			Type:      "victory",
			Message:   state.Message,
			Timestamp: time.Now(),
			Player:    state.Winner,
		})
	}

	if err := s.sessions.Save(sess.ID); err != nil {
		log.WithField("session", sess.ID).Warnf("failed to persist session after %s: %v", result.Action, err)
	}
}

// Reset resets a game session to its initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	sess.Engine.Reset()
	state := s.snapshot(sess)

	if err := s.sessions.Save(sessionID); err != nil {
		log.WithField("session", sessionID).Warnf("failed to persist session after reset: %v", err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	return s.snapshot(sess), nil
}

// GetLegalMoves lists the pawn targets available to player
func (s *gameServiceImpl) GetLegalMoves(ctx context.Context, sessionID string, player engine.PlayerID) (*LegalMovesResponse, error) {
	if !player.Valid() {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownPlayer, player)
	}

	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	p := sess.Engine.Player(player)
	moves := sess.Engine.LegalMoves(player)
	if moves == nil {
		moves = []engine.Coord{}
	}
	state := sess.Engine.GetState()

	return &LegalMovesResponse{
		Player:       player,
		Position:     p.Position,
		Moves:        moves,
		IsTurn:       !sess.Engine.IsGameOver() && sess.Engine.CurrentTurn() == player,
		GoalRow:      p.GoalRow(),
		GoalDistance: engine.ShortestPathLength(state.Board, p.Position, p.GoalRow()),
	}, nil
}

// GetFenceLedger returns the fences placed by player
func (s *gameServiceImpl) GetFenceLedger(ctx context.Context, sessionID string, player engine.PlayerID) (*FenceLedgerResponse, error) {
	if !player.Valid() {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownPlayer, player)
	}

	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	return &FenceLedgerResponse{
		Player:          player,
		FencesRemaining: sess.Engine.Player(player).FencesRemaining,
		Fences:          sess.Engine.FenceLedger(player),
	}, nil
}

// GetHistory returns paginated action history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	history := append([]engine.ActionRecord(nil), sess.Engine.GetHistory()...)
	sess.Unlock()

	return paginate(history, opts), nil
}

// paginate slices history into a page, newest first unless Order is "asc"
func paginate(history []engine.ActionRecord, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionRecord{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = append(actions, history[start:end]...)
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}
}

// ListConfigs returns available rule sets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule set
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.RuleSet, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a rule set to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, rules *engine.RuleSet) error {
	return s.configs.SaveConfig(configName, rules)
}

func lastAction(sess *Session) *engine.ActionRecord {
	last := sess.Engine.GetLastAction()
	if last == nil {
		return nil
	}
	rec := *last
	return &rec
}

// acquire looks up a session, touches it and returns it locked
func (s *gameServiceImpl) acquire(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Lock()
	return sess, nil
}

// sessionInfo builds the public view of a session. Caller holds the session lock.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Rules.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      s.snapshot(sess),
		Rules:          sess.Rules,
	}
}

// snapshot copies the game state and fills in the computed views. Caller holds the
// session lock.
func (s *gameServiceImpl) snapshot(sess *Session) *engine.GameState {
	state := sess.Engine.GetState().Clone()
	state.GoalDistance = engine.GoalDistances(state)
	state.LegalMoves = map[engine.PlayerID][]engine.Coord{}
	if !sess.Engine.IsGameOver() {
		turn := sess.Engine.CurrentTurn()
		state.LegalMoves[turn] = sess.Engine.LegalMoves(turn)
	}
	return state
}
