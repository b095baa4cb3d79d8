package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RuleSet represents a rules configuration loaded from JSON
type RuleSet struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	FencesPerPlayer   int    `json:"fences_per_player"`
	EnforcePathToGoal bool   `json:"enforce_path_to_goal"`
	Messages          struct {
		Welcome     string `json:"welcome"`
		Moved       string `json:"moved"`
		FencePlaced string `json:"fence_placed"`
		Victory     string `json:"victory"`
		Rejected    string `json:"rejected"`
	} `json:"messages"`
}

// DefaultRuleSet returns the reference rules: 10 fences each and no path check
func DefaultRuleSet() *RuleSet {
	rules := &RuleSet{
		Name:            "classic",
		Description:     "Reference rules: 10 fences per player, fences only need a free edge",
		FencesPerPlayer: DefaultFencesPerPlayer,
	}
	rules.Messages.Welcome = "Welcome to Quoridor! Player 1 moves first."
	rules.Messages.Moved = "Pawn moved."
	rules.Messages.FencePlaced = "Fence placed."
	rules.Messages.Victory = "Player %d wins!"
	rules.Messages.Rejected = "Action rejected."
	return rules
}

// ValidateRuleSet validates a rule set for correctness
func ValidateRuleSet(rules *RuleSet) error {
	if rules == nil {
		return fmt.Errorf("config validation: rule set is nil")
	}
	if rules.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if rules.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if rules.FencesPerPlayer < 0 || rules.FencesPerPlayer > MaxFencesPerPlayer {
		return fmt.Errorf("config validation: fences_per_player must be between 0 and %d, got %d",
			MaxFencesPerPlayer, rules.FencesPerPlayer)
	}

	if rules.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if rules.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if !strings.Contains(rules.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the winning player")
	}

	return nil
}

// LoadRuleSet loads a rule set from a JSON file
func LoadRuleSet(filename string) (*RuleSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set '%s': %w", filepath.Base(filename), err)
	}

	rules, err := ParseRuleSet(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rule set '%s': %w", filepath.Base(filename), err)
	}
	return rules, nil
}

// ParseRuleSet decodes and validates a JSON rule set. Empty messages fall back to
// the defaults before validation.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var rules RuleSet
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	rules.fillMessageDefaults()

	if err := ValidateRuleSet(&rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *RuleSet) fillMessageDefaults() {
	defaults := DefaultRuleSet()
	if r.Messages.Welcome == "" {
		r.Messages.Welcome = defaults.Messages.Welcome
	}
	if r.Messages.Moved == "" {
		r.Messages.Moved = defaults.Messages.Moved
	}
	if r.Messages.FencePlaced == "" {
		r.Messages.FencePlaced = defaults.Messages.FencePlaced
	}
	if r.Messages.Victory == "" {
		r.Messages.Victory = defaults.Messages.Victory
	}
	if r.Messages.Rejected == "" {
		r.Messages.Rejected = defaults.Messages.Rejected
	}
}

// InitGameState creates a fresh game state for the given rules. A nil rule set
// uses DefaultRuleSet.
func InitGameState(rules *RuleSet) *GameState {
	if rules == nil {
		rules = DefaultRuleSet()
	}

	board := NewBoard()
	p1 := NewPlayer(PlayerOne, HomeCoord(PlayerOne), rules.FencesPerPlayer)
	p2 := NewPlayer(PlayerTwo, HomeCoord(PlayerTwo), rules.FencesPerPlayer)
	board.SetOccupant(p1.Position, PlayerOne)
	board.SetOccupant(p2.Position, PlayerTwo)

	return &GameState{
		Board:        board,
		Players:      [2]*Player{p1, p2},
		Turn:         PlayerOne,
		Status:       InProgress,
		Message:      rules.Messages.Welcome,
		RuleSetName:  rules.Name,
		History:      []ActionRecord{},
		TotalActions: 0,
	}
}

// ValidateGameState checks the structural invariants of a state, used when
// restoring a snapshot from outside the engine.
func ValidateGameState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Board == nil {
		return fmt.Errorf("state has no board")
	}
	if err := state.Board.validate(); err != nil {
		return fmt.Errorf("invalid board: %w", err)
	}
	if !state.Turn.Valid() {
		return fmt.Errorf("invalid turn indicator %d", state.Turn)
	}

	for i, p := range state.Players {
		id := PlayerID(i + 1)
		if p == nil {
			return fmt.Errorf("player %d missing", id)
		}
		if p.ID != id {
			return fmt.Errorf("player slot %d holds player %d", id, p.ID)
		}
		if !p.Position.OnBoard() {
			return fmt.Errorf("player %d: %w: %s", id, ErrOutOfBounds, p.Position)
		}
		if p.FencesRemaining < 0 {
			return fmt.Errorf("player %d has negative fence count", id)
		}
	}
	if state.Players[0].Position == state.Players[1].Position {
		return fmt.Errorf("both players occupy %s", state.Players[0].Position)
	}

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			c := Coord{Col: col, Row: row}
			occupant := state.Board.Cells[row][col].Occupant
			expected := NoPlayer
			for _, p := range state.Players {
				if p.Position == c {
					expected = p.ID
				}
			}
			if occupant != expected {
				return fmt.Errorf("cell %s occupant %d does not match player positions", c, occupant)
			}
		}
	}

	switch state.Status {
	case InProgress:
	case Won:
		if !state.Winner.Valid() {
			return fmt.Errorf("won game without a winner")
		}
	default:
		return fmt.Errorf("unknown status %q", state.Status)
	}
	return nil
}
