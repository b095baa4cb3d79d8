package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsWinner(player PlayerID) bool
	Winner() PlayerID
	Status() Status
	CurrentTurn() PlayerID

	// Actions
	MovePawn(player PlayerID, target Coord) error
	PlaceFence(player PlayerID, orientation Orientation, anchor Coord) error
	LegalMoves(player PlayerID) []Coord

	// Views for renderers
	BoardSnapshot() [][]Cell
	FenceLedger(player PlayerID) []FenceSegment
	Player(player PlayerID) *Player

	// Configuration
	GetRules() *RuleSet

	// History
	GetHistory() []ActionRecord
	GetLastAction() *ActionRecord
}

// Game implements the Engine interface. It is the game controller: it gates every
// action on game status, turn and bounds, delegates to the validators and only then
// mutates the board and the fence ledger.
type Game struct {
	state *GameState
	rules *RuleSet
}

// NewGame creates a game with the reference rules
func NewGame() *Game {
	rules := DefaultRuleSet()
	return &Game{
		rules: rules,
		state: InitGameState(rules),
	}
}

// NewGameWithRules creates a game with the provided rule set
func NewGameWithRules(rules *RuleSet) (*Game, error) {
	if err := ValidateRuleSet(rules); err != nil {
		return nil, err
	}
	return &Game{
		rules: rules,
		state: InitGameState(rules),
	}, nil
}

// GetState returns the current game state
func (g *Game) GetState() *GameState {
	return g.state
}

// SetState replaces the game state (used for persistence loading)
func (g *Game) SetState(state *GameState) error {
	if err := ValidateGameState(state); err != nil {
		return err
	}
	if state.History == nil {
		state.History = []ActionRecord{}
	}
	g.state = state
	return nil
}

// Reset starts the game over with the same rules
func (g *Game) Reset() *GameState {
	g.state = InitGameState(g.rules)
	return g.state
}

// IsGameOver returns whether a player has won
func (g *Game) IsGameOver() bool {
	return g.state.Status == Won
}

// IsWinner scans the player's winning area for their pawn
func (g *Game) IsWinner(player PlayerID) bool {
	if !player.Valid() {
		return false
	}
	for _, c := range WinningArea(player) {
		if g.state.Board.OccupantAt(c) == player {
			return true
		}
	}
	return false
}

// Winner returns the winning player, or NoPlayer while the game is in progress
func (g *Game) Winner() PlayerID {
	return g.state.Winner
}

// Status returns the controller state
func (g *Game) Status() Status {
	return g.state.Status
}

// CurrentTurn returns whose turn it is
func (g *Game) CurrentTurn() PlayerID {
	return g.state.Turn
}

// checkCanAct gates an action on game status, seat and turn
func (g *Game) checkCanAct(player PlayerID) error {
	if g.state.Status == Won {
		return fmt.Errorf("%w: player %d already won", ErrGameOver, g.state.Winner)
	}
	if !player.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	if player != g.state.Turn {
		return fmt.Errorf("%w: it is player %d's turn", ErrNotYourTurn, g.state.Turn)
	}
	return nil
}

// MovePawn moves player's pawn to target if the move is legal
func (g *Game) MovePawn(player PlayerID, target Coord) error {
	if err := g.checkCanAct(player); err != nil {
		return err
	}
	if !target.OnBoard() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, target)
	}

	mover := g.state.Player(player)
	from := mover.Position

	kind, err := ValidateMove(g.state.Board, player, from, target)
	if err != nil {
		return err
	}

	// Apply
	g.state.Board.SetOccupant(from, NoPlayer)
	g.state.Board.SetOccupant(target, player)
	mover.Position = target
	g.state.Message = g.rules.Messages.Moved

	g.record(ActionRecord{
		Action: "move",
		Player: player,
		From:   &from,
		To:     &target,
		Kind:   kind,
	})
	g.advanceTurn()
	g.checkWinner(player)
	return nil
}

// PlaceFence places a fence for player if the placement is legal
func (g *Game) PlaceFence(player PlayerID, orientation Orientation, anchor Coord) error {
	if err := g.checkCanAct(player); err != nil {
		return err
	}
	if !anchor.OnBoard() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, anchor)
	}

	if err := ValidateFence(g.state, player, orientation, anchor, g.rules.EnforcePathToGoal); err != nil {
		return err
	}

	if err := applyFence(g.state.Board, orientation, anchor); err != nil {
		// ValidateFence already checked the edge, so this only fires on a corrupt board
		return fmt.Errorf("%w: %w", ErrIllegalFence, err)
	}
	g.state.Player(player).recordFence(orientation, anchor)
	g.state.Message = g.rules.Messages.FencePlaced

	g.record(ActionRecord{
		Action:      "fence",
		Player:      player,
		Orientation: orientation,
		Anchor:      &anchor,
	})
	g.advanceTurn()
	return nil
}

// LegalMoves returns every target player's pawn can move to right now.
// It ignores whose turn it is.
func (g *Game) LegalMoves(player PlayerID) []Coord {
	p := g.state.Player(player)
	if p == nil || g.IsGameOver() {
		return nil
	}
	return LegalMoves(g.state.Board, player, p.Position)
}

// BoardSnapshot returns a read-only copy of the grid
func (g *Game) BoardSnapshot() [][]Cell {
	return g.state.Board.Snapshot()
}

// FenceLedger returns the fences player has placed, in order
func (g *Game) FenceLedger(player PlayerID) []FenceSegment {
	p := g.state.Player(player)
	if p == nil {
		return nil
	}
	return p.Ledger()
}

// Player returns the player record for id, or nil
func (g *Game) Player(player PlayerID) *Player {
	return g.state.Player(player)
}

// GetRules returns the rule set in use
func (g *Game) GetRules() *RuleSet {
	return g.rules
}

// GetHistory returns the successful actions so far
func (g *Game) GetHistory() []ActionRecord {
	return g.state.History
}

// GetLastAction returns the last successful action, or nil if none
func (g *Game) GetLastAction() *ActionRecord {
	if len(g.state.History) == 0 {
		return nil
	}
	return &g.state.History[len(g.state.History)-1]
}

func (g *Game) advanceTurn() {
	g.state.Turn = g.state.Turn.Opponent()
}

// checkWinner transitions to Won when the mover stands in their winning area
func (g *Game) checkWinner(mover PlayerID) {
	if g.IsWinner(mover) {
		g.state.Status = Won
		g.state.Winner = mover
		g.state.Message = fmt.Sprintf(g.rules.Messages.Victory, int(mover))
	}
}

func (g *Game) record(entry ActionRecord) {
	entry.Number = g.state.TotalActions + 1
	entry.Timestamp = time.Now().Unix()
	g.state.History = append(g.state.History, entry)
	g.state.TotalActions++
}
