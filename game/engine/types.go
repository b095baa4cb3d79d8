package engine

import (
	"fmt"
	"strings"
)

const (
	// BoardSize is the number of rows and columns on the board
	BoardSize = 9

	// Rule set constants
	DefaultFencesPerPlayer = 10
	MaxFencesPerPlayer     = 20
	UnreachableDistance    = 999999
	WebSocketBufferSize    = 256
)

// PlayerID identifies a player. NoPlayer marks an empty cell.
type PlayerID int

const (
	NoPlayer  PlayerID = 0
	PlayerOne PlayerID = 1
	PlayerTwo PlayerID = 2
)

// Valid reports whether p is one of the two seats
func (p PlayerID) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Opponent returns the other seat
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return NoPlayer
}

func (p PlayerID) String() string {
	switch p {
	case PlayerOne:
		return "P1"
	case PlayerTwo:
		return "P2"
	}
	return "none"
}

// Coord is a (col, row) board coordinate. Row 0 is the top edge.
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// OnBoard reports whether c lies inside the grid
func (c Coord) OnBoard() bool {
	return c.Col >= 0 && c.Col < BoardSize && c.Row >= 0 && c.Row < BoardSize
}

// Add returns c shifted by the given offsets
func (c Coord) Add(dCol, dRow int) Coord {
	return Coord{Col: c.Col + dCol, Row: c.Row + dRow}
}

// Step returns the coordinate one cell away in direction d
func (c Coord) Step(d Direction) Coord {
	dc, dr := d.Delta()
	return c.Add(dc, dr)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Direction names one of the four cell edges
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists the orthogonal directions in a fixed order
var Directions = []Direction{North, East, South, West}

// Delta returns the (col, row) offset of a single step
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the direction facing d
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// directionOf maps a unit orthogonal delta back to its direction
func directionOf(dCol, dRow int) (Direction, bool) {
	switch {
	case dCol == 0 && dRow == -1:
		return North, true
	case dCol == 0 && dRow == 1:
		return South, true
	case dCol == 1 && dRow == 0:
		return East, true
	case dCol == -1 && dRow == 0:
		return West, true
	}
	return "", false
}

// Cell represents a single board square
type Cell struct {
	Coord    Coord    `json:"coord"`
	Occupant PlayerID `json:"occupant,omitempty"`
	North    bool     `json:"north,omitempty"`
	South    bool     `json:"south,omitempty"`
	East     bool     `json:"east,omitempty"`
	West     bool     `json:"west,omitempty"`
}

// Fenced reports the fence flag on edge d
func (c *Cell) Fenced(d Direction) bool {
	switch d {
	case North:
		return c.North
	case South:
		return c.South
	case East:
		return c.East
	case West:
		return c.West
	}
	return false
}

func (c *Cell) setFence(d Direction) {
	switch d {
	case North:
		c.North = true
	case South:
		c.South = true
	case East:
		c.East = true
	case West:
		c.West = true
	}
}

// Orientation of a placed fence
type Orientation string

const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

// ParseOrientation accepts "v", "h", "vertical" and "horizontal" in any case
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v", "vertical":
		return Vertical, nil
	case "h", "horizontal":
		return Horizontal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
}

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return string(o)
}

// MoveKind classifies a proposed pawn move
type MoveKind string

const (
	SimpleMove      MoveKind = "SIMPLE"
	DiagonalMove    MoveKind = "DIAGONAL"
	ComplicatedMove MoveKind = "COMPLICATED"
)

// Status is the controller state
type Status string

const (
	InProgress Status = "in_progress"
	Won        Status = "won"
)

// GameState represents the complete game state
type GameState struct {
	Board        *Board         `json:"board"`
	Players      [2]*Player     `json:"players"`
	Turn         PlayerID       `json:"turn"`
	Status       Status         `json:"status"`
	Winner       PlayerID       `json:"winner,omitempty"`
	Message      string         `json:"message"`
	RuleSetName  string         `json:"rule_set"`
	History      []ActionRecord `json:"history"`
	TotalActions int            `json:"total_actions"`

	// Computed helper views (not required for core game logic)
	GoalDistance map[PlayerID]int     `json:"goal_distance,omitempty"`
	LegalMoves   map[PlayerID][]Coord `json:"legal_moves,omitempty"`
}

// Player returns the player record for id, or nil
func (gs *GameState) Player(id PlayerID) *Player {
	if !id.Valid() {
		return nil
	}
	return gs.Players[id-1]
}

// Clone returns a deep copy of the state that can outlive the session lock
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	if gs.Board != nil {
		out.Board = gs.Board.Clone()
	}
	for i, p := range gs.Players {
		if p == nil {
			continue
		}
		cp := *p
		cp.Fences = p.Ledger()
		out.Players[i] = &cp
	}
	out.History = make([]ActionRecord, len(gs.History))
	copy(out.History, gs.History)

	if gs.GoalDistance != nil {
		out.GoalDistance = make(map[PlayerID]int, len(gs.GoalDistance))
		for id, d := range gs.GoalDistance {
			out.GoalDistance[id] = d
		}
	}
	if gs.LegalMoves != nil {
		out.LegalMoves = make(map[PlayerID][]Coord, len(gs.LegalMoves))
		for id, moves := range gs.LegalMoves {
			out.LegalMoves[id] = append([]Coord(nil), moves...)
		}
	}
	return &out
}

// ActionRecord is one successful action in the game history
type ActionRecord struct {
	Number      int         `json:"number"`
	Action      string      `json:"action"` // "move" or "fence"
	Player      PlayerID    `json:"player"`
	From        *Coord      `json:"from,omitempty"`
	To          *Coord      `json:"to,omitempty"`
	Kind        MoveKind    `json:"kind,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	Anchor      *Coord      `json:"anchor,omitempty"`
	Timestamp   int64       `json:"timestamp"`
}
