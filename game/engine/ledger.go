package engine

// FenceSegment is the record of one placed fence, kept for display and history.
// End is derived from the anchor: vertical fences run down one row, horizontal
// fences run right one column.
type FenceSegment struct {
	Orientation Orientation `json:"orientation"`
	Anchor      Coord       `json:"anchor"`
	End         Coord       `json:"end"`
}

// NewFenceSegment builds the segment record for a fence anchored at anchor
func NewFenceSegment(o Orientation, anchor Coord) FenceSegment {
	end := anchor
	switch o {
	case Vertical:
		end = anchor.Add(0, 1)
	case Horizontal:
		end = anchor.Add(1, 0)
	}
	return FenceSegment{Orientation: o, Anchor: anchor, End: end}
}

// Player holds a pawn's position and the player's fence ledger.
// Position is the authoritative location; the board occupant is a cache of it.
type Player struct {
	ID              PlayerID       `json:"id"`
	Home            Coord          `json:"home"`
	Position        Coord          `json:"position"`
	FencesRemaining int            `json:"fences_remaining"`
	Fences          []FenceSegment `json:"fences"`
}

// NewPlayer creates a player standing on its home cell
func NewPlayer(id PlayerID, home Coord, fences int) *Player {
	return &Player{
		ID:              id,
		Home:            home,
		Position:        home,
		FencesRemaining: fences,
		Fences:          []FenceSegment{},
	}
}

// HasFenceAvailable reports whether the player can still place a fence
func (p *Player) HasFenceAvailable() bool {
	return p.FencesRemaining > 0
}

// recordFence appends the segment and spends one fence. Callers validate first.
func (p *Player) recordFence(o Orientation, anchor Coord) FenceSegment {
	seg := NewFenceSegment(o, anchor)
	p.Fences = append(p.Fences, seg)
	p.FencesRemaining--
	return seg
}

// Ledger returns a copy of the placed fence segments in placement order
func (p *Player) Ledger() []FenceSegment {
	out := make([]FenceSegment, len(p.Fences))
	copy(out, p.Fences)
	return out
}

// GoalRow returns the row the player must reach to win
func (p *Player) GoalRow() int {
	return GoalRow(p.ID)
}

// GoalRow returns the target row for a player id: player 1 races to the bottom
// edge, player 2 to the top edge.
func GoalRow(id PlayerID) int {
	if id == PlayerOne {
		return BoardSize - 1
	}
	return 0
}

// HomeCoord returns the starting cell for a player id
func HomeCoord(id PlayerID) Coord {
	if id == PlayerOne {
		return Coord{Col: BoardSize / 2, Row: 0}
	}
	return Coord{Col: BoardSize / 2, Row: BoardSize - 1}
}

// WinningArea returns the 9 coordinates forming the player's target edge
func WinningArea(id PlayerID) []Coord {
	row := GoalRow(id)
	area := make([]Coord, BoardSize)
	for col := 0; col < BoardSize; col++ {
		area[col] = Coord{Col: col, Row: row}
	}
	return area
}
