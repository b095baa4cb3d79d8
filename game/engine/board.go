package engine

import "fmt"

// Board is the fixed 9x9 grid. Cells are stored row-major: Cells[row][col].
type Board struct {
	Cells [BoardSize][BoardSize]Cell `json:"cells"`
}

// neighborOffsets lists the 8 surrounding cells in N, NE, E, SE, S, SW, W, NW order
var neighborOffsets = []struct{ dCol, dRow int }{
	{0, -1},  // North
	{1, -1},  // North-East
	{1, 0},   // East
	{1, 1},   // South-East
	{0, 1},   // South
	{-1, 1},  // South-West
	{-1, 0},  // West
	{-1, -1}, // North-West
}

// NewBoard creates an empty board with the outer wall in place
func NewBoard() *Board {
	b := &Board{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := &b.Cells[row][col]
			cell.Coord = Coord{Col: col, Row: row}
			cell.North = row == 0
			cell.South = row == BoardSize-1
			cell.West = col == 0
			cell.East = col == BoardSize-1
		}
	}
	return b
}

// cell returns a pointer into the grid, or nil when c is off the board
func (b *Board) cell(c Coord) *Cell {
	if !c.OnBoard() {
		return nil
	}
	return &b.Cells[c.Row][c.Col]
}

// CellAt returns a copy of the cell at c
func (b *Board) CellAt(c Coord) (Cell, error) {
	cell := b.cell(c)
	if cell == nil {
		return Cell{}, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	return *cell, nil
}

// SetOccupant overwrites the occupant of c without any rule checks
func (b *Board) SetOccupant(c Coord, p PlayerID) error {
	cell := b.cell(c)
	if cell == nil {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	cell.Occupant = p
	return nil
}

// OccupantAt returns the occupant of c, or NoPlayer when c is off the board
func (b *Board) OccupantAt(c Coord) PlayerID {
	cell := b.cell(c)
	if cell == nil {
		return NoPlayer
	}
	return cell.Occupant
}

// HasFence reports whether edge d of c is blocked. Everything beyond the grid is wall,
// so off-board coordinates always report true.
func (b *Board) HasFence(c Coord, d Direction) bool {
	cell := b.cell(c)
	if cell == nil {
		return true
	}
	return cell.Fenced(d)
}

// Blocked reports whether a single step from c in direction d crosses a fence,
// checking both sides of the shared edge.
func (b *Board) Blocked(c Coord, d Direction) bool {
	if b.HasFence(c, d) {
		return true
	}
	return b.HasFence(c.Step(d), d.Opposite())
}

// PlaceFenceEdge sets the fence flag on edge d of c and mirrors it on the
// neighboring cell that shares the edge.
func (b *Board) PlaceFenceEdge(c Coord, d Direction) error {
	cell := b.cell(c)
	if cell == nil {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if cell.Fenced(d) {
		return fmt.Errorf("%w: %s %s edge", ErrDuplicateFence, c, d)
	}

	neighbor := b.cell(c.Step(d))
	if neighbor != nil && neighbor.Fenced(d.Opposite()) {
		return fmt.Errorf("%w: %s %s edge", ErrDuplicateFence, c.Step(d), d.Opposite())
	}

	cell.setFence(d)
	if neighbor != nil {
		neighbor.setFence(d.Opposite())
	}
	return nil
}

// Neighbors returns the up to 8 on-board coordinates surrounding c
func (b *Board) Neighbors(c Coord) []Coord {
	result := make([]Coord, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		n := c.Add(off.dCol, off.dRow)
		if n.OnBoard() {
			result = append(result, n)
		}
	}
	return result
}

// Snapshot returns a read-only copy of the grid for renderers, indexed [row][col]
func (b *Board) Snapshot() [][]Cell {
	grid := make([][]Cell, BoardSize)
	for row := range grid {
		grid[row] = make([]Cell, BoardSize)
		copy(grid[row], b.Cells[row][:])
	}
	return grid
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// CountFencedEdges counts interior fence edges, each shared wall counted once
func (b *Board) CountFencedEdges() int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := b.Cells[row][col]
			if cell.East && col < BoardSize-1 {
				count++
			}
			if cell.South && row < BoardSize-1 {
				count++
			}
		}
	}
	return count
}

// validate checks the shared-wall and outer-wall invariants
func (b *Board) validate() error {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := b.Cells[row][col]
			c := Coord{Col: col, Row: row}
			if cell.Coord != c {
				return fmt.Errorf("cell at %s reports coordinate %s", c, cell.Coord)
			}
			for _, d := range Directions {
				n := c.Step(d)
				if !n.OnBoard() {
					if !cell.Fenced(d) {
						return fmt.Errorf("outer wall missing on %s %s edge", c, d)
					}
					continue
				}
				if cell.Fenced(d) != b.Cells[n.Row][n.Col].Fenced(d.Opposite()) {
					return fmt.Errorf("unmirrored fence between %s and %s", c, n)
				}
			}
		}
	}
	return nil
}
