package engine

import "fmt"

// ClassifyMove sorts a proposed move into a MoveKind by its coordinate delta
func ClassifyMove(from, to Coord) (MoveKind, error) {
	dCol, dRow := to.Col-from.Col, to.Row-from.Row

	switch {
	case dCol == 0 && dRow == 0:
		return "", ErrAlreadyOccupiedBySelf
	case abs(dCol)+abs(dRow) == 1:
		return SimpleMove, nil
	case abs(dCol) == 1 && abs(dRow) == 1:
		return DiagonalMove, nil
	default:
		return ComplicatedMove, nil
	}
}

// ValidateMove checks whether mover, standing on from, may move to to.
// Every rejection wraps ErrIllegalMove.
func ValidateMove(b *Board, mover PlayerID, from, to Coord) (MoveKind, error) {
	if !to.OnBoard() {
		return "", fmt.Errorf("%w: %w: %s", ErrIllegalMove, ErrOutOfBounds, to)
	}

	kind, err := ClassifyMove(from, to)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}

	switch kind {
	case SimpleMove:
		err = validateSimple(b, from, to)
	case DiagonalMove:
		err = validateDiagonal(b, mover, from, to)
	default:
		err = validateJump(b, mover, from, to)
	}
	return kind, err
}

func validateSimple(b *Board, from, to Coord) error {
	d, ok := directionOf(to.Col-from.Col, to.Row-from.Row)
	if !ok {
		return fmt.Errorf("%w: %s -> %s is not a single step", ErrIllegalMove, from, to)
	}
	if b.Blocked(from, d) {
		return fmt.Errorf("%w: fence blocks %s edge of %s", ErrIllegalMove, d, from)
	}
	if b.OccupantAt(to) != NoPlayer {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalMove, to)
	}
	return nil
}

// validateDiagonal accepts a diagonal step only as a side-step around an adjacent
// opponent whose straight jump is blocked by a fence or the board edge.
// The vertical component is tried first, then the horizontal one.
func validateDiagonal(b *Board, mover PlayerID, from, to Coord) error {
	if b.OccupantAt(to) != NoPlayer {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalMove, to)
	}

	dCol, dRow := to.Col-from.Col, to.Row-from.Row
	vertical, _ := directionOf(0, dRow)
	horizontal, _ := directionOf(dCol, 0)

	if sideStepAround(b, mover, from, vertical, horizontal) ||
		sideStepAround(b, mover, from, horizontal, vertical) {
		return nil
	}
	return fmt.Errorf("%w: diagonal %s -> %s needs an adjacent opponent with a blocked jump", ErrIllegalMove, from, to)
}

// sideStepAround reports whether the mover can reach from+straight+lateral by
// stepping onto the opponent's side along straight and turning along lateral.
func sideStepAround(b *Board, mover PlayerID, from Coord, straight, lateral Direction) bool {
	opp := from.Step(straight)
	if !opp.OnBoard() || b.OccupantAt(opp) != mover.Opponent() {
		return false
	}
	if b.Blocked(from, straight) {
		return false
	}
	// the straight jump must be impossible, either a fence or the outer wall
	if !b.Blocked(opp, straight) {
		return false
	}
	if !opp.Step(lateral).OnBoard() {
		return false
	}
	return !b.Blocked(opp, lateral)
}

// validateJump accepts a two-cell straight jump over an adjacent opponent
func validateJump(b *Board, mover PlayerID, from, to Coord) error {
	dCol, dRow := to.Col-from.Col, to.Row-from.Row
	if !(dCol == 0 && abs(dRow) == 2) && !(dRow == 0 && abs(dCol) == 2) {
		return fmt.Errorf("%w: %s -> %s is not a straight jump", ErrIllegalMove, from, to)
	}

	d, _ := directionOf(sign(dCol), sign(dRow))
	mid := from.Step(d)
	if !mid.OnBoard() {
		return fmt.Errorf("%w: %s is off the board", ErrIllegalMove, mid)
	}
	if b.OccupantAt(mid) != mover.Opponent() {
		return fmt.Errorf("%w: no opponent at %s to jump over", ErrIllegalMove, mid)
	}
	if b.Blocked(from, d) {
		return fmt.Errorf("%w: fence between %s and %s", ErrIllegalMove, from, mid)
	}

	landing := mid.Step(d)
	if !landing.OnBoard() {
		return fmt.Errorf("%w: landing %s is off the board", ErrIllegalMove, landing)
	}
	if b.Blocked(mid, d) {
		return fmt.Errorf("%w: fence behind opponent at %s", ErrIllegalMove, mid)
	}
	if landing != to {
		return fmt.Errorf("%w: jump lands on %s, not %s", ErrIllegalMove, landing, to)
	}
	if b.OccupantAt(landing) != NoPlayer {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalMove, landing)
	}
	return nil
}

// LegalMoves returns every cell mover can reach from from this turn, ordered by
// row then column.
func LegalMoves(b *Board, mover PlayerID, from Coord) []Coord {
	var moves []Coord
	for dRow := -2; dRow <= 2; dRow++ {
		for dCol := -2; dCol <= 2; dCol++ {
			if dRow == 0 && dCol == 0 {
				continue
			}
			to := from.Add(dCol, dRow)
			if !to.OnBoard() {
				continue
			}
			if _, err := ValidateMove(b, mover, from, to); err == nil {
				moves = append(moves, to)
			}
		}
	}
	return moves
}
