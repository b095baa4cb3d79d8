package engine

import "fmt"

// FenceEdge returns the anchor edge a fence of orientation o blocks.
// A vertical fence blocks the anchor's west edge, a horizontal fence its north edge;
// the neighbor on the other side receives the mirrored flag.
func FenceEdge(o Orientation) (Direction, error) {
	switch o {
	case Vertical:
		return West, nil
	case Horizontal:
		return North, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrientation, string(o))
}

// ValidateFence checks whether placer may put a fence of orientation o at anchor.
// Every rejection wraps ErrIllegalFence together with its cause.
func ValidateFence(state *GameState, placer PlayerID, o Orientation, anchor Coord, enforcePath bool) error {
	player := state.Player(placer)
	if player == nil {
		return fmt.Errorf("%w: %w: %d", ErrIllegalFence, ErrUnknownPlayer, placer)
	}

	d, err := FenceEdge(o)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalFence, err)
	}
	if !anchor.OnBoard() {
		return fmt.Errorf("%w: %w: %s", ErrIllegalFence, ErrOutOfBounds, anchor)
	}
	if !player.HasFenceAvailable() {
		return fmt.Errorf("%w: %w: player %d", ErrIllegalFence, ErrNoFencesRemaining, placer)
	}
	if state.Board.Blocked(anchor, d) {
		return fmt.Errorf("%w: %w: %s %s edge", ErrIllegalFence, ErrDuplicateFence, anchor, d)
	}

	if enforcePath {
		trial := state.Board.Clone()
		if err := trial.PlaceFenceEdge(anchor, d); err != nil {
			return fmt.Errorf("%w: %w", ErrIllegalFence, err)
		}
		for _, p := range state.Players {
			if !HasPathToGoal(trial, p.Position, p.GoalRow()) {
				return fmt.Errorf("%w: %w: player %d", ErrIllegalFence, ErrPathBlocked, p.ID)
			}
		}
	}

	return nil
}

// applyFence sets both mirrored edge flags. Callers validate first.
func applyFence(b *Board, o Orientation, anchor Coord) error {
	d, err := FenceEdge(o)
	if err != nil {
		return err
	}
	return b.PlaceFenceEdge(anchor, d)
}
