package engine

import "errors"

var (
	ErrOutOfBounds           = errors.New("coordinate out of bounds")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrGameOver              = errors.New("game is over")
	ErrAlreadyOccupiedBySelf = errors.New("pawn already occupies the target cell")
	ErrIllegalMove           = errors.New("illegal move")
	ErrDuplicateFence        = errors.New("fence already placed on that edge")
	ErrNoFencesRemaining     = errors.New("no fences remaining")
	ErrIllegalFence          = errors.New("illegal fence placement")
	ErrUnknownPlayer         = errors.New("unknown player")
	ErrInvalidOrientation    = errors.New("invalid fence orientation")
	ErrPathBlocked           = errors.New("fence would cut a player off from their goal")
)

// errorCodes is checked in order, so causes come before the categories that wrap them
var errorCodes = []struct {
	err  error
	code string
}{
	{ErrGameOver, "game_over"},
	{ErrUnknownPlayer, "unknown_player"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrOutOfBounds, "out_of_bounds"},
	{ErrAlreadyOccupiedBySelf, "already_occupied_by_self"},
	{ErrDuplicateFence, "duplicate_fence"},
	{ErrNoFencesRemaining, "no_fences_remaining"},
	{ErrPathBlocked, "path_blocked"},
	{ErrInvalidOrientation, "invalid_orientation"},
	{ErrIllegalMove, "illegal_move"},
	{ErrIllegalFence, "illegal_fence"},
}

// ErrorCode maps an engine error to a stable machine-friendly code.
// Unknown errors map to "internal", nil maps to "".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

// IsRuleViolation reports whether err is a rejection produced by the rules,
// as opposed to an infrastructure failure.
func IsRuleViolation(err error) bool {
	code := ErrorCode(err)
	return code != "" && code != "internal"
}
