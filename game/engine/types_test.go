package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestPlayerID(t *testing.T) {
	if PlayerOne.Opponent() != PlayerTwo || PlayerTwo.Opponent() != PlayerOne {
		t.Error("Opponent should swap seats")
	}
	if NoPlayer.Valid() || PlayerID(3).Valid() {
		t.Error("Only seats 1 and 2 are valid")
	}
	if PlayerOne.String() != "P1" || NoPlayer.String() != "none" {
		t.Errorf("Unexpected names %s, %s", PlayerOne, NoPlayer)
	}
}

func TestDirection(t *testing.T) {
	for _, d := range Directions {
		dc, dr := d.Delta()
		oc, or := d.Opposite().Delta()
		if dc != -oc || dr != -or {
			t.Errorf("%s and its opposite should cancel out", d)
		}
		back, ok := directionOf(dc, dr)
		if !ok || back != d {
			t.Errorf("directionOf(%d,%d) = %s, want %s", dc, dr, back, d)
		}
	}
	if _, ok := directionOf(1, 1); ok {
		t.Error("diagonal delta has no direction")
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"v", Vertical, false},
		{"V", Vertical, false},
		{"vertical", Vertical, false},
		{"h", Horizontal, false},
		{" Horizontal ", Horizontal, false},
		{"d", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			got, err := ParseOrientation(test.in)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidOrientation) {
					t.Errorf("Expected ErrInvalidOrientation, got %v", err)
				}
				return
			}
			if err != nil || got != test.want {
				t.Errorf("Expected %s, got %s (%v)", test.want, got, err)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{nil, ""},
		{errors.New("disk full"), "internal"},
		{ErrGameOver, "game_over"},
		{fmt.Errorf("%w: it is player 1's turn", ErrNotYourTurn), "not_your_turn"},
		{fmt.Errorf("%w: %w", ErrIllegalFence, ErrDuplicateFence), "duplicate_fence"},
		{fmt.Errorf("%w: %w", ErrIllegalFence, ErrPathBlocked), "path_blocked"},
		{fmt.Errorf("%w: %w", ErrIllegalMove, ErrOutOfBounds), "out_of_bounds"},
		{fmt.Errorf("%w: blocked", ErrIllegalMove), "illegal_move"},
		{ErrIllegalFence, "illegal_fence"},
	}

	for _, test := range tests {
		if got := ErrorCode(test.err); got != test.code {
			t.Errorf("ErrorCode(%v) = %q, want %q", test.err, got, test.code)
		}
	}

	if IsRuleViolation(errors.New("io")) || IsRuleViolation(nil) {
		t.Error("Infrastructure errors are not rule violations")
	}
	if !IsRuleViolation(ErrNotYourTurn) {
		t.Error("Expected ErrNotYourTurn to be a rule violation")
	}
}

func TestGameState_JSONRoundTripRestores(t *testing.T) {
	g := NewGame()
	g.MovePawn(PlayerOne, Coord{4, 1})
	g.PlaceFence(PlayerTwo, Vertical, Coord{2, 2})

	data, err := json.Marshal(g.GetState())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var restored GameState
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	other := NewGame()
	if err := other.SetState(&restored); err != nil {
		t.Fatalf("SetState on decoded snapshot: %v", err)
	}
	if other.CurrentTurn() != PlayerOne {
		t.Errorf("Expected player 1 to move, got %s", other.CurrentTurn())
	}
	if !other.GetState().Board.HasFence(Coord{1, 2}, East) {
		t.Error("Expected fence to survive the snapshot")
	}
	if len(other.FenceLedger(PlayerTwo)) != 1 {
		t.Error("Expected ledger to survive the snapshot")
	}
}

func TestGameState_CloneIsIndependent(t *testing.T) {
	g := NewGame()
	g.MovePawn(PlayerOne, Coord{4, 1})

	clone := g.GetState().Clone()
	g.PlaceFence(PlayerTwo, Horizontal, Coord{5, 5})

	if clone.Board.HasFence(Coord{5, 5}, North) {
		t.Error("Clone board should not see later fences")
	}
	if clone.Players[1].FencesRemaining != DefaultFencesPerPlayer {
		t.Error("Clone players should not see later fence spending")
	}
	if len(clone.History) != 1 || clone.Turn != PlayerTwo {
		t.Errorf("Clone should freeze history and turn, got %d entries, turn %s", len(clone.History), clone.Turn)
	}

	var nilState *GameState
	if nilState.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
