package main

import (
	"fmt"
	"io"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/transport/mcp"
)

// demoStep is one scripted action. Orientation is empty for pawn moves.
type demoStep struct {
	Player      engine.PlayerID
	Orientation string
	Target      engine.Coord
}

func move(p engine.PlayerID, col, row int) demoStep {
	return demoStep{Player: p, Target: engine.Coord{Col: col, Row: row}}
}

func fence(p engine.PlayerID, o string, col, row int) demoStep {
	return demoStep{Player: p, Orientation: o, Target: engine.Coord{Col: col, Row: row}}
}

// demoScript mixes accepted and rejected actions: out-of-turn moves, duplicate
// fences, straight jumps and diagonal side-steps.
var demoScript = []demoStep{
	move(engine.PlayerOne, 4, 1),
	move(engine.PlayerTwo, 5, 8),
	fence(engine.PlayerOne, "v", 7, 6),
	move(engine.PlayerTwo, 5, 8),
	fence(engine.PlayerTwo, "h", 2, 5),
	fence(engine.PlayerOne, "h", 3, 3),
	fence(engine.PlayerTwo, "h", 0, 3),
	move(engine.PlayerOne, 4, 2),
	move(engine.PlayerTwo, 4, 7),
	move(engine.PlayerTwo, 4, 8),
	move(engine.PlayerOne, 4, 3),
	move(engine.PlayerTwo, 5, 7),
	move(engine.PlayerTwo, 4, 7),
	move(engine.PlayerOne, 4, 4),
	move(engine.PlayerTwo, 4, 6),
	fence(engine.PlayerOne, "h", 4, 4),
	move(engine.PlayerTwo, 4, 5),
	fence(engine.PlayerOne, "v", 0, 0),
	fence(engine.PlayerOne, "v", 4, 0),
	move(engine.PlayerTwo, 5, 4),
	move(engine.PlayerOne, 6, 4),
	fence(engine.PlayerOne, "h", 5, 4),
	move(engine.PlayerTwo, 6, 4),
	move(engine.PlayerOne, 4, 5),
	move(engine.PlayerTwo, 6, 3),
	move(engine.PlayerOne, 4, 6),
}

// runDemo plays the script against a fresh game, printing one line per action and
// the final board. It returns the number of accepted actions.
func runDemo(w io.Writer, rules *engine.RuleSet) (int, error) {
	game, err := engine.NewGameWithRules(rules)
	if err != nil {
		return 0, err
	}

	accepted := 0
	for i, step := range demoScript {
		var (
			label  string
			actErr error
		)
		if step.Orientation == "" {
			label = fmt.Sprintf("%s move to %s", step.Player, step.Target)
			actErr = game.MovePawn(step.Player, step.Target)
		} else {
			label = fmt.Sprintf("%s fence %s at %s", step.Player, step.Orientation, step.Target)
			o, perr := engine.ParseOrientation(step.Orientation)
			if perr != nil {
				actErr = perr
			} else {
				actErr = game.PlaceFence(step.Player, o, step.Target)
			}
		}

		if actErr == nil {
			accepted++
			fmt.Fprintf(w, "%2d. %-28s true\n", i+1, label)
			continue
		}
		if !engine.IsRuleViolation(actErr) {
			return accepted, fmt.Errorf("step %d: %w", i+1, actErr)
		}
		fmt.Fprintf(w, "%2d. %-28s false (%s)\n", i+1, label, engine.ErrorCode(actErr))
	}

	state := game.GetState()
	fmt.Fprintf(w, "\n%s", mcp.RenderBoard(state))
	if winner := game.Winner(); winner != engine.NoPlayer {
		fmt.Fprintf(w, "Winner: %s\n", winner)
	} else {
		fmt.Fprintf(w, "Turn: %s\n", state.Turn)
	}

	return accepted, nil
}
