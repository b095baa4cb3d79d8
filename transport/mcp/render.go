package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

// RenderBoard draws the board as ASCII art. Row 0 is printed first, fenced edges
// are drawn as "---" and "|", open edges as blanks.
//
//	     0   1   2
//	   +---+---+---+
//	 0 | .   1   . |
//	   +   +---+   +
func RenderBoard(state *engine.GameState) string {
	if state == nil || state.Board == nil {
		return ""
	}
	b := state.Board

	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < engine.BoardSize; col++ {
		fmt.Fprintf(&sb, "  %d ", col)
	}
	sb.WriteString("\n")

	for row := 0; row <= engine.BoardSize; row++ {
		sb.WriteString("   +")
		for col := 0; col < engine.BoardSize; col++ {
			if horizontalEdge(b, col, row) {
				sb.WriteString("---+")
			} else {
				sb.WriteString("   +")
			}
		}
		sb.WriteString("\n")

		if row == engine.BoardSize {
			break
		}

		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < engine.BoardSize; col++ {
			c := engine.Coord{Col: col, Row: row}
			if b.HasFence(c, engine.West) {
				sb.WriteString("|")
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(cellGlyph(b.Cells[row][col].Occupant))
		}
		if b.HasFence(engine.Coord{Col: engine.BoardSize - 1, Row: row}, engine.East) {
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// horizontalEdge reports whether the line above row (or below the last row) is
// fenced at col
func horizontalEdge(b *engine.Board, col, row int) bool {
	if row < engine.BoardSize && b.HasFence(engine.Coord{Col: col, Row: row}, engine.North) {
		return true
	}
	return row > 0 && b.HasFence(engine.Coord{Col: col, Row: row - 1}, engine.South)
}

func cellGlyph(occupant engine.PlayerID) string {
	switch occupant {
	case engine.PlayerOne:
		return " 1 "
	case engine.PlayerTwo:
		return " 2 "
	}
	return " . "
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Rules: %s | Turn: %s | Actions: %d\n",
		state.RuleSetName, state.Turn, state.TotalActions))

	for _, p := range state.Players {
		if p == nil {
			continue
		}
		line := fmt.Sprintf("%s at %s | fences left: %d | goal row: %d",
			p.ID, p.Position, p.FencesRemaining, p.GoalRow())
		if d, ok := state.GoalDistance[p.ID]; ok {
			line += fmt.Sprintf(" | distance: %s", formatDistance(d))
		}
		result.WriteString(line + "\n")
	}
	result.WriteString("\n")
	result.WriteString(RenderBoard(state))

	if moves, ok := state.LegalMoves[state.Turn]; ok && state.Status == engine.InProgress {
		result.WriteString(fmt.Sprintf("\nLegal moves for %s: %s\n", state.Turn, formatCoords(moves)))
	}

	if state.Status == engine.Won {
		result.WriteString(fmt.Sprintf("\nWINNER: %s\n", state.Winner))
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatDistance(d int) string {
	if d >= engine.UnreachableDistance {
		return "unreachable"
	}
	return fmt.Sprintf("%d", d)
}

func formatCoords(coords []engine.Coord) string {
	if len(coords) == 0 {
		return "none"
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	if result.Success {
		b.WriteString(fmt.Sprintf("✓ %s %s accepted", result.Player, result.Action))
		if result.Kind != "" {
			b.WriteString(fmt.Sprintf(" (%s)", result.Kind))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(fmt.Sprintf("✗ %s %s rejected [%s]: %s\n",
			result.Player, result.Action, result.ErrorCode, result.Error))
	}

	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}

	for _, event := range result.Events {
		if event.Type == "victory" {
			b.WriteString(fmt.Sprintf("🏆 %s\n", event.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatActionRecord(record engine.ActionRecord) string {
	switch record.Action {
	case "move":
		from, to := "?", "?"
		if record.From != nil {
			from = record.From.String()
		}
		if record.To != nil {
			to = record.To.String()
		}
		return fmt.Sprintf("%s move %s -> %s [%s]", record.Player, from, to, record.Kind)
	case "fence":
		anchor := "?"
		if record.Anchor != nil {
			anchor = record.Anchor.String()
		}
		return fmt.Sprintf("%s fence %s at %s", record.Player, record.Orientation, anchor)
	}
	return fmt.Sprintf("%s %s", record.Player, record.Action)
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Action History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	if len(history.Actions) == 0 {
		return result + "(no actions yet)"
	}

	for _, action := range history.Actions {
		result += fmt.Sprintf("%d. %s\n", action.Number, formatActionRecord(action))
	}

	return result
}

func formatLegalMoves(resp *service.LegalMovesResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s at %s (goal row %d, distance %s)\n",
		resp.Player, resp.Position, resp.GoalRow, formatDistance(resp.GoalDistance)))
	if !resp.IsTurn {
		b.WriteString("Not this player's turn; moves listed for planning only.\n")
	}
	b.WriteString(fmt.Sprintf("Legal moves (%d): %s", len(resp.Moves), formatCoords(resp.Moves)))
	return b.String()
}

func formatFenceLedger(resp *service.FenceLedgerResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s fences: %d placed, %d remaining\n",
		resp.Player, len(resp.Fences), resp.FencesRemaining))
	for i, f := range resp.Fences {
		b.WriteString(fmt.Sprintf("%d. %s at %s (ends %s)\n", i+1, f.Orientation, f.Anchor, f.End))
	}
	return b.String()
}

// describeCell explains one square: who stands there, which edges are fenced and
// whose goal row it belongs to
func describeCell(state *engine.GameState, c engine.Coord) string {
	cell := state.Board.Cells[c.Row][c.Col]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Cell %s\n", c))

	switch cell.Occupant {
	case engine.NoPlayer:
		b.WriteString("Occupant: empty\n")
	default:
		b.WriteString(fmt.Sprintf("Occupant: %s\n", cell.Occupant))
	}

	var fenced, open []string
	for _, d := range engine.Directions {
		if state.Board.HasFence(c, d) {
			fenced = append(fenced, string(d))
		} else {
			open = append(open, string(d))
		}
	}
	sort.Strings(fenced)
	sort.Strings(open)
	b.WriteString(fmt.Sprintf("Fenced edges: %s\n", joinOrNone(fenced)))
	b.WriteString(fmt.Sprintf("Open edges: %s\n", joinOrNone(open)))

	for _, id := range []engine.PlayerID{engine.PlayerOne, engine.PlayerTwo} {
		if engine.GoalRow(id) == c.Row {
			b.WriteString(fmt.Sprintf("Goal row for %s\n", id))
		}
		if engine.HomeCoord(id) == c {
			b.WriteString(fmt.Sprintf("Starting cell of %s\n", id))
		}
	}

	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
