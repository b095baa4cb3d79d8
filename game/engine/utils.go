package engine

// ShortestPathLength returns the number of orthogonal steps from start to any cell
// on goalRow, ignoring pawns. It returns UnreachableDistance when fences seal the
// goal row off.
func ShortestPathLength(b *Board, start Coord, goalRow int) int {
	if !start.OnBoard() {
		return UnreachableDistance
	}

	var dist [BoardSize][BoardSize]int
	for row := range dist {
		for col := range dist[row] {
			dist[row][col] = -1
		}
	}

	queue := []Coord{start}
	dist[start.Row][start.Col] = 0

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if c.Row == goalRow {
			return dist[c.Row][c.Col]
		}

		for _, d := range Directions {
			if b.Blocked(c, d) {
				continue
			}
			n := c.Step(d)
			if !n.OnBoard() || dist[n.Row][n.Col] >= 0 {
				continue
			}
			dist[n.Row][n.Col] = dist[c.Row][c.Col] + 1
			queue = append(queue, n)
		}
	}

	return UnreachableDistance
}

// HasPathToGoal reports whether a pawn at start can still reach goalRow
func HasPathToGoal(b *Board, start Coord, goalRow int) bool {
	return ShortestPathLength(b, start, goalRow) != UnreachableDistance
}

// GoalDistances returns each player's shortest path length to their goal row
func GoalDistances(state *GameState) map[PlayerID]int {
	distances := make(map[PlayerID]int, 2)
	for _, p := range state.Players {
		if p == nil {
			continue
		}
		distances[p.ID] = ShortestPathLength(state.Board, p.Position, p.GoalRow())
	}
	return distances
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
