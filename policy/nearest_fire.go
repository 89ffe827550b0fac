package policy

import "github.com/forest-guardian/forest-guardian-api/sim"

// NearestFirePolicy steers each agent toward its closest fire by Manhattan
// distance and suppresses once the fire is within reach of the 3x3 nozzle.
// Ties between equally close fires resolve to the first in row-major order,
// so the policy is fully deterministic.
type NearestFirePolicy struct{}

// Name identifies the policy in mission records.
func (NearestFirePolicy) Name() string { return "nearest-fire" }

// Decide returns one action per agent.
func (NearestFirePolicy) Decide(obs *sim.Observation, numAgents int) []sim.Action {
	fires := firePositions(obs.Grid)
	actions := make([]sim.Action, numAgents)
	for i := range actions {
		actions[i] = decideOne(obs.Grid, 3+i, fires)
	}
	return actions
}

func decideOne(grid [][]int, marker int, fires []sim.CellPosition) sim.Action {
	self, found := findMarker(grid, marker)
	if !found || len(fires) == 0 {
		return sim.ActionIdle
	}

	target := fires[0]
	best := manhattan(self, target)
	for _, f := range fires[1:] {
		if d := manhattan(self, f); d < best {
			best, target = d, f
		}
	}

	// Within the 3x3 suppress neighborhood.
	if chebyshev(self, target) <= 1 {
		return sim.ActionSuppress
	}

	// Close the larger axis gap first.
	dr := target.Row - self.Row
	dc := target.Col - self.Col
	if abs(dr) >= abs(dc) {
		if dr < 0 {
			return sim.ActionMoveUp
		}
		return sim.ActionMoveDown
	}
	if dc < 0 {
		return sim.ActionMoveLeft
	}
	return sim.ActionMoveRight
}

func firePositions(grid [][]int) []sim.CellPosition {
	var fires []sim.CellPosition
	for row := range grid {
		for col, cell := range grid[row] {
			if cell == int(sim.TerrainFire) {
				fires = append(fires, sim.CellPosition{Row: row, Col: col})
			}
		}
	}
	return fires
}

func findMarker(grid [][]int, marker int) (sim.CellPosition, bool) {
	for row := range grid {
		for col, cell := range grid[row] {
			if cell == marker {
				return sim.CellPosition{Row: row, Col: col}, true
			}
		}
	}
	return sim.CellPosition{}, false
}

func manhattan(a, b sim.CellPosition) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func chebyshev(a, b sim.CellPosition) int {
	dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
	if dr > dc {
		return dr
	}
	return dc
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
