package sim

// Action enumerates the closed set of per-step agent commands. Movement is
// one cell in a cardinal direction; Suppress and Firebreak act on the 3x3
// neighborhood around the agent.
type Action uint8

const (
	ActionMoveUp Action = iota
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionIdle
	ActionSuppress
	ActionFirebreak

	actionCount
)

var actionNames = [actionCount]string{
	"MoveUp", "MoveDown", "MoveLeft", "MoveRight", "Idle", "Suppress", "Firebreak",
}

// String returns the action name, or "Invalid" for out-of-range values.
func (a Action) String() string {
	if a >= actionCount {
		return "Invalid"
	}
	return actionNames[a]
}

// Valid reports whether the action is a member of the closed action set.
func (a Action) Valid() bool { return a < actionCount }

// IsMove reports whether the action is one of the four movement commands.
func (a Action) IsMove() bool { return a <= ActionMoveRight }

func (a Action) moveDelta() CellPosition {
	switch a {
	case ActionMoveUp:
		return Directions["North"]
	case ActionMoveDown:
		return Directions["South"]
	case ActionMoveLeft:
		return Directions["West"]
	case ActionMoveRight:
		return Directions["East"]
	}
	return CellPosition{}
}

// Agent is one autonomous unit on the grid. Role is an advisory label for
// policies and mission logs; it has no effect on the physics.
type Agent struct {
	Position CellPosition
	Water    int
	Role     string
}

// actuator resolves the whole team's actions for one step: batch movement
// with collision handling first, then cell mutations (suppress, firebreak,
// refill) at the settled positions.
type actuator struct {
	grid        *GridWorld
	rewards     RewardConfig
	finiteWater bool
	maxWater    int
	riverRow    int
}

// actionEffect reports the cell mutations one agent caused, so the engine
// can keep fire ages and KPIs in sync.
type actionEffect struct {
	extinguished []CellPosition
	reward       float64
}

// resolveMoves computes every agent's post-move position atomically. Each
// proposal is clamped to the grid, rejected if the target cell is occupied by
// any other agent's pre-step position, and rejected if a lower-indexed agent
// claimed the same target this step. Rejected movers stay put. Resolving
// against the pre-step snapshot keeps the outcome independent of agent order.
func (ac *actuator) resolveMoves(agents []Agent, actions []Action) []CellPosition {
	current := make([]CellPosition, len(agents))
	for i, a := range agents {
		current[i] = a.Position
	}

	proposed := make([]CellPosition, len(agents))
	for i, action := range actions {
		proposed[i] = current[i]
		if !action.IsMove() {
			continue
		}
		delta := action.moveDelta()
		candidate := CellPosition{
			Row: clampInt(current[i].Row+delta.Row, 0, ac.grid.Size()-1),
			Col: clampInt(current[i].Col+delta.Col, 0, ac.grid.Size()-1),
		}
		if ac.occupiedByOther(current, i, candidate) {
			continue
		}
		proposed[i] = candidate
	}

	// Second pass: when several agents claim the same cell, the lowest
	// index wins and the rest stay at their pre-step positions.
	for i := range proposed {
		for j := 0; j < i; j++ {
			if proposed[i] == proposed[j] && proposed[i] != current[i] {
				proposed[i] = current[i]
				break
			}
		}
	}
	return proposed
}

func (ac *actuator) occupiedByOther(current []CellPosition, self int, pos CellPosition) bool {
	for i, c := range current {
		if i != self && c == pos {
			return true
		}
	}
	return false
}

// apply executes one agent's non-movement effect at its settled position and
// returns the resulting cell changes and reward delta. The agent's water is
// the only other state it may touch.
func (ac *actuator) apply(agent *Agent, action Action) actionEffect {
	switch action {
	case ActionSuppress:
		return ac.suppress(agent)
	case ActionFirebreak:
		return ac.firebreak(agent)
	case ActionIdle:
		if ac.finiteWater && agent.Position.Row == ac.riverRow {
			agent.Water = ac.maxWater
		}
	}
	return actionEffect{}
}

// suppress extinguishes every fire cell within Chebyshev distance 1 of the
// agent. The action consumes one unit of water regardless of how many cells
// it clears; with an empty tank it does nothing.
func (ac *actuator) suppress(agent *Agent) actionEffect {
	var effect actionEffect
	if ac.finiteWater && agent.Water <= 0 {
		effect.reward -= ac.rewards.WastedSuppressCost
		return effect
	}

	for _, pos := range ac.neighborhood(agent.Position) {
		if ac.grid.At(pos) == TerrainFire {
			ac.grid.Set(pos, TerrainEmpty)
			effect.extinguished = append(effect.extinguished, pos)
			effect.reward += ac.rewards.SuppressBonus
		}
	}

	if len(effect.extinguished) == 0 {
		effect.reward -= ac.rewards.WastedSuppressCost
		return effect
	}
	if ac.finiteWater {
		agent.Water--
	}
	return effect
}

// firebreak clears every healthy tree within Chebyshev distance 1 of the
// agent, trading standing forest for a fuel gap ahead of the front.
func (ac *actuator) firebreak(agent *Agent) actionEffect {
	var effect actionEffect
	for _, pos := range ac.neighborhood(agent.Position) {
		if ac.grid.At(pos) == TerrainTree {
			ac.grid.Set(pos, TerrainEmpty)
			effect.reward -= ac.rewards.FirebreakCost
		}
	}
	return effect
}

// neighborhood returns the in-bound 3x3 block centered on pos, including pos
// itself.
func (ac *actuator) neighborhood(pos CellPosition) []CellPosition {
	result := make([]CellPosition, 0, 9)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			p := CellPosition{Row: pos.Row + dr, Col: pos.Col + dc}
			if ac.grid.InBound(p) {
				result = append(result, p)
			}
		}
	}
	return result
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
