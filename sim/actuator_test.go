package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActuator(size int) *actuator {
	return &actuator{
		grid:    NewGridWorld(size),
		rewards: DefaultRewards(),
	}
}

func TestResolveMoves(t *testing.T) {
	t.Run("border moves are clamped in place", func(t *testing.T) {
		ac := newTestActuator(10)
		agents := []Agent{{Position: CellPosition{Row: 0, Col: 0}}}

		settled := ac.resolveMoves(agents, []Action{ActionMoveUp})
		assert.Equal(t, CellPosition{Row: 0, Col: 0}, settled[0])

		settled = ac.resolveMoves(agents, []Action{ActionMoveLeft})
		assert.Equal(t, CellPosition{Row: 0, Col: 0}, settled[0])
	})

	t.Run("free cell move succeeds", func(t *testing.T) {
		ac := newTestActuator(10)
		agents := []Agent{{Position: CellPosition{Row: 4, Col: 4}}}

		settled := ac.resolveMoves(agents, []Action{ActionMoveRight})
		assert.Equal(t, CellPosition{Row: 4, Col: 5}, settled[0])
	})

	t.Run("lower index wins a contested cell", func(t *testing.T) {
		ac := newTestActuator(10)
		agents := []Agent{
			{Position: CellPosition{Row: 2, Col: 2}},
			{Position: CellPosition{Row: 2, Col: 4}},
		}

		settled := ac.resolveMoves(agents, []Action{ActionMoveRight, ActionMoveLeft})
		assert.Equal(t, CellPosition{Row: 2, Col: 3}, settled[0])
		assert.Equal(t, CellPosition{Row: 2, Col: 4}, settled[1], "loser stays at its pre-step position")
	})

	t.Run("pre-step occupancy blocks even a vacating agent's cell", func(t *testing.T) {
		ac := newTestActuator(10)
		agents := []Agent{
			{Position: CellPosition{Row: 2, Col: 2}},
			{Position: CellPosition{Row: 2, Col: 3}},
		}

		// Agent 0 vacates (2,2) but agent 1 still may not enter it this
		// step; resolution runs against the pre-step snapshot.
		settled := ac.resolveMoves(agents, []Action{ActionMoveLeft, ActionMoveLeft})
		assert.Equal(t, CellPosition{Row: 2, Col: 1}, settled[0])
		assert.Equal(t, CellPosition{Row: 2, Col: 3}, settled[1])
	})

	t.Run("non-move actions never change position", func(t *testing.T) {
		ac := newTestActuator(10)
		agents := []Agent{{Position: CellPosition{Row: 5, Col: 5}}}

		for _, action := range []Action{ActionIdle, ActionSuppress, ActionFirebreak} {
			settled := ac.resolveMoves(agents, []Action{action})
			assert.Equal(t, CellPosition{Row: 5, Col: 5}, settled[0], action.String())
		}
	})
}

func TestSuppress(t *testing.T) {
	t.Run("clears every fire in the 3x3 block", func(t *testing.T) {
		ac := newTestActuator(10)
		ac.grid.Set(CellPosition{Row: 4, Col: 5}, TerrainFire)
		ac.grid.Set(CellPosition{Row: 6, Col: 6}, TerrainFire)
		ac.grid.Set(CellPosition{Row: 5, Col: 8}, TerrainFire) // out of range

		agent := Agent{Position: CellPosition{Row: 5, Col: 5}}
		effect := ac.apply(&agent, ActionSuppress)

		assert.Len(t, effect.extinguished, 2)
		assert.InDelta(t, 2*ac.rewards.SuppressBonus, effect.reward, 1e-9)
		assert.Equal(t, TerrainEmpty, ac.grid.At(CellPosition{Row: 4, Col: 5}))
		assert.Equal(t, TerrainEmpty, ac.grid.At(CellPosition{Row: 6, Col: 6}))
		assert.Equal(t, TerrainFire, ac.grid.At(CellPosition{Row: 5, Col: 8}), "distant fire untouched")
	})

	t.Run("wasted suppress is penalized and costs no water", func(t *testing.T) {
		ac := newTestActuator(10)
		ac.finiteWater = true
		ac.maxWater = 5

		agent := Agent{Position: CellPosition{Row: 5, Col: 5}, Water: 5}
		effect := ac.apply(&agent, ActionSuppress)

		assert.InDelta(t, -ac.rewards.WastedSuppressCost, effect.reward, 1e-9)
		assert.Empty(t, effect.extinguished)
		assert.Equal(t, 5, agent.Water)
	})

	t.Run("one water unit per action, not per cell", func(t *testing.T) {
		ac := newTestActuator(10)
		ac.finiteWater = true
		ac.maxWater = 5
		ac.grid.Set(CellPosition{Row: 4, Col: 4}, TerrainFire)
		ac.grid.Set(CellPosition{Row: 4, Col: 5}, TerrainFire)
		ac.grid.Set(CellPosition{Row: 4, Col: 6}, TerrainFire)

		agent := Agent{Position: CellPosition{Row: 5, Col: 5}, Water: 5}
		effect := ac.apply(&agent, ActionSuppress)

		assert.Len(t, effect.extinguished, 3)
		assert.Equal(t, 4, agent.Water)
	})

	t.Run("empty tank suppresses nothing", func(t *testing.T) {
		ac := newTestActuator(10)
		ac.finiteWater = true
		ac.maxWater = 5
		firePos := CellPosition{Row: 4, Col: 5}
		ac.grid.Set(firePos, TerrainFire)

		agent := Agent{Position: CellPosition{Row: 5, Col: 5}, Water: 0}
		effect := ac.apply(&agent, ActionSuppress)

		assert.InDelta(t, -ac.rewards.WastedSuppressCost, effect.reward, 1e-9)
		assert.Equal(t, TerrainFire, ac.grid.At(firePos))
	})
}

func TestFirebreak(t *testing.T) {
	ac := newTestActuator(10)
	ac.grid.Set(CellPosition{Row: 4, Col: 5}, TerrainTree)
	ac.grid.Set(CellPosition{Row: 5, Col: 4}, TerrainTree)
	firePos := CellPosition{Row: 6, Col: 5}
	ac.grid.Set(firePos, TerrainFire)

	agent := Agent{Position: CellPosition{Row: 5, Col: 5}}
	effect := ac.apply(&agent, ActionFirebreak)

	assert.InDelta(t, -2*ac.rewards.FirebreakCost, effect.reward, 1e-9)
	assert.Equal(t, TerrainEmpty, ac.grid.At(CellPosition{Row: 4, Col: 5}))
	assert.Equal(t, TerrainEmpty, ac.grid.At(CellPosition{Row: 5, Col: 4}))
	assert.Equal(t, TerrainFire, ac.grid.At(firePos), "firebreak never touches burning cells")
}

func TestIdleRefill(t *testing.T) {
	ac := newTestActuator(10)
	ac.finiteWater = true
	ac.maxWater = 5
	ac.riverRow = 3

	t.Run("on the river row", func(t *testing.T) {
		agent := Agent{Position: CellPosition{Row: 3, Col: 7}, Water: 1}
		ac.apply(&agent, ActionIdle)
		assert.Equal(t, 5, agent.Water)
	})

	t.Run("away from the river", func(t *testing.T) {
		agent := Agent{Position: CellPosition{Row: 4, Col: 7}, Water: 1}
		ac.apply(&agent, ActionIdle)
		assert.Equal(t, 1, agent.Water)
	})
}

func TestNeighborhoodCorner(t *testing.T) {
	ac := newTestActuator(10)
	block := ac.neighborhood(CellPosition{Row: 0, Col: 0})
	require.Len(t, block, 4)
	for _, pos := range block {
		assert.True(t, ac.grid.InBound(pos))
	}
}

func TestActionStrings(t *testing.T) {
	assert.Equal(t, "Suppress", ActionSuppress.String())
	assert.Equal(t, "Invalid", Action(42).String())
	assert.False(t, Action(42).Valid())
	assert.True(t, ActionMoveRight.IsMove())
	assert.False(t, ActionIdle.IsMove())
}
