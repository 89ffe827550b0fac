package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

// barrenConfig disables every stochastic feature so tests can stage the grid
// by hand after Reset.
func barrenConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialTrees = 0
	cfg.InitialFires = 0
	cfg.NumAgents = 1
	cfg.WindEnabled = false
	cfg.ElevationEnabled = false
	cfg.MoistureEnabled = false
	cfg.FireSpreadProb = 0
	return cfg
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 100
	_, err := NewEngine(cfg)
	assert.Error(t, err)
}

func TestStepBeforeReset(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig())
	_, err := engine.Step([]Action{ActionIdle, ActionIdle})
	assert.ErrorIs(t, err, ErrNotReset)
}

func TestResetPopulatesEpisode(t *testing.T) {
	cfg := DefaultConfig()
	engine := newTestEngine(t, cfg)
	obs := engine.Reset(42)

	require.Len(t, obs.Grid, cfg.GridSize)
	for _, row := range obs.Grid {
		require.Len(t, row, cfg.GridSize)
	}

	agents := engine.Agents()
	require.Len(t, agents, cfg.NumAgents)
	assert.Equal(t, "ALPHA", agents[0].Role)
	assert.Equal(t, "BRAVO", agents[1].Role)

	for i, a := range agents {
		assert.True(t, engine.Grid().InBound(a.Position))
		assert.Equal(t, 3+i, obs.Grid[a.Position.Row][a.Position.Col], "agent marker overlaid")
	}

	assert.Equal(t, cfg.InitialFires, engine.Grid().Count(TerrainFire))
	assert.Zero(t, engine.StepCount())
	assert.Zero(t, engine.WaterUsed())
}

func TestResetOverlayDoesNotMutateTerrain(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig())
	engine.Reset(42)

	pos := engine.Agents()[0].Position
	terrain := engine.Grid().At(pos)
	assert.True(t, terrain == TerrainEmpty || terrain == TerrainTree,
		"agent stands on real terrain, never on a marker value")
}

func TestVacatedCellKeepsItsTerrain(t *testing.T) {
	engine := newTestEngine(t, barrenConfig())
	engine.Reset(1)

	// Put the agent on a tree, then walk it off. The marker is a render
	// overlay only, so the vacated cell must reappear as a tree, not Empty.
	start := engine.Agents()[0].Position
	engine.Grid().Set(start, TerrainTree)

	move := ActionMoveRight
	if start.Col == engine.Config().GridSize-1 {
		move = ActionMoveLeft
	}

	result, err := engine.Step([]Action{move})
	require.NoError(t, err)

	settled := engine.Agents()[0].Position
	require.NotEqual(t, start, settled)
	assert.Equal(t, TerrainTree, engine.Grid().At(start))
	assert.Equal(t, int(TerrainTree), result.Observation.Grid[start.Row][start.Col])
	assert.Equal(t, 3, result.Observation.Grid[settled.Row][settled.Col])
}

func TestActionValidation(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig())
	engine.Reset(42)

	t.Run("wrong action count", func(t *testing.T) {
		_, err := engine.Step([]Action{ActionIdle})
		assert.ErrorIs(t, err, ErrActionCount)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := engine.Step([]Action{ActionIdle, Action(42)})
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("firebreak while disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FirebreakEnabled = false
		disabled := newTestEngine(t, cfg)
		disabled.Reset(42)
		_, err := disabled.Step([]Action{ActionFirebreak, ActionIdle})
		assert.ErrorIs(t, err, ErrFirebreakOff)
	})

	t.Run("rejected step does not advance the episode", func(t *testing.T) {
		before := engine.StepCount()
		_, err := engine.Step([]Action{ActionIdle})
		require.Error(t, err)
		assert.Equal(t, before, engine.StepCount())
	})
}

func TestEmptyWorldSucceedsImmediately(t *testing.T) {
	engine := newTestEngine(t, barrenConfig())
	engine.Reset(1)

	result, err := engine.Step([]Action{ActionIdle})
	require.NoError(t, err)

	assert.True(t, result.Terminated)
	assert.False(t, result.Truncated)
	assert.Zero(t, result.Info.ActiveFires)
	assert.InDelta(t, engine.Config().Rewards.SuccessBonus, result.Reward, 1e-9)

	_, err = engine.Step([]Action{ActionIdle})
	assert.ErrorIs(t, err, ErrEpisodeOver)
}

func TestZeroSpreadRunsToTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FireSpreadProb = 0
	cfg.WindEnabled = false
	cfg.ElevationEnabled = false
	cfg.MoistureEnabled = false
	cfg.MaxSteps = 50
	engine := newTestEngine(t, cfg)
	engine.Reset(7)

	initialFires := engine.Grid().Count(TerrainFire)
	require.Equal(t, cfg.InitialFires, initialFires)

	idle := []Action{ActionIdle, ActionIdle}
	var last *StepResult
	for {
		result, err := engine.Step(idle)
		require.NoError(t, err)
		require.False(t, result.Terminated && result.Truncated, "terminated and truncated are exclusive")
		last = result
		if result.Terminated || result.Truncated {
			break
		}
	}

	assert.True(t, last.Truncated)
	assert.False(t, last.Terminated)
	assert.Equal(t, cfg.MaxSteps, last.Info.Step)
	assert.Equal(t, initialFires, last.Info.ActiveFires, "unattended fires persist without spread or burnout")
}

func TestSuppressAdjacentFireEndsEpisode(t *testing.T) {
	engine := newTestEngine(t, barrenConfig())
	engine.Reset(1)

	agent := engine.Agents()[0]
	firePos := CellPosition{Row: agent.Position.Row, Col: agent.Position.Col + 1}
	if !engine.Grid().InBound(firePos) {
		firePos = CellPosition{Row: agent.Position.Row, Col: agent.Position.Col - 1}
	}
	engine.Grid().Set(firePos, TerrainFire)

	result, err := engine.Step([]Action{ActionSuppress})
	require.NoError(t, err)

	rewards := engine.Config().Rewards
	assert.True(t, result.Terminated)
	assert.Zero(t, result.Info.ActiveFires)
	assert.InDelta(t, rewards.SuppressBonus+rewards.SuccessBonus, result.Reward, 1e-9)
	assert.Equal(t, TerrainEmpty, engine.Grid().At(firePos))
}

func TestFiniteWaterAccounting(t *testing.T) {
	cfg := barrenConfig()
	cfg.FiniteWater = true
	cfg.MaxWater = 3
	cfg.RiverRow = 0
	engine := newTestEngine(t, cfg)
	engine.Reset(1)

	agent := engine.Agents()[0]
	firePos := CellPosition{Row: agent.Position.Row, Col: agent.Position.Col + 1}
	if !engine.Grid().InBound(firePos) {
		firePos = CellPosition{Row: agent.Position.Row, Col: agent.Position.Col - 1}
	}
	engine.Grid().Set(firePos, TerrainFire)

	_, err := engine.Step([]Action{ActionSuppress})
	require.NoError(t, err)

	assert.Equal(t, 1, engine.WaterUsed())
	assert.Equal(t, cfg.MaxWater-1, engine.Agents()[0].Water)
}

func TestAggressiveFireDestroysForest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FireSpreadProb = 0.5
	cfg.InitialTrees = 0.9
	cfg.InitialFires = 5
	cfg.NumAgents = 1
	cfg.MaxSteps = 200
	cfg.WindEnabled = false
	cfg.ElevationEnabled = false
	cfg.MoistureEnabled = false
	engine := newTestEngine(t, cfg)
	engine.Reset(3)

	var last *StepResult
	for {
		result, err := engine.Step([]Action{ActionIdle})
		require.NoError(t, err)
		last = result
		if result.Terminated || result.Truncated {
			break
		}
	}

	assert.True(t, last.Terminated, "a dense unattended forest burns past the destruction threshold")
	assert.False(t, last.Truncated)
	assert.Less(t, last.Reward, 0.0, "destruction carries the failure cost")
}

func TestDeterminismUnderFixedSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtendedObs = true
	first := newTestEngine(t, cfg)
	second := newTestEngine(t, cfg)

	obsA := first.Reset(99)
	obsB := second.Reset(99)
	require.Equal(t, obsA, obsB)

	for step := 0; step < 40; step++ {
		actions := []Action{Action(step % 6), Action((step + 3) % 6)}
		resA, errA := first.Step(actions)
		resB, errB := second.Step(actions)
		require.NoError(t, errA)
		require.NoError(t, errB)

		assert.Equal(t, resA.Observation, resB.Observation, "step %d", step)
		assert.InDelta(t, resA.Reward, resB.Reward, 1e-12, "step %d", step)
		assert.Equal(t, resA.Terminated, resB.Terminated, "step %d", step)
		assert.Equal(t, resA.Truncated, resB.Truncated, "step %d", step)
		if resA.Terminated || resA.Truncated {
			break
		}
	}
}

func TestExtendedObservation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtendedObs = true
	cfg.FixedWind = &Wind{DirectionDeg: 90, SpeedKmh: 15}
	engine := newTestEngine(t, cfg)
	obs := engine.Reset(5)

	require.Len(t, obs.Wind, 2)
	assert.InDelta(t, 0.25, obs.Wind[0], 1e-9)
	assert.InDelta(t, 0.5, obs.Wind[1], 1e-9)

	require.Len(t, obs.Elevation, cfg.GridSize)
	for _, row := range obs.Elevation {
		require.Len(t, row, cfg.GridSize)
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestCompactObservationOmitsExtras(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig())
	obs := engine.Reset(5)
	assert.Nil(t, obs.Wind)
	assert.Nil(t, obs.Elevation)
}

func TestEventSinkReceivesEpisodeEnd(t *testing.T) {
	engine := newTestEngine(t, barrenConfig())
	sink := &recordingSink{}
	engine.SetEventSink(sink)
	engine.Reset(1)

	_, err := engine.Step([]Action{ActionIdle})
	require.NoError(t, err)

	require.Len(t, sink.ends, 1)
	end := sink.ends[0]
	assert.True(t, end.Succeeded)
	assert.Equal(t, 1, end.Steps)
	assert.Zero(t, end.ActiveFires)
}

func TestAgentsStayInBounds(t *testing.T) {
	cfg := DefaultConfig()
	engine := newTestEngine(t, cfg)
	engine.Reset(13)

	// Every agent slams into the same wall for many steps; positions must
	// clamp rather than escape.
	for step := 0; step < 30; step++ {
		result, err := engine.Step([]Action{ActionMoveUp, ActionMoveUp})
		require.NoError(t, err)
		for _, a := range engine.Agents() {
			require.True(t, engine.Grid().InBound(a.Position))
		}
		if result.Terminated || result.Truncated {
			break
		}
	}
}

type recordingSink struct {
	samples []float64
	ends    []EpisodeResult
}

func (r *recordingSink) OnMoistureSample(_ CellPosition, value float64) {
	r.samples = append(r.samples, value)
}

func (r *recordingSink) OnEpisodeEnd(result EpisodeResult) {
	r.ends = append(r.ends, result)
}
