package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// Engine errors surfaced to callers.
var (
	ErrActionCount    = errors.New("action count does not match agent count")
	ErrInvalidAction  = errors.New("action outside the supported set")
	ErrEpisodeOver    = errors.New("episode already ended; call Reset")
	ErrNotReset       = errors.New("engine not reset; call Reset before Step")
	ErrFirebreakOff   = errors.New("firebreak action requested but the feature is disabled")
	ErrAgentOutOfGrid = errors.New("agent position escaped the grid")
)

// Retry budget for best-effort initial fire placement.
const firePlacementAttempts = 200

// Observation is what the engine hands to policies after Reset and every
// Step. Grid is always present: 0 empty, 1 tree, 2 fire and 3+i for agent i,
// overlaid on the terrain without mutating it. Wind and Elevation are filled
// only in extended mode.
type Observation struct {
	Grid      [][]int
	Wind      []float64   // [direction/360, speed/maxWindSpeed]
	Elevation [][]float64 // copy of the episode elevation map
}

// Info carries per-step diagnostics alongside the reward.
type Info struct {
	Step           int
	ActiveFires    int
	TreesRemaining int
	WindDirection  float64
	WindSpeed      float64
}

// StepResult bundles everything one engine step produces. Terminated and
// Truncated are mutually exclusive: episode-outcome checks run before the
// step-limit check and short-circuit it.
type StepResult struct {
	Observation *Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// maxWindSpeed bounds the random episode wind and normalizes the wind
// observation component.
const maxWindSpeed = 30.0

// Engine runs one episode at a time of the wildfire containment simulation.
// It owns the grid, the agents and a single seeded random generator; every
// stochastic draw of an episode flows through that generator, so a fixed
// seed and action sequence reproduce the exact trajectory. An Engine is not
// safe for concurrent use; run one per worker.
type Engine struct {
	cfg Config

	grid    *GridWorld
	agents  []Agent
	spread  *SpreadModel
	stepper *fireStepper
	rng     *rand.Rand
	sink    EventSink

	stepCount        int
	initialTreeCount int
	waterUsed        int
	ready            bool
	done             bool
}

// NewEngine validates the configuration and builds an engine. The engine is
// unusable until the first Reset.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	return &Engine{
		cfg:    cfg,
		spread: NewSpreadModel(cfg.FireSpreadProb, cfg.WindEnabled, cfg.ElevationEnabled, cfg.MoistureEnabled),
	}, nil
}

// SetEventSink registers an optional observer for moisture samples and
// episode ends. Passing nil detaches the current sink.
func (e *Engine) SetEventSink(sink EventSink) { e.sink = sink }

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Agents exposes a copy of the current agent states.
func (e *Engine) Agents() []Agent {
	out := make([]Agent, len(e.agents))
	copy(out, e.agents)
	return out
}

// Wind reports the current episode wind.
func (e *Engine) Wind() Wind { return e.spread.Wind() }

// Grid exposes the underlying world for read-mostly collaborators such as
// GIS projections. Mutating it outside Step corrupts the episode.
func (e *Engine) Grid() *GridWorld { return e.grid }

// WaterUsed reports the total water units spent this episode.
func (e *Engine) WaterUsed() int { return e.waterUsed }

// StepCount reports the number of completed steps this episode.
func (e *Engine) StepCount() int { return e.stepCount }

// Reset starts a fresh episode: new terrain, elevation, moisture, wind,
// agents and initial fires, all drawn from a generator seeded with the given
// value. A zero seed falls back to the configured default. Returns the
// initial observation.
func (e *Engine) Reset(seed int64) *Observation {
	if seed == 0 {
		seed = e.cfg.Seed
	}
	e.rng = rand.New(rand.NewSource(seed))
	e.grid = NewGridWorld(e.cfg.GridSize)
	e.stepCount = 0
	e.waterUsed = 0
	e.done = false
	e.ready = true

	e.grid.PlantTrees(e.cfg.InitialTrees, e.rng)
	e.initialTreeCount = e.grid.Count(TerrainTree)

	if e.cfg.ElevationEnabled {
		e.grid.GenerateElevation(e.rng)
	}
	if e.cfg.MoistureEnabled {
		e.grid.DeriveMoisture(e.rng)
	}

	wind := Wind{}
	if e.cfg.WindEnabled {
		wind = Wind{DirectionDeg: e.rng.Float64() * 360, SpeedKmh: e.rng.Float64() * maxWindSpeed}
		if e.cfg.FixedWind != nil {
			wind = *e.cfg.FixedWind
		}
	}
	e.spread.SetWind(wind)

	e.placeAgents()
	initialFires := e.placeFires()

	e.stepper = newFireStepper(e.spread, e.cfg.FireSpreadInterval, e.cfg.FireBurnoutAge)
	e.stepper.reset(initialFires)

	return e.observe()
}

// placeAgents drops each agent on a random cell not occupied by a teammate.
// Tree and empty cells are both fair game, and the agent stands on the
// terrain without altering it. Fires are placed afterwards and skip agent
// cells, so no agent starts on a burning cell.
func (e *Engine) placeAgents() {
	e.agents = make([]Agent, e.cfg.NumAgents)
	roles := [...]string{"ALPHA", "BRAVO", "CHARLIE"}

	taken := make(map[CellPosition]bool)
	for i := range e.agents {
		pos := CellPosition{Row: e.rng.Intn(e.cfg.GridSize), Col: e.rng.Intn(e.cfg.GridSize)}
		for attempt := 0; taken[pos] && attempt < firePlacementAttempts; attempt++ {
			pos = CellPosition{Row: e.rng.Intn(e.cfg.GridSize), Col: e.rng.Intn(e.cfg.GridSize)}
		}
		taken[pos] = true
		e.agents[i] = Agent{Position: pos, Water: e.cfg.MaxWater, Role: roles[i%len(roles)]}
	}
}

// placeFires ignites up to InitialFires tree cells not occupied by agents.
// Placement is best effort with a bounded retry budget: a sparse forest gets
// as many fires as it can hold rather than failing the episode.
func (e *Engine) placeFires() []CellPosition {
	occupied := make(map[CellPosition]bool)
	for _, a := range e.agents {
		occupied[a.Position] = true
	}

	var placed []CellPosition
	for attempt := 0; len(placed) < e.cfg.InitialFires && attempt < firePlacementAttempts; attempt++ {
		pos := CellPosition{Row: e.rng.Intn(e.cfg.GridSize), Col: e.rng.Intn(e.cfg.GridSize)}
		if occupied[pos] || e.grid.At(pos) != TerrainTree {
			continue
		}
		e.grid.Set(pos, TerrainFire)
		placed = append(placed, pos)
	}
	return placed
}

// Step advances the episode by one tick: validate actions, resolve all agent
// actions, advance the fire, then evaluate reward and termination. Calling
// Step on a finished episode is an error; callers must Reset first.
func (e *Engine) Step(actions []Action) (*StepResult, error) {
	if !e.ready {
		return nil, ErrNotReset
	}
	if e.done {
		return nil, ErrEpisodeOver
	}
	if err := e.validateActions(actions); err != nil {
		return nil, err
	}

	e.stepCount++
	reward := e.applyActions(actions)
	e.stepper.step(e.grid, e.rng, e.stepCount)

	if err := e.checkInvariants(); err != nil {
		return nil, err
	}

	activeFires := e.grid.Count(TerrainFire)
	treesRemaining := e.grid.Count(TerrainTree)
	reward -= e.cfg.Rewards.ActiveFirePenalty * float64(activeFires)
	reward += e.cfg.Rewards.TreeBonus * float64(treesRemaining)

	result := &StepResult{
		Reward: reward,
		Info: Info{
			Step:           e.stepCount,
			ActiveFires:    activeFires,
			TreesRemaining: treesRemaining,
			WindDirection:  e.spread.Wind().DirectionDeg,
			WindSpeed:      e.spread.Wind().SpeedKmh,
		},
	}

	// Outcome checks first, step limit last; a terminal outcome on the
	// final step wins over truncation.
	switch {
	case e.destroyed(treesRemaining):
		result.Reward -= e.cfg.Rewards.FailureCost
		result.Terminated = true
	case activeFires == 0:
		result.Reward += e.cfg.Rewards.SuccessBonus
		result.Terminated = true
	case e.stepCount >= e.cfg.MaxSteps:
		result.Truncated = true
	}

	if result.Terminated || result.Truncated {
		e.done = true
		if e.sink != nil {
			e.sink.OnEpisodeEnd(EpisodeResult{
				Steps:          e.stepCount,
				TreesRemaining: treesRemaining,
				ActiveFires:    activeFires,
				Terminated:     result.Terminated,
				Truncated:      result.Truncated,
				Succeeded:      result.Terminated && activeFires == 0,
			})
		}
	}

	result.Observation = e.observe()
	return result, nil
}

func (e *Engine) validateActions(actions []Action) error {
	if len(actions) != len(e.agents) {
		return fmt.Errorf("%w: got %d actions for %d agents", ErrActionCount, len(actions), len(e.agents))
	}
	for i, a := range actions {
		if !a.Valid() {
			return fmt.Errorf("%w: agent %d requested action %d", ErrInvalidAction, i, a)
		}
		if a == ActionFirebreak && !e.cfg.FirebreakEnabled {
			return fmt.Errorf("%w: agent %d", ErrFirebreakOff, i)
		}
	}
	return nil
}

// applyActions commits the batch move resolution, then each agent's cell
// effect, and finally the moisture sampling pass for agents that changed
// cells.
func (e *Engine) applyActions(actions []Action) float64 {
	ac := &actuator{
		grid:        e.grid,
		rewards:     e.cfg.Rewards,
		finiteWater: e.cfg.FiniteWater,
		maxWater:    e.cfg.MaxWater,
		riverRow:    e.cfg.RiverRow,
	}

	previous := make([]CellPosition, len(e.agents))
	for i, a := range e.agents {
		previous[i] = a.Position
	}

	settled := ac.resolveMoves(e.agents, actions)
	for i := range e.agents {
		e.agents[i].Position = settled[i]
	}

	var reward float64
	for i := range e.agents {
		waterBefore := e.agents[i].Water
		effect := ac.apply(&e.agents[i], actions[i])
		reward += effect.reward
		for _, pos := range effect.extinguished {
			e.stepper.extinguish(pos)
		}
		if spent := waterBefore - e.agents[i].Water; spent > 0 {
			e.waterUsed += spent
		}
	}

	if e.cfg.MoistureEnabled {
		for i := range e.agents {
			if e.agents[i].Position != previous[i] {
				e.sampleMoisture(e.agents[i].Position)
			}
		}
	}
	return reward
}

// sampleMoisture simulates a UAV taking a moisture reading as it crosses a
// cell: a small perturbation of the stored value, reported to the sink.
func (e *Engine) sampleMoisture(pos CellPosition) {
	perturbed := e.grid.Moisture(pos) + (e.rng.Float64()*2-1)*2
	e.grid.SetMoisture(pos, perturbed)
	if e.sink != nil {
		e.sink.OnMoistureSample(pos, e.grid.Moisture(pos))
	}
}

func (e *Engine) destroyed(treesRemaining int) bool {
	if e.initialTreeCount == 0 {
		return false
	}
	ratio := 1 - float64(treesRemaining)/float64(e.initialTreeCount)
	return ratio >= e.cfg.Rewards.DestructionThreshold
}

// checkInvariants guards against engine bugs, not runtime conditions: an
// agent outside the grid means the move resolution is broken.
func (e *Engine) checkInvariants() error {
	for i, a := range e.agents {
		if !e.grid.InBound(a.Position) {
			return fmt.Errorf("%w: agent %d at (%d, %d)", ErrAgentOutOfGrid, i, a.Position.Row, a.Position.Col)
		}
	}
	return nil
}

// observe renders the terrain with agent markers overlaid, plus the wind and
// elevation extras in extended mode. The returned structure shares nothing
// with engine state.
func (e *Engine) observe() *Observation {
	size := e.cfg.GridSize
	grid := make([][]int, size)
	for row := 0; row < size; row++ {
		grid[row] = make([]int, size)
		for col := 0; col < size; col++ {
			grid[row][col] = int(e.grid.At(CellPosition{Row: row, Col: col}))
		}
	}
	for i, a := range e.agents {
		grid[a.Position.Row][a.Position.Col] = 3 + i
	}

	obs := &Observation{Grid: grid}
	if !e.cfg.ExtendedObs {
		return obs
	}

	wind := e.spread.Wind()
	obs.Wind = []float64{wind.DirectionDeg / 360, wind.SpeedKmh / maxWindSpeed}
	obs.Elevation = make([][]float64, size)
	for row := 0; row < size; row++ {
		obs.Elevation[row] = make([]float64, size)
		for col := 0; col < size; col++ {
			obs.Elevation[row][col] = e.grid.Elevation(CellPosition{Row: row, Col: col})
		}
	}
	return obs
}
