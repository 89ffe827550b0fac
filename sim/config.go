package sim

import "fmt"

// Valid configuration ranges. Values outside these bounds are rejected at
// construction time, before any episode starts.
const (
	minGridSize = 8
	maxGridSize = 15

	maxSpreadProb = 0.5

	minTreeDensity = 0.3
	maxTreeDensity = 0.9

	minInitialFires = 1
	maxInitialFires = 5

	minAgents = 1
	maxAgents = 3

	minMaxSteps = 50
	maxMaxSteps = 200
)

// RewardConfig names every reward-shaping coefficient used by the engine.
// The defaults follow the richest reference scenario; they are tunables, not
// calibrated constants.
type RewardConfig struct {
	SuppressBonus        float64 // per fire cell extinguished
	WastedSuppressCost   float64 // suppress with no fire in range
	FirebreakCost        float64 // per healthy tree sacrificed
	ActiveFirePenalty    float64 // per active fire, every step
	TreeBonus            float64 // per surviving tree, every step
	SuccessBonus         float64 // all fires out
	FailureCost          float64 // destruction threshold crossed
	DestructionThreshold float64 // fraction of initial trees lost that fails the episode
}

// DefaultRewards returns the reference reward coefficients.
func DefaultRewards() RewardConfig {
	return RewardConfig{
		SuppressBonus:        10,
		WastedSuppressCost:   1,
		FirebreakCost:        1,
		ActiveFirePenalty:    0.1,
		TreeBonus:            0.1,
		SuccessBonus:         100,
		FailureCost:          100,
		DestructionThreshold: 0.8,
	}
}

// Config holds every tunable of the simulation engine. A single engine type
// parameterized by feature flags replaces the pile of divergent environment
// classes the project grew historically.
type Config struct {
	GridSize       int     // side length of the square grid
	FireSpreadProb float64 // base per-neighbor ignition probability
	InitialTrees   float64 // tree density at reset
	InitialFires   int     // fires ignited at reset, best effort
	NumAgents      int
	MaxSteps       int
	Seed           int64 // fallback seed when Reset receives zero

	// Feature flags. Disabled factors contribute nothing to the spread
	// probability, reducing the model down to flat stochastic spread.
	WindEnabled      bool
	ElevationEnabled bool
	MoistureEnabled  bool
	FirebreakEnabled bool

	// FixedWind pins the episode wind instead of drawing it at reset.
	FixedWind *Wind

	// Finite-water model. When disabled agents carry an effectively
	// unlimited tank.
	FiniteWater bool
	MaxWater    int
	RiverRow    int // idling on this row refills the tank

	// Realistic-fire pacing. The front advances only every
	// FireSpreadInterval steps, and a burning cell is consumed after
	// FireBurnoutAge spread cycles. A burnout age of zero keeps fires
	// burning until suppressed.
	FireSpreadInterval int
	FireBurnoutAge     int

	// ExtendedObs adds the wind vector and elevation map to observations.
	ExtendedObs bool

	Rewards RewardConfig
}

// DefaultConfig returns the reference configuration: a 10x10 grid, two
// agents, three fires and the full Rothermel-style spread model.
func DefaultConfig() Config {
	return Config{
		GridSize:           10,
		FireSpreadProb:     0.1,
		InitialTrees:       0.6,
		InitialFires:       3,
		NumAgents:          2,
		MaxSteps:           100,
		Seed:               1,
		WindEnabled:        true,
		ElevationEnabled:   true,
		MoistureEnabled:    true,
		FirebreakEnabled:   true,
		MaxWater:           999,
		FireSpreadInterval: 1,
		Rewards:            DefaultRewards(),
	}
}

// Validate checks every field against its documented range.
func (c Config) Validate() error {
	if c.GridSize < minGridSize || c.GridSize > maxGridSize {
		return fmt.Errorf("grid size %d outside [%d, %d]", c.GridSize, minGridSize, maxGridSize)
	}
	if c.FireSpreadProb < 0 || c.FireSpreadProb > maxSpreadProb {
		return fmt.Errorf("fire spread probability %v outside [0, %v]", c.FireSpreadProb, maxSpreadProb)
	}
	if c.InitialTrees != 0 && (c.InitialTrees < minTreeDensity || c.InitialTrees > maxTreeDensity) {
		return fmt.Errorf("tree density %v outside [%v, %v]", c.InitialTrees, minTreeDensity, maxTreeDensity)
	}
	if c.InitialFires != 0 && (c.InitialFires < minInitialFires || c.InitialFires > maxInitialFires) {
		return fmt.Errorf("initial fires %d outside [%d, %d]", c.InitialFires, minInitialFires, maxInitialFires)
	}
	if c.NumAgents < minAgents || c.NumAgents > maxAgents {
		return fmt.Errorf("agent count %d outside [%d, %d]", c.NumAgents, minAgents, maxAgents)
	}
	if c.MaxSteps < minMaxSteps || c.MaxSteps > maxMaxSteps {
		return fmt.Errorf("max steps %d outside [%d, %d]", c.MaxSteps, minMaxSteps, maxMaxSteps)
	}
	if c.FiniteWater && c.MaxWater <= 0 {
		return fmt.Errorf("finite water model requires a positive tank capacity, got %d", c.MaxWater)
	}
	if c.FiniteWater && (c.RiverRow < 0 || c.RiverRow >= c.GridSize) {
		return fmt.Errorf("river row %d outside grid of size %d", c.RiverRow, c.GridSize)
	}
	if c.FireSpreadInterval < 0 {
		return fmt.Errorf("fire spread interval must not be negative, got %d", c.FireSpreadInterval)
	}
	if c.FireBurnoutAge < 0 {
		return fmt.Errorf("fire burnout age must not be negative, got %d", c.FireBurnoutAge)
	}
	if c.FixedWind != nil && (c.FixedWind.DirectionDeg < 0 || c.FixedWind.DirectionDeg >= 360 || c.FixedWind.SpeedKmh < 0) {
		return fmt.Errorf("fixed wind (%v deg, %v km/h) out of range", c.FixedWind.DirectionDeg, c.FixedWind.SpeedKmh)
	}
	if t := c.Rewards.DestructionThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("destruction threshold %v outside (0, 1]", t)
	}
	return nil
}
