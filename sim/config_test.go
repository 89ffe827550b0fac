package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"grid too small", func(c *Config) { c.GridSize = 7 }, "grid size"},
		{"grid too large", func(c *Config) { c.GridSize = 16 }, "grid size"},
		{"spread prob negative", func(c *Config) { c.FireSpreadProb = -0.1 }, "spread probability"},
		{"spread prob too high", func(c *Config) { c.FireSpreadProb = 0.6 }, "spread probability"},
		{"density below range", func(c *Config) { c.InitialTrees = 0.2 }, "tree density"},
		{"density above range", func(c *Config) { c.InitialTrees = 0.95 }, "tree density"},
		{"too many fires", func(c *Config) { c.InitialFires = 6 }, "initial fires"},
		{"no agents", func(c *Config) { c.NumAgents = 0 }, "agent count"},
		{"too many agents", func(c *Config) { c.NumAgents = 4 }, "agent count"},
		{"max steps too low", func(c *Config) { c.MaxSteps = 49 }, "max steps"},
		{"max steps too high", func(c *Config) { c.MaxSteps = 201 }, "max steps"},
		{"finite water without tank", func(c *Config) { c.FiniteWater = true; c.MaxWater = 0 }, "tank capacity"},
		{"river row off grid", func(c *Config) { c.FiniteWater = true; c.RiverRow = 10 }, "river row"},
		{"negative spread interval", func(c *Config) { c.FireSpreadInterval = -1 }, "spread interval"},
		{"negative burnout age", func(c *Config) { c.FireBurnoutAge = -1 }, "burnout age"},
		{"fixed wind out of range", func(c *Config) { c.FixedWind = &Wind{DirectionDeg: 400} }, "fixed wind"},
		{"destruction threshold zero", func(c *Config) { c.Rewards.DestructionThreshold = 0 }, "destruction threshold"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfigAllowsBarrenScenario(t *testing.T) {
	// A deliberately empty world (no trees, no fires) is a legal edge case,
	// even though nonzero values for either field are range checked.
	cfg := DefaultConfig()
	cfg.InitialTrees = 0
	cfg.InitialFires = 0
	assert.NoError(t, cfg.Validate())
}
