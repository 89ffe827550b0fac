package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forestOnFire builds a fully treed world with one burning cell at center.
func forestOnFire(size int) (*GridWorld, CellPosition) {
	g := NewGridWorld(size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			g.Set(CellPosition{Row: row, Col: col}, TerrainTree)
		}
	}
	center := CellPosition{Row: size / 2, Col: size / 2}
	g.Set(center, TerrainFire)
	return g, center
}

func TestStepperSpreadsOneRingPerTick(t *testing.T) {
	g, center := forestOnFire(11)
	model := NewSpreadModel(1, false, false, false)
	stepper := newFireStepper(model, 1, 0)
	stepper.reset([]CellPosition{center})
	rng := rand.New(rand.NewSource(1))

	stepper.step(g, rng, 1)

	// With certain spread exactly the four cardinal neighbors ignite; a
	// cell ignited this tick never relays within the same tick.
	require.Equal(t, 5, g.Count(TerrainFire))
	for _, neighbor := range g.Neighbors4(center) {
		assert.Equal(t, TerrainFire, g.At(neighbor))
	}
	assert.Equal(t, TerrainTree, g.At(CellPosition{Row: center.Row - 1, Col: center.Col - 1}),
		"diagonal stays untouched after one tick")
	assert.Equal(t, TerrainTree, g.At(CellPosition{Row: center.Row - 2, Col: center.Col}),
		"two cells out stays untouched after one tick")

	// Second tick reaches Manhattan distance 2: a diamond of 13 cells.
	stepper.step(g, rng, 2)
	assert.Equal(t, 13, g.Count(TerrainFire))
}

func TestStepperZeroProbabilityNeverSpreads(t *testing.T) {
	g, center := forestOnFire(11)
	model := NewSpreadModel(0, false, false, false)
	stepper := newFireStepper(model, 1, 0)
	stepper.reset([]CellPosition{center})
	rng := rand.New(rand.NewSource(1))

	for step := 1; step <= 25; step++ {
		stepper.step(g, rng, step)
	}
	assert.Equal(t, 1, g.Count(TerrainFire))
	assert.Equal(t, TerrainFire, g.At(center))
}

func TestStepperBurnout(t *testing.T) {
	g, center := forestOnFire(11)
	model := NewSpreadModel(0, false, false, false)
	stepper := newFireStepper(model, 1, 2)
	stepper.reset([]CellPosition{center})
	rng := rand.New(rand.NewSource(1))

	stepper.step(g, rng, 1)
	assert.Equal(t, TerrainFire, g.At(center), "age 1 still burns")
	stepper.step(g, rng, 2)
	assert.Equal(t, TerrainFire, g.At(center), "age 2 still burns")
	stepper.step(g, rng, 3)
	assert.Equal(t, TerrainEmpty, g.At(center), "consumed past burnout age")
	assert.Empty(t, stepper.ages)
}

func TestStepperInterval(t *testing.T) {
	g, center := forestOnFire(11)
	model := NewSpreadModel(1, false, false, false)
	stepper := newFireStepper(model, 3, 0)
	stepper.reset([]CellPosition{center})
	rng := rand.New(rand.NewSource(1))

	stepper.step(g, rng, 1)
	stepper.step(g, rng, 2)
	assert.Equal(t, 1, g.Count(TerrainFire), "front holds between spread cycles")

	stepper.step(g, rng, 3)
	assert.Equal(t, 5, g.Count(TerrainFire), "front advances on the interval step")
}

func TestStepperExtinguishForgetsAge(t *testing.T) {
	g, center := forestOnFire(11)
	model := NewSpreadModel(0, false, false, false)
	stepper := newFireStepper(model, 1, 3)
	stepper.reset([]CellPosition{center})
	rng := rand.New(rand.NewSource(1))

	stepper.step(g, rng, 1)
	stepper.step(g, rng, 2)

	// Suppression path: the cell stops burning and its age entry goes too,
	// so a later re-ignition starts from age zero.
	g.Set(center, TerrainEmpty)
	stepper.extinguish(center)
	assert.Empty(t, stepper.ages)

	g.Set(center, TerrainFire)
	stepper.ignite(center)
	stepper.step(g, rng, 3)
	assert.Equal(t, TerrainFire, g.At(center))
	assert.Equal(t, 1, stepper.ages[center])
}
