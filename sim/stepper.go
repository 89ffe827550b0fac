package sim

import "math/rand"

// fireStepper advances the fire front by one tick. All ignition decisions
// are made against a snapshot of the burning cells and committed together,
// so a cell ignited this tick can never ignite its own neighbors until the
// next tick, whatever the traversal order.
type fireStepper struct {
	model *SpreadModel

	// interval slows the front down relative to agent movement: spread and
	// aging only happen on every interval-th engine step. Zero or one means
	// the fire advances every step.
	interval int

	// burnoutAge is the number of spread cycles a cell burns before it is
	// consumed. Zero disables burnout entirely.
	burnoutAge int

	ages map[CellPosition]int
}

func newFireStepper(model *SpreadModel, interval, burnoutAge int) *fireStepper {
	if interval < 1 {
		interval = 1
	}
	return &fireStepper{
		model:      model,
		interval:   interval,
		burnoutAge: burnoutAge,
		ages:       make(map[CellPosition]int),
	}
}

// reset clears the burn ages for a fresh episode and registers the initial
// fires.
func (f *fireStepper) reset(initial []CellPosition) {
	f.ages = make(map[CellPosition]int)
	for _, pos := range initial {
		f.ages[pos] = 0
	}
}

// ignite registers a cell that started burning outside the spread phase.
func (f *fireStepper) ignite(pos CellPosition) { f.ages[pos] = 0 }

// extinguish drops the age entry of a cell that stopped burning outside the
// spread phase.
func (f *fireStepper) extinguish(pos CellPosition) { delete(f.ages, pos) }

// step runs one spread cycle if stepCount lands on the configured interval.
// Phase one samples ignitions from the snapshot of burning cells; phase two
// ages existing fires past the burnout threshold; phase three commits both
// sets of mutations at once.
func (f *fireStepper) step(g *GridWorld, rng *rand.Rand, stepCount int) {
	if stepCount%f.interval != 0 {
		return
	}

	burning := g.CellsOf(TerrainFire)

	var ignited []CellPosition
	seen := make(map[CellPosition]bool)
	for _, fire := range burning {
		for _, neighbor := range g.Neighbors4(fire) {
			if g.At(neighbor) != TerrainTree || seen[neighbor] {
				continue
			}
			if rng.Float64() < f.model.Probability(g, fire, neighbor) {
				ignited = append(ignited, neighbor)
				seen[neighbor] = true
			}
		}
	}

	var burnedOut []CellPosition
	if f.burnoutAge > 0 {
		for _, fire := range burning {
			f.ages[fire]++
			if f.ages[fire] > f.burnoutAge {
				burnedOut = append(burnedOut, fire)
			}
		}
	}

	for _, pos := range ignited {
		g.Set(pos, TerrainFire)
		f.ages[pos] = 0
	}
	for _, pos := range burnedOut {
		g.Set(pos, TerrainEmpty)
		delete(f.ages, pos)
	}
}
