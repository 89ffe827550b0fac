/*
Package sim implements the grid-based wildfire containment simulation engine.

The engine owns a terrain grid (empty, tree or fire cells), per-cell elevation
and fuel-moisture maps, and a set of autonomous agents. One call to Step
resolves every agent action, advances the fire front once, and reports reward
and termination, following the reset/step contract expected by training
harnesses and scripted policies.
*/
package sim

import (
	"math"
	"math/rand"
)

// Terrain enumerates the state of a single grid cell. Agent positions are
// tracked separately and only overlaid onto the terrain when an observation
// is rendered.
type Terrain uint8

const (
	TerrainEmpty Terrain = iota
	TerrainTree
	TerrainFire
)

// CellPosition represents the position of a cell in the simulation grid.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// Directions maps direction names to row/col deltas for the four cardinal
// neighbors.
var Directions = map[string]CellPosition{
	"North": {Row: -1, Col: 0},
	"South": {Row: 1, Col: 0},
	"East":  {Row: 0, Col: 1},
	"West":  {Row: 0, Col: -1},
}

const (
	elevationControlPoints = 5

	moistureBase  = 10.0
	moistureSpan  = 15.0
	moistureNoise = 5.0
	moistureMin   = 5.0
	moistureMax   = 35.0
)

// GridWorld owns the terrain grid plus the static elevation and mutable
// fuel-moisture maps. It performs no random draws of its own; callers inject
// an explicit generator so episodes stay reproducible.
type GridWorld struct {
	size      int
	terrain   []Terrain
	elevation []float64
	moisture  []float64
}

// NewGridWorld allocates an all-empty world of size x size cells. Elevation
// defaults to flat ground and moisture to the dry end of the range, so the
// world is usable even when the elevation and moisture features are disabled.
func NewGridWorld(size int) *GridWorld {
	total := size * size
	g := &GridWorld{
		size:      size,
		terrain:   make([]Terrain, total),
		elevation: make([]float64, total),
		moisture:  make([]float64, total),
	}
	for i := range g.moisture {
		g.moisture[i] = moistureMin
	}
	return g
}

// Size reports the grid side length.
func (g *GridWorld) Size() int { return g.size }

// InBound checks whether the position lies inside the grid.
func (g *GridWorld) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < g.size && pos.Col >= 0 && pos.Col < g.size
}

// Neighbors4 returns the in-bound cardinal neighbors of pos.
func (g *GridWorld) Neighbors4(pos CellPosition) []CellPosition {
	result := make([]CellPosition, 0, 4)
	for _, delta := range [4]CellPosition{{-1, 0}, {1, 0}, {0, 1}, {0, -1}} {
		neighbor := CellPosition{Row: pos.Row + delta.Row, Col: pos.Col + delta.Col}
		if g.InBound(neighbor) {
			result = append(result, neighbor)
		}
	}
	return result
}

func (g *GridWorld) index(pos CellPosition) int { return pos.Row*g.size + pos.Col }

// At returns the terrain state of the cell.
func (g *GridWorld) At(pos CellPosition) Terrain { return g.terrain[g.index(pos)] }

// Set overwrites the terrain state of the cell.
func (g *GridWorld) Set(pos CellPosition, t Terrain) { g.terrain[g.index(pos)] = t }

// Count returns the number of cells currently in the given terrain state.
func (g *GridWorld) Count(t Terrain) int {
	n := 0
	for _, cell := range g.terrain {
		if cell == t {
			n++
		}
	}
	return n
}

// CellsOf collects the positions of every cell in the given terrain state,
// scanning in row-major order.
func (g *GridWorld) CellsOf(t Terrain) []CellPosition {
	var result []CellPosition
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			pos := CellPosition{Row: row, Col: col}
			if g.At(pos) == t {
				result = append(result, pos)
			}
		}
	}
	return result
}

// Elevation returns the normalized elevation of the cell in [0, 1].
func (g *GridWorld) Elevation(pos CellPosition) float64 { return g.elevation[g.index(pos)] }

// Moisture returns the fuel moisture of the cell in percent, within [5, 35].
func (g *GridWorld) Moisture(pos CellPosition) float64 { return g.moisture[g.index(pos)] }

// SetMoisture stores a fuel-moisture reading for the cell, clipped to the
// supported range.
func (g *GridWorld) SetMoisture(pos CellPosition, value float64) {
	g.moisture[g.index(pos)] = clamp(value, moistureMin, moistureMax)
}

// PlantTrees fills the grid with trees at the given density using rng,
// leaving the remaining cells empty.
func (g *GridWorld) PlantTrees(density float64, rng *rand.Rand) {
	for i := range g.terrain {
		if rng.Float64() < density {
			g.terrain[i] = TerrainTree
		} else {
			g.terrain[i] = TerrainEmpty
		}
	}
}

// GenerateElevation builds the episode's elevation map with inverse-distance
// weighting over a handful of random control points, then min-max normalizes
// the result to [0, 1]. The map is meant to be generated once per episode and
// treated as immutable afterwards.
func (g *GridWorld) GenerateElevation(rng *rand.Rand) {
	type controlPoint struct {
		row, col float64
		height   float64
	}

	points := make([]controlPoint, elevationControlPoints)
	for i := range points {
		points[i] = controlPoint{
			row:    float64(rng.Intn(g.size)),
			col:    float64(rng.Intn(g.size)),
			height: rng.Float64(),
		}
	}

	lowest, highest := math.Inf(1), math.Inf(-1)
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			var weighted, weights float64
			exact := false
			for _, p := range points {
				dr := float64(row) - p.row
				dc := float64(col) - p.col
				dist := math.Sqrt(dr*dr + dc*dc)
				if dist == 0 {
					weighted, weights = p.height, 1
					exact = true
					break
				}
				w := 1 / dist
				weighted += w * p.height
				weights += w
			}
			value := weighted
			if !exact {
				value = weighted / weights
			}
			g.elevation[row*g.size+col] = value
			lowest = math.Min(lowest, value)
			highest = math.Max(highest, value)
		}
	}

	span := highest - lowest
	if span == 0 {
		for i := range g.elevation {
			g.elevation[i] = 0
		}
		return
	}
	for i := range g.elevation {
		g.elevation[i] = (g.elevation[i] - lowest) / span
	}
}

// DeriveMoisture derives the fuel-moisture map from elevation plus uniform
// noise, clipped to the supported percentage range. Higher cells hold more
// moisture.
func (g *GridWorld) DeriveMoisture(rng *rand.Rand) {
	for i, elev := range g.elevation {
		noise := (rng.Float64()*2 - 1) * moistureNoise
		g.moisture[i] = clamp(moistureBase+elev*moistureSpan+noise, moistureMin, moistureMax)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
