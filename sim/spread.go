package sim

import "math"

// Wind describes the episode wind as a compass direction (degrees, 0 = North,
// increasing clockwise) and a speed in km/h. It is drawn once per episode and
// stays constant for its duration.
type Wind struct {
	DirectionDeg float64
	SpeedKmh     float64
}

// Spread factor bounds and coefficients, after Rothermel's surface fire
// model reduced to three multiplicative adjustments on a base probability.
const (
	windSpeedScale    = 10.0
	windSpeedExponent = 1.5
	windFactorMin     = 0.15
	windFactorMax     = 5.0

	slopeUphillGain   = 8.0
	slopeDownhillGain = 0.2
	slopeFactorMin    = 0.1
	slopeFactorMax    = 5.0

	moistureDecay     = 0.10
	moistureFactorMin = 0.1
	moistureFactorMax = 1.0
)

// SpreadModel computes the probability that fire crosses from a burning cell
// to an adjacent tree cell. Wind, slope and moisture each contribute one
// multiplicative factor; disabled factors contribute 1.
type SpreadModel struct {
	baseProb float64
	wind     Wind

	windEnabled     bool
	slopeEnabled    bool
	moistureEnabled bool
}

// NewSpreadModel builds a model with the given base probability and feature
// flags. The wind vector is supplied per episode via SetWind.
func NewSpreadModel(baseProb float64, windEnabled, slopeEnabled, moistureEnabled bool) *SpreadModel {
	return &SpreadModel{
		baseProb:        baseProb,
		windEnabled:     windEnabled,
		slopeEnabled:    slopeEnabled,
		moistureEnabled: moistureEnabled,
	}
}

// SetWind installs the episode wind vector.
func (m *SpreadModel) SetWind(w Wind) { m.wind = w }

// Wind reports the episode wind vector.
func (m *SpreadModel) Wind() Wind { return m.wind }

// Probability returns the chance in [0, 1] that fire spreads from one cell to
// an adjacent target cell on the given world.
func (m *SpreadModel) Probability(g *GridWorld, from, to CellPosition) float64 {
	p := m.baseProb
	if m.windEnabled {
		p *= m.windFactor(from, to)
	}
	if m.slopeEnabled {
		p *= m.slopeFactor(g, from, to)
	}
	if m.moistureEnabled {
		p *= m.moistureFactor(g, to)
	}
	return clamp(p, 0, 1)
}

// windFactor rewards spread aligned with the wind and slows spread against
// it. At zero wind speed it is exactly 1 regardless of alignment.
func (m *SpreadModel) windFactor(from, to CellPosition) float64 {
	bearing := spreadBearing(from, to)
	diff := math.Abs(bearing - m.wind.DirectionDeg)
	if diff > 180 {
		diff = 360 - diff
	}
	// alignment spans -1 (dead against the wind) to +1 (dead downwind).
	alignment := 1 - diff/90
	factor := 1 + math.Pow(m.wind.SpeedKmh/windSpeedScale, windSpeedExponent)*alignment
	return clamp(factor, windFactorMin, windFactorMax)
}

// slopeFactor accelerates uphill spread sharply, reflecting convective
// preheating of fuel above the flame, and slows downhill spread mildly.
func (m *SpreadModel) slopeFactor(g *GridWorld, from, to CellPosition) float64 {
	slope := g.Elevation(to) - g.Elevation(from)
	var factor float64
	if slope > 0 {
		factor = 1 + slope*slopeUphillGain
	} else {
		factor = 1 + slope*slopeDownhillGain
	}
	return clamp(factor, slopeFactorMin, slopeFactorMax)
}

// moistureFactor damps spread exponentially as the target cell's fuel
// moisture rises above the dry floor of 5%.
func (m *SpreadModel) moistureFactor(g *GridWorld, to CellPosition) float64 {
	factor := math.Exp(-moistureDecay * (g.Moisture(to) - moistureMin))
	return clamp(factor, moistureFactorMin, moistureFactorMax)
}

// spreadBearing maps the from->to direction onto a compass bearing in
// [0, 360), with 0 pointing North (decreasing row index).
func spreadBearing(from, to CellPosition) float64 {
	dr := float64(to.Row - from.Row)
	dc := float64(to.Col - from.Col)
	bearing := math.Atan2(dc, -dr) * 180 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	return bearing
}
