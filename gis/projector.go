// Package gis projects simulation grid coordinates onto geographic
// coordinates for map overlays. The grid is anchored at a named zone's
// center; each cell covers a fixed fraction of a kilometer.
package gis

import (
	"math"

	"github.com/forest-guardian/forest-guardian-api/sim"
)

const (
	// DefaultCellKm is the ground footprint of one grid cell.
	DefaultCellKm = 0.5

	kmPerLatDegree = 111.0
)

// Zone names the real-world area a mission is projected onto.
type Zone struct {
	Name string
	Lat  float64
	Lon  float64
}

// Bounds describes the geographic extent of the projected grid.
type Bounds struct {
	North     float64 `json:"north"`
	South     float64 `json:"south"`
	East      float64 `json:"east"`
	West      float64 `json:"west"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}

// HeatPoint is one weighted sample for map heat layers.
type HeatPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Intensity float64 `json:"intensity"`
}

// Projector converts between grid cells and lat/lon around a zone center.
// Longitude degrees per cell are corrected by the cosine of the zone
// latitude, so the projection holds away from the equator.
type Projector struct {
	zone       Zone
	gridSize   int
	cellKm     float64
	latPerCell float64
	lonPerCell float64
}

// NewProjector builds a projector for a grid of the given size centered on
// the zone. A non-positive cellKm falls back to DefaultCellKm.
func NewProjector(zone Zone, gridSize int, cellKm float64) *Projector {
	if cellKm <= 0 {
		cellKm = DefaultCellKm
	}
	latPerCell := cellKm / kmPerLatDegree
	lonPerCell := latPerCell
	if cosLat := math.Cos(zone.Lat * math.Pi / 180); cosLat != 0 {
		lonPerCell = latPerCell / cosLat
	}
	return &Projector{
		zone:       zone,
		gridSize:   gridSize,
		cellKm:     cellKm,
		latPerCell: latPerCell,
		lonPerCell: lonPerCell,
	}
}

// Zone returns the anchoring zone.
func (p *Projector) Zone() Zone { return p.zone }

// GridToGeo converts a grid cell to its lat/lon. Rows grow southward from
// the grid center, columns eastward.
func (p *Projector) GridToGeo(pos sim.CellPosition) (lat, lon float64) {
	rowOffset := float64(pos.Row) - float64(p.gridSize)/2
	colOffset := float64(pos.Col) - float64(p.gridSize)/2
	lat = p.zone.Lat - rowOffset*p.latPerCell
	lon = p.zone.Lon + colOffset*p.lonPerCell
	return lat, lon
}

// GeoToGrid converts lat/lon back to the containing grid cell, clamped to
// the grid.
func (p *Projector) GeoToGrid(lat, lon float64) sim.CellPosition {
	row := int(math.Round(float64(p.gridSize)/2 + (p.zone.Lat-lat)/p.latPerCell))
	col := int(math.Round(float64(p.gridSize)/2 + (lon-p.zone.Lon)/p.lonPerCell))
	return sim.CellPosition{
		Row: clampInt(row, 0, p.gridSize-1),
		Col: clampInt(col, 0, p.gridSize-1),
	}
}

// GridBounds returns the geographic extent of the whole grid.
func (p *Projector) GridBounds() Bounds {
	topLeftLat, topLeftLon := p.GridToGeo(sim.CellPosition{Row: 0, Col: 0})
	bottomRightLat, bottomRightLon := p.GridToGeo(sim.CellPosition{Row: p.gridSize - 1, Col: p.gridSize - 1})
	return Bounds{
		North:     topLeftLat,
		South:     bottomRightLat,
		East:      bottomRightLon,
		West:      topLeftLon,
		CenterLat: p.zone.Lat,
		CenterLon: p.zone.Lon,
	}
}

// CoverageKm2 reports the ground area the grid covers.
func (p *Projector) CoverageKm2() float64 {
	side := float64(p.gridSize) * p.cellKm
	return side * side
}

// Heatmap builds heat samples from the world: full intensity for burning
// cells, a low weight for standing trees so surviving forest still shades
// the map.
func (p *Projector) Heatmap(g *sim.GridWorld) []HeatPoint {
	var points []HeatPoint
	for _, pos := range g.CellsOf(sim.TerrainFire) {
		lat, lon := p.GridToGeo(pos)
		points = append(points, HeatPoint{Lat: lat, Lon: lon, Intensity: 1.0})
	}
	for _, pos := range g.CellsOf(sim.TerrainTree) {
		lat, lon := p.GridToGeo(pos)
		points = append(points, HeatPoint{Lat: lat, Lon: lon, Intensity: 0.3})
	}
	return points
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
