package domain

import (
	"time"

	"github.com/forest-guardian/forest-guardian-api/gis"
	"github.com/forest-guardian/forest-guardian-api/sim"
)

// MissionConfig is the configuration snapshot stored with every mission, so
// runs remain comparable after the defaults change.
type MissionConfig struct {
	GridSize       int     `bson:"gridSize" json:"grid_size"`
	FireSpreadProb float64 `bson:"fireSpreadProb" json:"fire_spread_prob"`
	InitialTrees   float64 `bson:"initialTrees" json:"initial_trees"`
	InitialFires   int     `bson:"initialFires" json:"initial_fires"`
	NumAgents      int     `bson:"numAgents" json:"num_agents"`
	MaxSteps       int     `bson:"maxSteps" json:"max_steps"`
	Policy         string  `bson:"policy" json:"policy"`
	Seed           int64   `bson:"seed" json:"seed"`
}

// MissionKPIs are the headline outcomes of one mission.
type MissionKPIs struct {
	SurvivalRate   float64 `bson:"survivalRate" json:"survival_rate"` // surviving trees / initial trees, percent
	TreesRemaining int     `bson:"treesRemaining" json:"trees_remaining"`
	TreesInitial   int     `bson:"treesInitial" json:"trees_initial"`
	FiresPutOut    int     `bson:"firesPutOut" json:"fires_put_out"`
	WaterUsed      int     `bson:"waterUsed" json:"water_used"`
	Steps          int     `bson:"steps" json:"steps"`
	Succeeded      bool    `bson:"succeeded" json:"succeeded"`
}

// AgentStats records one agent's end-of-mission state.
type AgentStats struct {
	Role     string `bson:"role" json:"role"`
	Row      int    `bson:"row" json:"row"`
	Col      int    `bson:"col" json:"col"`
	Water    int    `bson:"water" json:"water"`
	Moisture int    `bson:"moistureSamples" json:"moisture_samples"`
}

// GridFeature is one non-empty cell of the final grid snapshot, projected to
// geographic coordinates. The collection of features forms a GeoJSON-style
// snapshot for map consumers.
type GridFeature struct {
	Row   int     `bson:"row" json:"row"`
	Col   int     `bson:"col" json:"col"`
	State string  `bson:"state" json:"state"`
	Lat   float64 `bson:"lat" json:"lat"`
	Lon   float64 `bson:"lon" json:"lon"`
}

// Mission is the persisted record of one simulated containment mission.
type Mission struct {
	ID            string        `bson:"_id" json:"mission_id"`
	Timestamp     time.Time     `bson:"timestamp" json:"timestamp"`
	GeoZone       string        `bson:"geoZone" json:"geo_zone"`
	Configuration MissionConfig `bson:"configuration" json:"configuration"`
	KPIs          MissionKPIs   `bson:"kpis" json:"kpis"`
	WindDirection float64       `bson:"windDirection" json:"wind_direction"`
	WindSpeed     float64       `bson:"windSpeed" json:"wind_speed"`
	AgentStats    []AgentStats  `bson:"agentStats" json:"agent_stats"`
	FinalSnapshot []GridFeature `bson:"finalSnapshot" json:"final_snapshot"`
}

// SnapshotGrid projects every non-empty cell of the final grid through the
// given projector into snapshot features.
func SnapshotGrid(g *sim.GridWorld, projector *gis.Projector) []GridFeature {
	var features []GridFeature
	appendCells := func(cells []sim.CellPosition, state string) {
		for _, pos := range cells {
			lat, lon := projector.GridToGeo(pos)
			features = append(features, GridFeature{
				Row:   pos.Row,
				Col:   pos.Col,
				State: state,
				Lat:   lat,
				Lon:   lon,
			})
		}
	}
	appendCells(g.CellsOf(sim.TerrainTree), "tree")
	appendCells(g.CellsOf(sim.TerrainFire), "fire")
	return features
}
