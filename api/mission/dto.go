// Package missionapi exposes mission execution and mission-log queries over
// HTTP.
package missionapi

// RunMissionRequest configures one simulated containment mission. Zero
// values fall back to the engine defaults.
type RunMissionRequest struct {
	GridSize       int     `json:"grid_size" binding:"omitempty,min=8,max=15"`
	FireSpreadProb float64 `json:"fire_spread_prob" binding:"omitempty,max=0.5"`
	InitialTrees   float64 `json:"initial_trees" binding:"omitempty,min=0.3,max=0.9"`
	InitialFires   int     `json:"initial_fires" binding:"omitempty,min=1,max=5"`
	NumAgents      int     `json:"num_agents" binding:"omitempty,min=1,max=3"`
	MaxSteps       int     `json:"max_steps" binding:"omitempty,min=50,max=200"`
	Policy         string  `json:"policy"`
	Seed           int64   `json:"seed"`
	GeoZone        string  `json:"geo_zone"`
}

// LeaderboardEntry is one ranked mission in the leaderboard response.
type LeaderboardEntry struct {
	MissionID    string  `json:"mission_id"`
	SurvivalRate float64 `json:"survival_rate"`
}
