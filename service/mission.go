package service

import (
	"context"
	"fmt"
	"log"
	"time"

	dmn "github.com/forest-guardian/forest-guardian-api/domain"
	"github.com/forest-guardian/forest-guardian-api/gis"
	"github.com/forest-guardian/forest-guardian-api/policy"
	"github.com/forest-guardian/forest-guardian-api/service/i"
	"github.com/forest-guardian/forest-guardian-api/sim"
	"github.com/google/uuid"
)

// Known geographic zones missions can be projected onto. The first entry is
// the default when a request names no zone.
var zones = map[string]gis.Zone{
	"sierra-norte": {Name: "sierra-norte", Lat: 40.9, Lon: -3.9},
	"valle-verde":  {Name: "valle-verde", Lat: 42.1, Lon: -2.5},
	"monte-alto":   {Name: "monte-alto", Lat: 39.5, Lon: -4.8},
}

const defaultZone = "sierra-norte"

// MissionService runs containment missions end to end: it drives an engine
// episode under a scripted policy, collects KPIs and moisture telemetry,
// persists the record and feeds the leaderboard.
type MissionService struct {
	missions    i.MissionRepo
	leaderboard i.Leaderboard
	logger      *log.Logger
}

// Config holds the dependencies of a MissionService.
type Config struct {
	Missions    i.MissionRepo
	Leaderboard i.Leaderboard
	Logger      *log.Logger
}

// NewMissionService wires a MissionService from its dependencies.
func NewMissionService(c *Config) (*MissionService, error) {
	if c.Missions == nil {
		return nil, fmt.Errorf("mission service requires a mission repository")
	}
	return &MissionService{
		missions:    c.Missions,
		leaderboard: c.Leaderboard,
		logger:      c.Logger,
	}, nil
}

// moistureCounter counts UAV moisture samples per mission, as the engine's
// event sink.
type moistureCounter struct {
	samples int
}

func (m *moistureCounter) OnMoistureSample(sim.CellPosition, float64) { m.samples++ }
func (m *moistureCounter) OnEpisodeEnd(sim.EpisodeResult)             {}

// Run simulates one episode under the given configuration, stores the
// mission record and ranks it. The context bounds only the persistence
// calls; the simulation itself is CPU-bound and short.
func (s *MissionService) Run(ctx context.Context, cfg dmn.MissionConfig, zone string) (*dmn.Mission, error) {
	engineCfg, err := toEngineConfig(cfg)
	if err != nil {
		return nil, err
	}

	// Store the effective values, not the sparse request.
	cfg.GridSize = engineCfg.GridSize
	cfg.FireSpreadProb = engineCfg.FireSpreadProb
	cfg.InitialTrees = engineCfg.InitialTrees
	cfg.InitialFires = engineCfg.InitialFires
	cfg.NumAgents = engineCfg.NumAgents
	cfg.MaxSteps = engineCfg.MaxSteps
	if cfg.Policy == "" {
		cfg.Policy = "nearest-fire"
	}

	engine, err := sim.NewEngine(engineCfg)
	if err != nil {
		return nil, err
	}

	counter := &moistureCounter{}
	engine.SetEventSink(counter)

	pol, err := policyByName(cfg.Policy)
	if err != nil {
		return nil, err
	}

	obs := engine.Reset(cfg.Seed)
	// Count from the terrain, not the observation: agent markers overlay
	// the grid and would hide the cells they stand on.
	initialTrees := engine.Grid().Count(sim.TerrainTree)
	initialFires := engine.Grid().Count(sim.TerrainFire)

	var last *sim.StepResult
	firesPutOut := 0
	for {
		result, err := engine.Step(pol.Decide(obs, cfg.NumAgents))
		if err != nil {
			return nil, fmt.Errorf("mission step failed: %w", err)
		}
		obs = result.Observation
		last = result
		if result.Terminated || result.Truncated {
			break
		}
	}

	succeeded := last.Terminated && last.Info.ActiveFires == 0
	if succeeded {
		firesPutOut = initialFires
	}

	survival := 100.0
	if initialTrees > 0 {
		survival = 100 * float64(last.Info.TreesRemaining) / float64(initialTrees)
	}

	geoZone, ok := zones[zone]
	if !ok {
		geoZone = zones[defaultZone]
	}
	projector := gis.NewProjector(geoZone, cfg.GridSize, gis.DefaultCellKm)

	mission := &dmn.Mission{
		ID:            uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		GeoZone:       geoZone.Name,
		Configuration: cfg,
		KPIs: dmn.MissionKPIs{
			SurvivalRate:   survival,
			TreesRemaining: last.Info.TreesRemaining,
			TreesInitial:   initialTrees,
			FiresPutOut:    firesPutOut,
			WaterUsed:      engine.WaterUsed(),
			Steps:          last.Info.Step,
			Succeeded:      succeeded,
		},
		WindDirection: last.Info.WindDirection,
		WindSpeed:     last.Info.WindSpeed,
		AgentStats:    agentStats(engine, counter.samples),
		FinalSnapshot: dmn.SnapshotGrid(engine.Grid(), projector),
	}

	if err := s.missions.Save(ctx, mission); err != nil {
		return nil, fmt.Errorf("saving mission: %w", err)
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.Add(ctx, mission.ID, survival); err != nil && s.logger != nil {
			s.logger.Printf("ranking mission %s: %v", mission.ID, err)
		}
	}

	if s.logger != nil {
		s.logger.Printf("mission %s finished: survival %.1f%%, %d steps, success=%v",
			mission.ID, survival, mission.KPIs.Steps, succeeded)
	}
	return mission, nil
}

// toEngineConfig maps the persisted mission configuration onto engine
// defaults, keeping unspecified fields at their reference values.
func toEngineConfig(cfg dmn.MissionConfig) (sim.Config, error) {
	engineCfg := sim.DefaultConfig()
	if cfg.GridSize != 0 {
		engineCfg.GridSize = cfg.GridSize
	}
	if cfg.FireSpreadProb != 0 {
		engineCfg.FireSpreadProb = cfg.FireSpreadProb
	}
	if cfg.InitialTrees != 0 {
		engineCfg.InitialTrees = cfg.InitialTrees
	}
	if cfg.InitialFires != 0 {
		engineCfg.InitialFires = cfg.InitialFires
	}
	if cfg.NumAgents != 0 {
		engineCfg.NumAgents = cfg.NumAgents
	}
	if cfg.MaxSteps != 0 {
		engineCfg.MaxSteps = cfg.MaxSteps
	}
	return engineCfg, engineCfg.Validate()
}

func policyByName(name string) (policy.Policy, error) {
	switch name {
	case "", "nearest-fire":
		return policy.NearestFirePolicy{}, nil
	case "idle":
		return policy.IdlePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

func agentStats(engine *sim.Engine, samples int) []dmn.AgentStats {
	agents := engine.Agents()
	stats := make([]dmn.AgentStats, len(agents))
	for idx, agent := range agents {
		stats[idx] = dmn.AgentStats{
			Role:  agent.Role,
			Row:   agent.Position.Row,
			Col:   agent.Position.Col,
			Water: agent.Water,
		}
	}
	// Samples are not attributable to a single UAV; record the total on the
	// lead agent.
	if len(stats) > 0 {
		stats[0].Moisture = samples
	}
	return stats
}
