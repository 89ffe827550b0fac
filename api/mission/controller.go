package missionapi

import (
	"net/http"
	"strconv"

	dmn "github.com/forest-guardian/forest-guardian-api/domain"
	"github.com/forest-guardian/forest-guardian-api/service/i"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// MissionController manages mission execution and mission-log queries.
type MissionController struct {
	runner      i.MissionRunner
	missionRepo i.MissionRepo
	leaderboard i.Leaderboard
}

// NewMissionController initializes a MissionController.
func NewMissionController(runner i.MissionRunner, repo i.MissionRepo, board i.Leaderboard) (*MissionController, error) {
	return &MissionController{
		runner:      runner,
		missionRepo: repo,
		leaderboard: board,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MissionController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (mc *MissionController) RegisterProtected(route *gin.RouterGroup) {
	missions := route.Group("/missions")
	{
		missions.POST("/", mc.run)
		missions.GET("/recent", mc.recent)
		missions.GET("/leaderboard", mc.topMissions)
		missions.GET("/statistics", mc.statistics)
		missions.GET("/:ID", mc.missionInfo)
	}
}

// run executes one simulated mission and returns its record.
func (mc *MissionController) run(ctx *gin.Context) {
	var request RunMissionRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := dmn.MissionConfig{
		GridSize:       request.GridSize,
		FireSpreadProb: request.FireSpreadProb,
		InitialTrees:   request.InitialTrees,
		InitialFires:   request.InitialFires,
		NumAgents:      request.NumAgents,
		MaxSteps:       request.MaxSteps,
		Policy:         request.Policy,
		Seed:           request.Seed,
	}

	mission, err := mc.runner.Run(ctx.Request.Context(), cfg, request.GeoZone)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, mission)
}

// missionInfo retrieves one mission record by ID.
func (mc *MissionController) missionInfo(ctx *gin.Context) {
	id := ctx.Params.ByName("ID")
	mission, err := mc.missionRepo.ByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		return
	}
	ctx.JSON(http.StatusOK, mission)
}

// recent lists the latest missions.
func (mc *MissionController) recent(ctx *gin.Context) {
	missions, err := mc.missionRepo.Recent(ctx.Request.Context(), listLimit(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error listing missions"})
		return
	}
	ctx.JSON(http.StatusOK, missions)
}

// topMissions lists the best missions by survival rate.
func (mc *MissionController) topMissions(ctx *gin.Context) {
	entries, err := mc.leaderboard.Top(ctx.Request.Context(), int64(listLimit(ctx)))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error reading leaderboard"})
		return
	}

	response := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		response = append(response, LeaderboardEntry{MissionID: e.Member, SurvivalRate: e.Score})
	}
	ctx.JSON(http.StatusOK, response)
}

// statistics aggregates outcomes over all stored missions.
func (mc *MissionController) statistics(ctx *gin.Context) {
	stats, err := mc.missionRepo.Statistics(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error aggregating missions"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func listLimit(ctx *gin.Context) int {
	limit := defaultListLimit
	if raw, ok := ctx.GetQuery("limit"); ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxListLimit {
			limit = parsed
		}
	}
	return limit
}
