package i

import (
	"context"

	dmn "github.com/forest-guardian/forest-guardian-api/domain"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(user *dmn.User) error

	// ByID retrieves a user by their unique ID.
	// Returns an error if the user is not found or in case of an unexpected error.
	ByID(id uuid.UUID) (*dmn.User, error)

	// ByUsername retrieves a user by their username.
	// Returns an error if the user is not found or in case of an unexpected error.
	ByUsername(username string) (*dmn.User, error)
}

// MissionStatistics aggregates outcomes over every stored mission.
type MissionStatistics struct {
	TotalMissions   int     `bson:"totalMissions" json:"total_missions"`
	Successes       int     `bson:"successes" json:"successes"`
	AvgSurvivalRate float64 `bson:"avgSurvivalRate" json:"avg_survival_rate"`
	AvgSteps        float64 `bson:"avgSteps" json:"avg_steps"`
}

// MissionRepo defines the interface for mission-log persistence.
type MissionRepo interface {
	// Save stores a finished mission record.
	Save(ctx context.Context, mission *dmn.Mission) error

	// ByID retrieves one mission by its mission ID.
	ByID(ctx context.Context, id string) (*dmn.Mission, error)

	// Recent returns up to limit missions, newest first.
	Recent(ctx context.Context, limit int) ([]dmn.Mission, error)

	// Statistics aggregates success counts and averages over all missions.
	Statistics(ctx context.Context) (*MissionStatistics, error)
}
