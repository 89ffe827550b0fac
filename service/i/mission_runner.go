package i

import (
	"context"

	dmn "github.com/forest-guardian/forest-guardian-api/domain"
)

// MissionRunner executes a full containment mission and returns its
// persisted record.
type MissionRunner interface {
	// Run simulates one episode under the given configuration and zone
	// name, stores the outcome, and returns the mission record.
	Run(ctx context.Context, cfg dmn.MissionConfig, zone string) (*dmn.Mission, error)
}
