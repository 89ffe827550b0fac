package i

import "context"

// RankedEntry is one leaderboard member with its score.
type RankedEntry struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// Leaderboard ranks finished missions by score (survival rate). Backed by a
// sorted store shared between API replicas.
type Leaderboard interface {
	// Add inserts or updates a member with the given score.
	Add(ctx context.Context, member string, score float64) error

	// Top returns up to limit members, best score first.
	Top(ctx context.Context, limit int64) ([]RankedEntry, error)

	// Count returns the number of ranked members.
	Count(ctx context.Context) (int64, error)
}
