package sortedstorage

import (
	"context"
	"time"

	"github.com/forest-guardian/forest-guardian-api/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisLeaderboard ranks missions in a Redis sorted set, with TTL support so
// stale boards expire on their own. Reads that pop or page the set take a
// distributed lock, since several API replicas may share one board.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
	ttl    time.Duration
}

// NewRedisLeaderboard initializes a RedisLeaderboard on the provided Redis
// client, board key and TTL.
func NewRedisLeaderboard(client *redis.Client, key string, ttlSeconds int) (i.Leaderboard, error) {
	board := &RedisLeaderboard{
		client: client,
		key:    key,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board, nil
}

// Add inserts or updates a member with the given score and sets expiration
// if necessary.
func (rl *RedisLeaderboard) Add(ctx context.Context, member string, score float64) error {
	_, err := rl.client.ZAdd(ctx, rl.key, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return err
	}

	// Set expiration only if it's not already set
	ttl, err := rl.client.TTL(ctx, rl.key).Result()
	if err == nil && ttl == -1 {
		_ = rl.client.Expire(ctx, rl.key, rl.ttl).Err()
	}

	return nil
}

// Top returns up to limit members, best score first.
func (rl *RedisLeaderboard) Top(ctx context.Context, limit int64) ([]i.RankedEntry, error) {
	mutex := rl.locker.NewMutex(rl.key + ":read_lock")
	if err := mutex.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	members, err := rl.client.ZRevRangeWithScores(ctx, rl.key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]i.RankedEntry, 0, len(members))
	for _, m := range members {
		name, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, i.RankedEntry{Member: name, Score: m.Score})
	}
	return entries, nil
}

// Count returns the number of ranked members.
func (rl *RedisLeaderboard) Count(ctx context.Context) (int64, error) {
	return rl.client.ZCard(ctx, rl.key).Result()
}
