package sortedstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leaderboard:"

var ErrInvalidTicks = errors.New("finishing tick must be positive")

// RedisLeaderboard keeps each board in a sorted set scored by finishing tick.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisLeaderboard initializes a RedisLeaderboard with the provided Redis client and TTL.
func NewRedisLeaderboard(client *redis.Client, ttlSeconds int) *RedisLeaderboard {
	board := &RedisLeaderboard{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board
}

// Record keeps ticks as the agent's score unless it already has a better one.
func (l *RedisLeaderboard) Record(ctx context.Context, board string, agentID uuid.UUID, ticks int) (bool, error) {
	if ticks <= 0 {
		return false, ErrInvalidTicks
	}
	key := keyPrefix + board
	member := agentID.String()

	mutex := l.locker.NewMutex(key + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return false, err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	best, err := l.client.ZScore(ctx, key, member).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// first finish on this board
	case err != nil:
		return false, err
	case best <= float64(ticks):
		return false, nil
	}

	if err := l.client.ZAdd(ctx, key, redis.Z{Score: float64(ticks), Member: member}).Err(); err != nil {
		return false, err
	}

	// Boards expire after a quiet period.
	if l.ttl > 0 {
		_ = l.client.Expire(ctx, key, l.ttl).Err()
	}
	return true, nil
}

// Top returns the fastest limit entries of a board.
func (l *RedisLeaderboard) Top(ctx context.Context, board string, limit int64) ([]dmn.LeaderboardEntry, error) {
	if limit <= 0 {
		return []dmn.LeaderboardEntry{}, nil
	}
	scores, err := l.client.ZRangeWithScores(ctx, keyPrefix+board, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]dmn.LeaderboardEntry, 0, len(scores))
	for rank, z := range scores {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("board %s: unexpected member %v", board, z.Member)
		}
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("board %s: %w", board, err)
		}
		entries = append(entries, dmn.LeaderboardEntry{
			AgentID: id,
			Ticks:   int(z.Score),
			Rank:    rank + 1,
		})
	}
	return entries, nil
}
