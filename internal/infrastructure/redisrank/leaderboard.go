// Package redisrank keeps the trending leaderboard in a redis sorted set,
// scored by views + likes. The store remains authoritative; the set is a
// live ranking that survives counter writes without table scans.
package redisrank

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "peerconnect:trending"

// Leaderboard implements application.Leaderboard on a redis ZSET.
type Leaderboard struct {
	rdb *redis.Client
	key string
}

// New creates a Leaderboard. key falls back to the default when empty.
func New(rdb *redis.Client, key string) *Leaderboard {
	if key == "" {
		key = defaultKey
	}
	return &Leaderboard{rdb: rdb, key: key}
}

// Bump adjusts a post's engagement score by delta.
func (l *Leaderboard) Bump(ctx context.Context, postID int64, delta int) error {
	err := l.rdb.ZIncrBy(ctx, l.key, float64(delta), strconv.FormatInt(postID, 10)).Err()
	if err != nil {
		return fmt.Errorf("zincrby %s: %w", l.key, err)
	}
	return nil
}

// Top returns the n highest-scored post ids, best first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]int64, error) {
	members, err := l.rdb.ZRevRange(ctx, l.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", l.key, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			// Foreign member in the set; skip rather than fail the feed.
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
