package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"marketsync/internal/application/port"
)

// Cache is a TTL key-value cache over Redis. It connects lazily and
// degrades when Redis is unreachable: reads miss, writes no-op.
// Callers never see cache errors.
type Cache struct {
	rdb *redis.Client
}

// New creates a cache handle. No connection is made here; the first
// operation dials, and failures only surface as misses.
func New(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second,
	})
	return &Cache{rdb: rdb}
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cached value unreadable, treating as miss")
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set skipped, value not serializable")
		return false
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed, skipping")
		return false
	}
	return true
}

func (c *Cache) Delete(ctx context.Context, key string) bool {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache delete failed, skipping")
		return false
	}
	return true
}

func (c *Cache) ClearPrefix(ctx context.Context, pattern string) int {
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Str("pattern", pattern).Msg("cache scan failed, skipping clear")
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	deleted, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		log.Debug().Err(err).Str("pattern", pattern).Msg("cache clear failed")
		return 0
	}
	return int(deleted)
}

func (c *Cache) Close() error { return c.rdb.Close() }

var _ port.PairCache = (*Cache)(nil)
