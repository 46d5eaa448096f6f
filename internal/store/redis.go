package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key the engine publishes its snapshot under.
const DefaultRedisKey = "earning:snapshot"

const redisTimeout = 5 * time.Second

// redisGetter is the part of redis.Cmdable the loader needs.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisLoader publishes snapshots read from a Redis string key into a MemoryStore.
type RedisLoader struct {
	rdb   redisGetter
	key   string
	store *MemoryStore
}

// NewRedisLoader creates a loader for key. An empty key uses DefaultRedisKey.
func NewRedisLoader(rdb redisGetter, key string, store *MemoryStore) *RedisLoader {
	if rdb == nil {
		panic("store.NewRedisLoader: client is nil")
	}
	if store == nil {
		panic("store.NewRedisLoader: store is nil")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisLoader{rdb: rdb, key: key, store: store}
}

// Reload fetches the key and publishes it. A missing key reports ErrNoSnapshot
// and keeps the previous snapshot current.
func (l *RedisLoader) Reload() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := l.rdb.Get(ctx, l.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("redis key %s: %w", l.key, ErrNoSnapshot)
	}
	if err != nil {
		return 0, fmt.Errorf("reading redis key %s: %w", l.key, err)
	}

	snap, err := Decode(data)
	if err != nil {
		return 0, err
	}
	l.store.Publish(snap)
	return len(snap.Positions), nil
}
