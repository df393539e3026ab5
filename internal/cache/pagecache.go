package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboard/internal/observability"

	"github.com/redis/go-redis/v9"
)

// PageCache stores rendered pages for a fixed time-to-live.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
	// Clear drops every cached page immediately.
	Clear(ctx context.Context) error
}

// RedisPageCache keeps pages under a shared prefix so Clear can find them.
type RedisPageCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPageCache returns a Redis-backed cache, or a no-op cache when rdb is nil.
func NewPageCache(rdb *redis.Client, ttl time.Duration) PageCache {
	if rdb == nil {
		return NoopPageCache{}
	}
	return &RedisPageCache{rdb: rdb, prefix: PageCachePrefix, ttl: ttl}
}

func (p *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := p.rdb.Get(ctx, p.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (p *RedisPageCache) Set(ctx context.Context, key string, body []byte) error {
	return p.rdb.Set(ctx, p.prefix+key, body, p.ttl).Err()
}

func (p *RedisPageCache) Clear(ctx context.Context) error {
	iter := p.rdb.Scan(ctx, 0, p.prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := p.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("clear page cache: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan page cache: %w", err)
	}
	if len(batch) > 0 {
		if err := p.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("clear page cache: %w", err)
		}
	}
	observability.PageCacheClears.Inc()
	return nil
}

// NoopPageCache never stores anything.
type NoopPageCache struct{}

func (NoopPageCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NoopPageCache) Set(context.Context, string, []byte) error         { return nil }
func (NoopPageCache) Clear(context.Context) error                       { return nil }
