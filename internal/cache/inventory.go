package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PageCachePrefix = "pagecache:"
	GroupKeyPrefix  = "group:%s"
)

const (
	GroupTTL = 10 * time.Minute
)

// PageKey identifies a rendered view for one viewer and query string.
// Anonymous viewers share viewerID 0.
func PageKey(view string, viewerID uint, query string) string {
	return fmt.Sprintf("%s:u%d:%s", view, viewerID, query)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

// Invalidate deletes keys, ignoring a nil client.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb != nil && len(keys) > 0 {
		rdb.Del(ctx, keys...)
	}
}

func InvalidateGroup(ctx context.Context, rdb *redis.Client, slug string) {
	Invalidate(ctx, rdb, GroupKey(slug))
}
