// Package cache provides the optional read-through cache for post views.
//
// Values are JSON encoded. A cache failure never fails a request: callers
// log it and fall back to the store.
package cache

import (
	"context"
	"strconv"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the value at key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// PostListKey holds the newest-first post list.
const PostListKey = "board:posts:list"

// PostKey holds the detail view of one post.
func PostKey(id int64) string {
	return "board:posts:" + strconv.FormatInt(id, 10)
}

// Nop is used when no Redis URL is configured. Every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) Delete(context.Context, ...string) error        { return nil }
