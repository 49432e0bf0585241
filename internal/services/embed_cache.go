// Package services – embed cache
//
// Optional Redis-backed cache for rendered embeds, keyed by post id. The
// upstream oEmbed endpoint rate limits aggressively, so repeated feed loads
// should not re-render unchanged posts. The cache fails open: any Redis
// problem is logged once and resolution proceeds against the widget.
package services

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-bookfeed-backend/internal/widget"
)

// embedKeyPrefix namespaces cache entries so the keyspace can be shared.
const embedKeyPrefix = "embed:"

// EmbedCache stores rendered embeds in Redis with a TTL. A nil or disabled
// cache is safe to call; every operation becomes a no-op miss.
type EmbedCache struct {
	rdb     *redis.Client
	enabled bool
	ttl     time.Duration
	shortTO time.Duration // per-op timeout so Redis can never stall a request
	warned  atomic.Bool
}

// NewEmbedCache wraps rdb. Passing a nil client disables the cache.
func NewEmbedCache(rdb *redis.Client, ttl time.Duration) *EmbedCache {
	return &EmbedCache{
		rdb:     rdb,
		enabled: rdb != nil,
		ttl:     ttl,
		shortTO: 150 * time.Millisecond,
	}
}

// Get returns the cached embed for postID, or nil on miss (including every
// disabled-cache and Redis-failure case).
func (c *EmbedCache) Get(ctx context.Context, postID string) *widget.Embed {
	if c == nil || !c.enabled {
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	raw, err := c.rdb.Get(opCtx, embedKeyPrefix+postID).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.warnOnce(err)
		return nil
	}
	var emb widget.Embed
	if err := json.Unmarshal(raw, &emb); err != nil {
		c.warnOnce(err)
		return nil
	}
	return &emb
}

// Put stores emb under postID. Failures are swallowed after a single warning.
func (c *EmbedCache) Put(ctx context.Context, postID string, emb *widget.Embed) {
	if c == nil || !c.enabled || emb == nil {
		return
	}
	raw, err := json.Marshal(emb)
	if err != nil {
		c.warnOnce(err)
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	if err := c.rdb.Set(opCtx, embedKeyPrefix+postID, raw, c.ttl).Err(); err != nil {
		c.warnOnce(err)
	}
}

// warnOnce logs the first cache failure and stays quiet afterwards to avoid
// log storms when Redis is down.
func (c *EmbedCache) warnOnce(err error) {
	if c.warned.CompareAndSwap(false, true) {
		log.Warn().Err(err).Msg("embed cache unavailable, proceeding without it")
	}
}
