package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CommitmentSource is the backing store consulted on a cache miss.
type CommitmentSource interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Commitment, error)
}

// kv is the subset of Redis the cache needs.
type kv interface {
	get(ctx context.Context, key string) ([]byte, error) // errMiss when absent
	set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

var errMiss = errors.New("cache miss")

// CommitmentCache wraps a CommitmentSource with a JSON cache.
//
// Key schema:
//
//	commitment:{slug} - JSON-encoded domain.Commitment
//
// Not-found results are never cached. Redis failures are logged and the
// source is used directly, so the cache can only make lookups faster.
type CommitmentCache struct {
	store  kv
	source CommitmentSource
	ttl    time.Duration
	logger *slog.Logger
}

// NewCommitmentCache creates a CommitmentCache backed by the given Client.
func NewCommitmentCache(c *Client, source CommitmentSource, ttl time.Duration, logger *slog.Logger) *CommitmentCache {
	return newCommitmentCache(redisKV{rdb: c.rdb}, source, ttl, logger)
}

func newCommitmentCache(store kv, source CommitmentSource, ttl time.Duration, logger *slog.Logger) *CommitmentCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommitmentCache{
		store:  store,
		source: source,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "commitment_cache")),
	}
}

func commitmentKey(slug string) string { return "commitment:" + slug }

// GetBySlug returns the cached commitment or loads it from the source.
func (cc *CommitmentCache) GetBySlug(ctx context.Context, slug string) (*domain.Commitment, error) {
	key := commitmentKey(slug)

	data, err := cc.store.get(ctx, key)
	switch {
	case err == nil:
		var c domain.Commitment
		if err := json.Unmarshal(data, &c); err == nil {
			return &c, nil
		}
		cc.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	case !errors.Is(err, errMiss):
		cc.logger.WarnContext(ctx, "cache read failed", "key", key, "err", err)
	}

	c, err := cc.source.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(c); err == nil {
		if err := cc.store.set(ctx, key, data, cc.ttl); err != nil {
			cc.logger.WarnContext(ctx, "cache write failed", "key", key, "err", err)
		}
	}
	return c, nil
}

// redisKV adapts *redis.Client to kv.
type redisKV struct {
	rdb *redis.Client
}

func (r redisKV) get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return data, nil
}

func (r redisKV) set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
