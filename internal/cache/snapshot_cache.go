package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	// SnapshotKey is the redis key holding the serialized catalog.
	SnapshotKey = "catalog:snapshot"
	// GenerationKey counts invalidations. A snapshot is only stored when the
	// generation it was loaded under is still current.
	GenerationKey = "catalog:generation"
)

// setIfCurrent stores KEYS[1] only while KEYS[2] still equals ARGV[1].
const setIfCurrent = `
if (redis.call('GET', KEYS[2]) or '0') == ARGV[1] then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
  return 1
end
return 0
`

// Client is the subset of the redis client used by the cache.
type Client interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SnapshotCache keeps the full catalog (products and categories) in redis.
type SnapshotCache struct {
	client Client
	ttl    time.Duration
}

// DefaultTTL is used when no positive ttl is configured.
const DefaultTTL = 5 * time.Minute

// NewSnapshotCache creates a cache whose entries expire after ttl.
func NewSnapshotCache(client Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot and the current generation. A miss returns a nil snapshot.
func (c *SnapshotCache) Get(ctx context.Context) (*model.Snapshot, int64, error) {
	values, err := c.client.MGet(ctx, SnapshotKey, GenerationKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	if len(values) != 2 {
		return nil, 0, fmt.Errorf("unexpected MGET reply of %d values", len(values))
	}

	generation, err := parseGeneration(values[1])
	if err != nil {
		return nil, 0, err
	}

	raw, ok := values[0].(string)
	if !ok {
		return nil, generation, nil
	}
	var snapshot model.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, 0, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return &snapshot, generation, nil
}

// Set stores the snapshot unless the cache was invalidated after generation was read.
func (c *SnapshotCache) Set(ctx context.Context, generation int64, snapshot model.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	stored, err := c.client.Eval(ctx, setIfCurrent, []string{SnapshotKey, GenerationKey},
		strconv.FormatInt(generation, 10), raw, c.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	if stored == 0 {
		slog.Debug("skipped stale catalog snapshot", slog.Int64("generation", generation))
	}
	return nil
}

// Invalidate bumps the generation and drops the cached snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, GenerationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump catalog generation: %w", err)
	}
	if err := c.client.Del(ctx, SnapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog snapshot: %w", err)
	}
	return nil
}

func parseGeneration(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected catalog generation %v", v)
	}
	generation, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid catalog generation %q: %w", s, err)
	}
	return generation, nil
}
