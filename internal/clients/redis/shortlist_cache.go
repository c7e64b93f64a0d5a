package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
	"github.com/cardnexus/cardnexus-backend/internal/utils"
)

// ShortlistCache memoizes scan shortlists keyed by the filtered OCR text. The
// cache is advisory: misses and errors both fall through to the matcher.
type ShortlistCache interface {
	Get(ctx context.Context, key string) ([]types.ScanMatch, bool)
	Set(ctx context.Context, key string, items []types.ScanMatch)
	Close() error
}

type shortlistCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewShortlistCache(baseLog *logger.Logger) (ShortlistCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("SCAN_CACHE_TTL_SECONDS", 600, baseLog)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &shortlistCache{
		log: baseLog.With("service", "ShortlistCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *shortlistCache) Get(ctx context.Context, key string) ([]types.ScanMatch, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err)
		return nil, false
	}
	var items []types.ScanMatch
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (c *shortlistCache) Set(ctx context.Context, key string, items []types.ScanMatch) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *shortlistCache) Close() error {
	return c.rdb.Close()
}
