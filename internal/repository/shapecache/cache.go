// Package shapecache stores resolved query shapes keyed by the literal raw
// query so that every page of a search session reuses the same filters.
package shapecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/db"
	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
)

// DefaultKeyPrefix namespaces shape entries in a shared store.
const DefaultKeyPrefix = domain.KeyPrefix + "shape:"

// store is the consumer interface for the shape cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cache is an exact-key query shape cache. Entries have no TTL.
type Cache struct {
	store      store
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a shape cache over s. An empty prefix uses DefaultKeyPrefix.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"invalid"), passed explicitly.
func New(s store, prefix string, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:      s,
		prefix:     prefix,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the shape stored for raw. Store failures and entries that fail
// schema validation are reported as a miss.
func (c *Cache) Get(ctx context.Context, raw string) (shape.Shape, bool) {
	key := c.key(raw)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached query shape", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return shape.Shape{}, false
	}

	s, err := shape.Decode(data)
	if err != nil {
		c.logger.Warn("Discarding invalid cached query shape", zap.String("key", key), zap.Error(err))
		c.inc("invalid")
		return shape.Shape{}, false
	}

	c.inc("hit")
	return s, true
}

// Put stores s for raw, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, raw string, s shape.Shape) error {
	data, err := shape.Encode(s)
	if err != nil {
		return fmt.Errorf("encode query shape: %w", err)
	}
	if err := c.store.Set(ctx, c.key(raw), data); err != nil {
		return fmt.Errorf("store query shape: %w", err)
	}
	return nil
}

func (c *Cache) key(raw string) string {
	return c.prefix + raw
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
