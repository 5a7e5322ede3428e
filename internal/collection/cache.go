// Package collection discovers collection schemas, maps assignment facets
// onto whatever properties a collection actually has, and writes captures.
package collection

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/notion"
)

// DefaultSchemaTTL is how long a discovered schema is trusted.
const DefaultSchemaTTL = 5 * time.Minute

// SchemaSource retrieves a collection's raw schema.
type SchemaSource interface {
	RetrieveDatabase(ctx context.Context, id string) (*notion.Database, error)
}

// PropertyTypes maps a property name to its declared type.
type PropertyTypes map[string]string

type cacheEntry struct {
	types     PropertyTypes
	expiresAt time.Time
}

// SchemaCache caches property types per collection id.
// Concurrent misses for the same id each fetch; the last store wins.
type SchemaCache struct {
	source SchemaSource
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// CacheOption configures a SchemaCache.
type CacheOption func(*SchemaCache)

// WithTTL overrides DefaultSchemaTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *SchemaCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *SchemaCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for fetch events.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *SchemaCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewSchemaCache creates an empty cache in front of source.
func NewSchemaCache(source SchemaSource, opts ...CacheOption) *SchemaCache {
	c := &SchemaCache{
		source:  source,
		ttl:     DefaultSchemaTTL,
		now:     time.Now,
		logger:  slog.Default(),
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PropertyTypes returns the property types of a collection, from cache while
// fresh. A failed fetch returns SCHEMA_RETRIEVAL and leaves the cache as it was.
// The returned map is a copy.
func (c *SchemaCache) PropertyTypes(ctx context.Context, collectionID string) (PropertyTypes, error) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[collectionID]
	c.mu.Unlock()
	if ok && now.Before(entry.expiresAt) {
		return maps.Clone(entry.types), nil
	}

	db, err := c.source.RetrieveDatabase(ctx, collectionID)
	if err != nil {
		return nil, errors.NewSchemaRetrieval(collectionID, err)
	}

	types := extractPropertyTypes(db)
	c.mu.Lock()
	c.entries[collectionID] = cacheEntry{types: types, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	c.logger.Debug("collection schema fetched", "collection_id", collectionID, "properties", len(types))
	return maps.Clone(types), nil
}

// extractPropertyTypes keeps only definitions that declare a string type.
func extractPropertyTypes(db *notion.Database) PropertyTypes {
	types := make(PropertyTypes)
	if db == nil {
		return types
	}
	for name, def := range db.Properties {
		obj, ok := def.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := obj["type"].(string); ok && t != "" {
			types[name] = t
		}
	}
	return types
}
