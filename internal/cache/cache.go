// Package cache persists generated state content for reuse within a TTL
// window. Cache failures are never fatal: a broken backend degrades every
// lookup to a miss and every save to a logged warning.
package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/counselpath/stategen/internal/model"
)

// Store is the cache persistence interface.
type Store interface {
	// Get returns the entry for a key, or (nil, nil) when absent or expired.
	Get(ctx context.Context, key string) (*model.GenerationResult, error)
	// Put stores an entry, overwriting any existing value for the key.
	Put(ctx context.Context, key, state string, result *model.GenerationResult, expiresAt time.Time) error
	// Prune deletes expired entries and returns how many were removed.
	Prune(ctx context.Context) (int, error)
	// Clear deletes every entry.
	Clear(ctx context.Context) (int, error)
	// Delete removes every entry for one state, across versions.
	Delete(ctx context.Context, state string) (int, error)
	// Stats counts live and expired entries.
	Stats(ctx context.Context) (*Stats, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Stats summarizes cache occupancy.
type Stats struct {
	Entries int `json:"entries"`
	Expired int `json:"expired"`
}

// Diagnostics receives cache outcome notifications. Implementations must be
// cheap; they run on the request path.
type Diagnostics interface {
	CacheHit(state string)
	CacheMiss(state string)
	CacheError(state string, err error)
}

// NoopDiagnostics discards all notifications.
type NoopDiagnostics struct{}

func (NoopDiagnostics) CacheHit(string)          {}
func (NoopDiagnostics) CacheMiss(string)         {}
func (NoopDiagnostics) CacheError(string, error) {}

// Key derives the cache key for a state slug under a content version. Bumping
// the version invalidates every state's cached content at once.
func Key(state, version string) string {
	return fmt.Sprintf("state_content_%s_%s", state, version)
}

// Cache wraps a Store with the key scheme, TTL policy, and degrade-to-miss
// semantics.
type Cache struct {
	store   Store
	diag    Diagnostics
	ttl     time.Duration
	version string
}

// New creates a cache. A nil diag defaults to NoopDiagnostics.
func New(store Store, diag Diagnostics, ttl time.Duration, version string) *Cache {
	if diag == nil {
		diag = NoopDiagnostics{}
	}
	return &Cache{store: store, diag: diag, ttl: ttl, version: version}
}

// Lookup returns the cached result for a state, or nil on a miss. Storage
// errors degrade to a miss.
func (c *Cache) Lookup(ctx context.Context, state string) *model.GenerationResult {
	result, err := c.store.Get(ctx, Key(state, c.version))
	if err != nil {
		zap.L().Warn("cache lookup failed, treating as miss",
			zap.String("state", state), zap.Error(err))
		c.diag.CacheError(state, err)
		return nil
	}
	if result == nil {
		c.diag.CacheMiss(state)
		return nil
	}
	c.diag.CacheHit(state)
	return result
}

// Save stores a result for a state. Storage errors are logged and swallowed;
// the generation that produced the result still succeeds.
func (c *Cache) Save(ctx context.Context, state string, result *model.GenerationResult) {
	expiresAt := time.Now().Add(c.ttl)
	if err := c.store.Put(ctx, Key(state, c.version), state, result, expiresAt); err != nil {
		zap.L().Warn("cache save failed",
			zap.String("state", state), zap.Error(err))
		c.diag.CacheError(state, err)
	}
}

// Version returns the active content version.
func (c *Cache) Version() string {
	return c.version
}
