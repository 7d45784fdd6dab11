// Package cache is the process-wide listing snapshot with a fixed expiry
// window. It is read before a fetch when offline, read as a fallback when a
// fetch fails, rewritten after every successful fetch and dropped after any
// write to the remote service.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/metrics"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/client/repositories/snapshots"
	"github.com/krktechnologyandservices/GBV/internal/common"
	"github.com/krktechnologyandservices/GBV/internal/logging"
)

// DefaultTTL is the expiry window of a snapshot.
const DefaultTTL = 5 * time.Minute

var (
	// ErrStale means a snapshot exists but is older than the TTL. It never
	// leaves the package: callers see it as a miss.
	ErrStale = errors.New("listing snapshot expired")

	errAbsent = errors.New("listing snapshot absent")
)

// Store is the narrow surface the listing service depends on.
type Store interface {
	Read(ctx context.Context) ([]models.ListingEntry, bool)
	Write(ctx context.Context, entries []models.ListingEntry) error
	Invalidate(ctx context.Context) error
}

type ListingCache struct {
	mu      sync.RWMutex
	repo    snapshots.Repository
	key     string
	ttl     time.Duration
	now     func() time.Time
	log     logging.Logger
	metrics *metrics.Metrics
}

type Option func(*ListingCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *ListingCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ListingCache) { c.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(c *ListingCache) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *ListingCache) { c.metrics = m }
}

func WithKey(key string) Option {
	return func(c *ListingCache) { c.key = key }
}

func New(repo snapshots.Repository, opts ...Option) *ListingCache {
	c := &ListingCache{
		repo: repo,
		key:  common.ListingCacheKey,
		ttl:  DefaultTTL,
		now:  time.Now,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the cached entries when a snapshot exists and has not
// expired. An expired snapshot is deleted. Storage failures are logged and
// reported as a miss.
func (c *ListingCache) Read(ctx context.Context) ([]models.ListingEntry, bool) {
	entries, err := c.lookup(ctx)
	switch {
	case err == nil:
		c.metrics.CacheRead("hit")
		return entries, true
	case errors.Is(err, errAbsent):
		c.metrics.CacheRead("miss")
	case errors.Is(err, ErrStale):
		c.metrics.CacheRead("stale")
		c.log.Debug(ctx, "listing cache expired, dropping snapshot", "key", c.key)
	default:
		c.metrics.CacheRead("miss")
		c.log.Warn(ctx, "listing cache read failed", "key", c.key, "err", err)
	}
	return nil, false
}

func (c *ListingCache) lookup(ctx context.Context) ([]models.ListingEntry, error) {
	c.mu.RLock()
	snap, err := c.repo.Load(ctx, c.key)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errAbsent
	}
	if snap.Age(c.now()) <= c.ttl {
		return snap.Entries, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A writer may have replaced the snapshot between the two locks.
	current, err := c.repo.Load(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errAbsent
	}
	if current.Age(c.now()) <= c.ttl {
		return current.Entries, nil
	}
	if err := c.repo.Delete(ctx, c.key); err != nil {
		c.log.Warn(ctx, "failed to delete expired listing snapshot", "key", c.key, "err", err)
	}
	return nil, ErrStale
}

// Write replaces the snapshot with entries captured now.
func (c *ListingCache) Write(ctx context.Context, entries []models.ListingEntry) error {
	snap := &models.Snapshot{Entries: entries, CapturedAt: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.repo.Save(ctx, c.key, snap, c.ttl)
}

// Invalidate deletes the snapshot outright.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.CacheInvalidation()
	return c.repo.Delete(ctx, c.key)
}
