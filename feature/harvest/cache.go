package harvest

import (
	"sync"
	"time"

	"metadata-harvester/core/reconcile"

	"golang.org/x/sync/singleflight"
)

// HarvestCache tracks the freshness of the persisted artifacts and the
// statistics of the last completed pass. It is owned by the Service so
// that multiple service instances (e.g. in tests) do not interfere.
type HarvestCache struct {
	mu          sync.Mutex
	interval    time.Duration
	lastRefresh time.Time
	lastStats   reconcile.Stats

	flight singleflight.Group
}

// NewHarvestCache creates a cache with the given staleness interval.
func NewHarvestCache(interval time.Duration) *HarvestCache {
	return &HarvestCache{interval: interval}
}

// IsFresh reports whether the last refresh is within the interval.
// A cache that has never refreshed is stale.
func (c *HarvestCache) IsFresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRefresh.IsZero() {
		return false
	}
	return time.Since(c.lastRefresh) < c.interval
}

// MarkRefreshed records a completed pass and its statistics.
func (c *HarvestCache) MarkRefreshed(stats reconcile.Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRefresh = time.Now()
	c.lastStats = stats
}

// LastStats returns the statistics of the last completed pass.
func (c *HarvestCache) LastStats() reconcile.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStats
}

// LastRefresh returns the time of the last completed pass.
func (c *HarvestCache) LastRefresh() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh
}

// Do funnels concurrent refresh attempts into a single in-flight pass;
// callers arriving while a pass runs block until it completes and share
// its result.
func (c *HarvestCache) Do(fn func() (any, error)) error {
	_, err, _ := c.flight.Do("harvest", fn)
	return err
}
