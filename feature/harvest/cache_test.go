package harvest

import (
	"testing"
	"time"

	"metadata-harvester/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestHarvestCache_NeverRefreshedIsStale(t *testing.T) {
	cache := NewHarvestCache(time.Hour)
	assert.False(t, cache.IsFresh())
	assert.True(t, cache.LastRefresh().IsZero())
}

func TestHarvestCache_FreshAfterRefresh(t *testing.T) {
	cache := NewHarvestCache(time.Hour)

	stats := reconcile.Stats{Created: 3, Total: 3}
	cache.MarkRefreshed(stats)

	assert.True(t, cache.IsFresh())
	assert.Equal(t, stats, cache.LastStats())
	assert.False(t, cache.LastRefresh().IsZero())
}

func TestHarvestCache_ZeroIntervalAlwaysStale(t *testing.T) {
	cache := NewHarvestCache(0)
	cache.MarkRefreshed(reconcile.Stats{})
	assert.False(t, cache.IsFresh())
}

func TestHarvestCache_DoPropagatesError(t *testing.T) {
	cache := NewHarvestCache(time.Hour)

	err := cache.Do(func() (any, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
