// Package cache provides in-memory caching of analysis results per event.
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/RohanChat/live-lines-finder/internal/metrics"
	"github.com/RohanChat/live-lines-finder/internal/models"
)

// ResultCache keeps the most recent analysis results per event so repeated
// requests within the TTL do not refit curves.
type ResultCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxEvents int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a result cache with the given TTL and event limit.
func NewResultCache(ttl time.Duration, maxEvents int) *ResultCache {
	return &ResultCache{
		cache:     gocache.New(ttl, ttl*2),
		ttl:       ttl,
		maxEvents: maxEvents,
	}
}

// Get retrieves cached results for an event, or nil on a miss.
func (rc *ResultCache) Get(ctx context.Context, eventID string) *models.AnalysisResults {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, found := rc.cache.Get(eventID); found {
		rc.hitCount++
		rc.updateMetrics()
		if results, ok := cached.(*models.AnalysisResults); ok {
			return results
		}
	}

	rc.missCount++
	rc.updateMetrics()
	return nil
}

// Set stores results for an event. When the cache is full it evicts
// expired entries first, then arbitrary live ones, so the event count
// never exceeds the configured limit.
func (rc *ResultCache) Set(ctx context.Context, eventID string, results *models.AnalysisResults) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	_, replacing := rc.cache.Get(eventID)
	if !replacing && rc.cache.ItemCount() >= rc.maxEvents {
		rc.cache.DeleteExpired()
		for k := range rc.cache.Items() {
			if rc.cache.ItemCount() < rc.maxEvents {
				break
			}
			rc.cache.Delete(k)
		}
	}

	rc.cache.Set(eventID, results, rc.ttl)
}

// Invalidate drops the cached results for one event.
func (rc *ResultCache) Invalidate(ctx context.Context, eventID string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Delete(eventID)
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.stats()
}

func (rc *ResultCache) stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *ResultCache) updateMetrics() {
	_, _, ratio := rc.stats()
	metrics.CacheHitRatio.Set(ratio)
}

// ItemCount returns the number of cached events.
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}
