package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

func sampleResults(eventID string) *models.AnalysisResults {
	return &models.AnalysisResults{
		RunID:       uuid.New(),
		EventID:     eventID,
		GeneratedAt: time.Now(),
	}
}

func TestResultCacheHitAndMiss(t *testing.T) {
	ctx := context.Background()
	rc := NewResultCache(time.Minute, 16)

	assert.Nil(t, rc.Get(ctx, "event-1"))

	want := sampleResults("event-1")
	rc.Set(ctx, "event-1", want)

	got := rc.Get(ctx, "event-1")
	require.NotNil(t, got)
	assert.Equal(t, want.RunID, got.RunID)

	hits, misses, ratio := rc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestResultCacheExpiry(t *testing.T) {
	ctx := context.Background()
	rc := NewResultCache(10*time.Millisecond, 16)

	rc.Set(ctx, "event-1", sampleResults("event-1"))
	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, rc.Get(ctx, "event-1"))
}

func TestResultCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	rc := NewResultCache(time.Minute, 16)

	rc.Set(ctx, "event-1", sampleResults("event-1"))
	rc.Set(ctx, "event-2", sampleResults("event-2"))
	rc.Invalidate(ctx, "event-1")

	assert.Nil(t, rc.Get(ctx, "event-1"))
	assert.NotNil(t, rc.Get(ctx, "event-2"))
}

func TestResultCacheEnforcesMaxEvents(t *testing.T) {
	ctx := context.Background()
	rc := NewResultCache(time.Minute, 2)

	rc.Set(ctx, "event-1", sampleResults("event-1"))
	rc.Set(ctx, "event-2", sampleResults("event-2"))
	require.Equal(t, 2, rc.ItemCount())

	// Nothing has expired, so a live entry must be evicted to make room.
	rc.Set(ctx, "event-3", sampleResults("event-3"))
	assert.Equal(t, 2, rc.ItemCount())
	assert.NotNil(t, rc.Get(ctx, "event-3"))
}

func TestResultCacheReplaceAtCapacityKeepsOthers(t *testing.T) {
	ctx := context.Background()
	rc := NewResultCache(time.Minute, 2)

	rc.Set(ctx, "event-1", sampleResults("event-1"))
	rc.Set(ctx, "event-2", sampleResults("event-2"))

	// Overwriting an existing event does not grow the cache, so no
	// eviction should happen.
	rc.Set(ctx, "event-1", sampleResults("event-1"))
	assert.Equal(t, 2, rc.ItemCount())
	assert.NotNil(t, rc.Get(ctx, "event-1"))
	assert.NotNil(t, rc.Get(ctx, "event-2"))
}

func TestResultCacheClear(t *testing.T) {
	ctx := context.Background()
	rc := NewResultCache(time.Minute, 16)

	rc.Set(ctx, "event-1", sampleResults("event-1"))
	rc.Clear()

	assert.Equal(t, 0, rc.ItemCount())
	hits, misses, _ := rc.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
