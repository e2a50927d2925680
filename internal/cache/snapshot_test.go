package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCacheGetSetEmpty(t *testing.T) {
	c := New[int]()
	_, ok := c.Get()
	assert.False(t, ok)

	c.Set(42)
	v, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestSatellitePathFlooredTo15Min(t *testing.T) {
	t1 := time.Date(2026, 1, 10, 12, 7, 30, 0, time.UTC)
	t2 := time.Date(2026, 1, 10, 12, 14, 59, 0, time.UTC)
	p1 := SatellitePath("/tmp/images", t1, []string{"ISS-FM"})
	p2 := SatellitePath("/tmp/images", t2, []string{"ISS-FM"})
	assert.Equal(t, p1, p2, "queries within the same 15-minute bucket must hit the same path")
}

func TestFeedPathDXWorldHasSeconds(t *testing.T) {
	ts := time.Date(2026, 1, 10, 12, 0, 30, 0, time.UTC)
	p := FeedPath("/tmp/images", FeedDXWorld, ts)
	assert.Equal(t, filepath.Join("/tmp/images", "dxw_20260110_120030.png"), p)
}

func TestLatestAliasPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp", "lotw_latest.png"), LatestAliasPath("/tmp", FeedLoTW))
}
