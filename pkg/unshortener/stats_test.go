package unshortener

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMeanStddevMs(t *testing.T) {
	_, _, ok := meanStddevMs(nil)
	require.False(t, ok, "empty sample has no distribution")

	mean, stddev, ok := meanStddevMs([]time.Duration{10 * time.Millisecond})
	require.True(t, ok)
	require.InDelta(t, 10, mean, 1e-9)
	require.True(t, math.IsNaN(stddev), "single sample has no stddev")

	mean, stddev, ok = meanStddevMs([]time.Duration{10 * time.Millisecond, 20 * time.Millisecond})
	require.True(t, ok)
	require.InDelta(t, 15, mean, 1e-9)
	// sample stddev of {10, 20} is sqrt(50)
	require.InDelta(t, math.Sqrt(50), stddev, 1e-9)
}

func TestStatsObserve(t *testing.T) {
	var s Stats

	s.observe(result{status: statusIgnored})
	s.observe(result{status: statusCacheHit})
	s.observe(result{status: statusExpanded, elapsed: 5 * time.Millisecond, cached: true})
	s.observe(result{status: statusExpanded, elapsed: 7 * time.Millisecond})
	s.observe(result{status: statusUnchanged, elapsed: 3 * time.Millisecond})
	s.observe(result{status: statusTimedOut, elapsed: 10 * time.Second})
	s.observe(result{status: statusFailed, elapsed: 2 * time.Millisecond})

	require.Equal(t, 1, s.Ignored)
	require.Equal(t, 1, s.CachedRetrieved)
	require.Equal(t, 2, s.Expanded)
	require.Equal(t, 1, s.Cached, "only successful write-backs count")
	require.Equal(t, 1, s.Timeout)
	require.Equal(t, 1, s.Errored)
	require.Len(t, s.ElapsedAll, 5)
	require.Len(t, s.ElapsedExpanded, 2)
}
