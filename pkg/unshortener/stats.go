package unshortener

import (
	"context"
	"math"
	"time"
	"unshorten/pkg/logger"
	"unshorten/pkg/metrics"

	"go.uber.org/zap"
)

// Stats accumulates per-batch counters and timing samples. It is folded
// sequentially by Expand once every URL's outcome is known, so no locking is
// needed; read it only after Expand returns.
type Stats struct {
	// Ignored counts URLs the filter rejected.
	Ignored int
	// Timeout counts URLs whose chain outlived the total deadline.
	Timeout int
	// Errored counts URLs that failed for any non-timeout reason.
	Errored int
	// Cached counts expansions written to the cache this run.
	Cached int
	// CachedRetrieved counts cache hits.
	CachedRetrieved int
	// Expanded counts URLs that resolved to a different destination.
	Expanded int

	// ElapsedAll holds the wall time of every upstream attempt.
	ElapsedAll []time.Duration
	// ElapsedExpanded holds the wall time of attempts that actually expanded.
	ElapsedExpanded []time.Duration
}

func (s *Stats) observe(r result) {
	switch r.status {
	case statusIgnored:
		s.Ignored++
		metrics.ObserveOutcome("ignored")
	case statusCacheHit:
		s.CachedRetrieved++
		metrics.ObserveOutcome("cache_hit")
	case statusExpanded:
		s.Expanded++
		if r.cached {
			s.Cached++
		}
		s.ElapsedAll = append(s.ElapsedAll, r.elapsed)
		s.ElapsedExpanded = append(s.ElapsedExpanded, r.elapsed)
		metrics.ObserveOutcome("expanded")
		metrics.ObserveResolveDuration(r.elapsed)
	case statusUnchanged:
		s.ElapsedAll = append(s.ElapsedAll, r.elapsed)
		metrics.ObserveOutcome("unchanged")
		metrics.ObserveResolveDuration(r.elapsed)
	case statusTimedOut:
		s.Timeout++
		s.ElapsedAll = append(s.ElapsedAll, r.elapsed)
		metrics.ObserveOutcome("timeout")
	case statusFailed:
		s.Errored++
		s.ElapsedAll = append(s.ElapsedAll, r.elapsed)
		metrics.ObserveOutcome("error")
	}
}

// Report logs the batch summary: timing distributions and final counters.
func (s *Stats) Report(ctx context.Context) {
	logElapsed(ctx, "elapsed (all)", s.ElapsedAll)
	logElapsed(ctx, "elapsed (expanded)", s.ElapsedExpanded)
	logger.Info(ctx, "batch summary",
		zap.Int("ignored", s.Ignored),
		zap.Int("expanded", s.Expanded),
		zap.Int("cached", s.Cached),
		zap.Int("cacheHits", s.CachedRetrieved),
		zap.Int("errors", s.Errored),
		zap.Int("timedOut", s.Timeout))
}

func logElapsed(ctx context.Context, what string, seq []time.Duration) {
	mean, stddev, ok := meanStddevMs(seq)
	if !ok {
		logger.Info(ctx, what, zap.String("ms", "N/A"))

		return
	}

	logger.Info(ctx, what,
		zap.Float64("meanMs", mean),
		zap.Float64("stddevMs", stddev))
}

// meanStddevMs reduces a sample of durations to mean and sample standard
// deviation in milliseconds. stddev is NaN for a single sample; ok is false
// for an empty one.
func meanStddevMs(seq []time.Duration) (mean, stddev float64, ok bool) {
	if len(seq) == 0 {
		return 0, 0, false
	}

	var sum float64
	for _, d := range seq {
		sum += float64(d) / float64(time.Millisecond)
	}
	mean = sum / float64(len(seq))

	if len(seq) < 2 {
		return mean, math.NaN(), true
	}

	var sq float64
	for _, d := range seq {
		diff := float64(d)/float64(time.Millisecond) - mean
		sq += diff * diff
	}
	stddev = math.Sqrt(sq / float64(len(seq)-1))

	return mean, stddev, true
}
