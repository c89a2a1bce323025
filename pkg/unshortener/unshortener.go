// Package unshortener orchestrates a batch of shortened URLs through the
// filter, the cache and the redirect resolver under a bounded-concurrency
// gate. Its output contract is fail-open: every input URL produces exactly one
// output line at the same position, and any per-URL failure degrades to
// passing the original through unchanged.
package unshortener

import (
	"context"
	"time"
	"unshorten/pkg/filter"
	"unshorten/pkg/logger"
	"unshorten/pkg/pool"
	"unshorten/pkg/resolver"
	"unshorten/pkg/resolver/hredirect"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
)

// Defaults for the convenience entry point and the CLI.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultConcurrency  = 200
	DefaultMaxRedirects = 20
	DefaultDNSCacheTTL  = 5 * time.Minute
)

// status is the terminal state of one URL's trip through the pipeline.
type status int

const (
	statusIgnored status = iota
	statusCacheHit
	statusExpanded
	statusUnchanged
	statusTimedOut
	statusFailed
)

// result pairs the output line for one position with what happened there.
type result struct {
	line    string
	status  status
	reason  string
	elapsed time.Duration
	cached  bool
}

// Unshortener expands batches of URLs. Construct with New; the zero value is
// not usable.
type Unshortener struct {
	resolver    resolver.Resolver
	options     options
	filterCfg   filter.Config
	concurrency int
}

// New creates an Unshortener around the given resolver. By default there is
// no cache, no domain restriction, no length bound and the concurrency limit
// is DefaultConcurrency.
func New(res resolver.Resolver, opts ...Option) *Unshortener {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Unshortener{
		resolver:    res,
		options:     o,
		filterCfg:   filter.Config{Domains: o.domains, MaxLen: o.maxLen},
		concurrency: o.concurrency,
	}
}

// Expand resolves urls and returns one line per input in input order: the
// expanded destination where resolution succeeded, otherwise the original URL
// unchanged. The returned Stats describe the whole batch.
func (u *Unshortener) Expand(ctx context.Context, urls []string) ([]string, *Stats) {
	start := time.Now()

	var bar *mpb.Bar
	var progress *mpb.Progress
	if u.options.progressOut != nil && len(urls) > 0 {
		progress = mpb.New(mpb.WithOutput(u.options.progressOut), mpb.WithWidth(64))
		bar = progress.New(int64(len(urls)),
			mpb.BarStyle(),
			mpb.PrependDecorators(decor.Name("expanding "), decor.CountersNoUnit("%d / %d")),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	results := pool.Map(ctx, urls, u.concurrency, func(ctx context.Context, rawURL string) result {
		r := u.processOne(ctx, rawURL)
		if bar != nil {
			bar.Increment()
		}

		return r
	})

	if progress != nil {
		progress.Wait()
	}

	lines := make([]string, len(results))
	stats := &Stats{}
	for i, r := range results {
		lines[i] = r.line
		stats.observe(r)
	}

	elapsed := time.Since(start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(len(urls)) / elapsed.Seconds()
	}
	logger.Info(ctx, "batch processed",
		zap.Int("urls", len(urls)),
		zap.Duration("elapsed", elapsed),
		zap.Float64("urlsPerSecond", rate))

	return lines, stats
}

// processOne walks a single URL through filter, cache, resolver and cache
// write-back. It always returns a usable line; failures never escape as
// errors.
func (u *Unshortener) processOne(ctx context.Context, rawURL string) result {
	ctx = logger.WithFields(ctx, zap.String("url", rawURL))

	if !filter.ShouldAttempt(rawURL, u.filterCfg) {
		logger.Debug(ctx, "ignored by filter")

		return result{line: rawURL, status: statusIgnored}
	}

	if u.options.cache != nil {
		v, ok, err := u.options.cache.Get(ctx, rawURL)
		switch {
		case err != nil:
			// A failing backend degrades this URL to a miss; the resolution
			// is still attempted and reported.
			logger.Warn(ctx, "cache get failed, treating as miss", zap.Error(err))
		case ok:
			logger.Debug(ctx, "cache hit", zap.String("expanded", v))

			return result{line: v, status: statusCacheHit}
		}
	}

	if u.options.limiter != nil {
		if err := u.options.limiter.Wait(ctx); err != nil {
			return result{line: rawURL, status: statusFailed, reason: resolver.ReasonConnection}
		}
	}

	out := u.resolver.Resolve(ctx, rawURL)
	switch out.Kind {
	case resolver.KindTimedOut:
		logger.Debug(ctx, "resolution timed out", zap.Duration("elapsed", out.Elapsed))

		return result{line: rawURL, status: statusTimedOut, elapsed: out.Elapsed}
	case resolver.KindFailed:
		logger.Debug(ctx, "resolution failed", zap.String("reason", out.Reason))

		return result{line: rawURL, status: statusFailed, reason: out.Reason, elapsed: out.Elapsed}
	}

	if out.FinalURL == rawURL {
		// The probe came back without moving; nothing to cache or count as an
		// expansion.
		return result{line: rawURL, status: statusUnchanged, elapsed: out.Elapsed}
	}

	r := result{line: out.FinalURL, status: statusExpanded, elapsed: out.Elapsed}
	if u.options.cache != nil {
		if err := u.options.cache.Set(ctx, rawURL, out.FinalURL); err != nil {
			logger.Warn(ctx, "cache set failed", zap.Error(err))
		} else {
			r.cached = true
		}
	}

	return r
}

// Expand is the programmatic entry point: it resolves urls with a default
// HTTP resolver, applying opts on top of the defaults. Unlike the CLI, the
// default here disables caching.
func Expand(ctx context.Context, urls []string, opts ...Option) ([]string, *Stats) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	res := hredirect.New(hredirect.Options{
		Timeout:        o.timeout,
		MaxRedirects:   DefaultMaxRedirects,
		MaxConnections: o.concurrency,
		DNSCacheTTL:    DefaultDNSCacheTTL,
	})

	return New(res, opts...).Expand(ctx, urls)
}
