package unshortener

import (
	"io"
	"time"
	"unshorten/pkg/cache"
	"unshorten/pkg/domains"

	"golang.org/x/time/rate"
)

// options carry everything configurable about a batch run.
type options struct {
	cache       cache.Cache
	domains     *domains.Set
	maxLen      int
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	progressOut io.Writer
}

func defaultOptions() options {
	return options{
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
	}
}

// Option customizes an Unshortener.
type Option func(*options)

// WithCache enables result caching on the given backend. nil disables
// caching (the default).
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithDomains restricts expansion to hosts belonging to the given shortener
// set. nil (the default) disables the domain check; an empty set rejects
// every domain.
func WithDomains(s *domains.Set) Option {
	return func(o *options) { o.domains = s }
}

// WithMaxLen skips URLs longer than maxLen bytes. Zero disables the bound.
func WithMaxLen(maxLen int) Option {
	return func(o *options) { o.maxLen = maxLen }
}

// WithConcurrency sets the maximum number of URLs processed simultaneously.
func WithConcurrency(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.concurrency = limit
		}
	}
}

// WithTimeout sets the total per-URL timeout used by the default resolver of
// the package-level Expand. It has no effect on a resolver passed to New.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRateLimit throttles upstream requests to rps per second. Zero or
// negative disables throttling (the default).
func WithRateLimit(rps float64) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil

			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithProgress renders a progress bar to w while the batch runs.
func WithProgress(w io.Writer) Option {
	return func(o *options) { o.progressOut = w }
}
