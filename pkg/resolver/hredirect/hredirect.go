// Package hredirect provides a resolver.Resolver that chases HTTP redirect
// chains with header-only probes. One shared transport carries all chains so
// that connections are reused across URLs and bounded as a pool.
package hredirect

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"
	"unshorten/pkg/resolver"
	"unshorten/pkg/serrors"
)

// errRedirectLimit aborts a chain from inside CheckRedirect once the hop
// budget is spent.
var errRedirectLimit = serrors.KindOnly(serrors.ErrRedirectLimit)

// Options configure the shared HTTP client.
type Options struct {
	// Timeout bounds the whole redirect chain of one URL.
	Timeout time.Duration
	// MaxRedirects is the hop budget per chain.
	MaxRedirects int
	// MaxConnections caps simultaneous connections, matching the scheduler's
	// concurrency limit so the pool and the gate agree.
	MaxConnections int
	// DNSCacheTTL is how long resolved addresses are reused.
	DNSCacheTTL time.Duration
	// UserAgent is sent on every probe.
	UserAgent string
}

// Client resolves URLs by following their redirect chains with HEAD requests.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// New builds a Client around a transport bounded to opts.MaxConnections with
// a TTL'd DNS cache in its dialer.
func New(opts Options) *Client {
	transport := &http.Transport{
		DialContext:         newCachedDialer(opts.DNSCacheTTL).DialContext,
		MaxIdleConns:        opts.MaxConnections,
		MaxIdleConnsPerHost: opts.MaxConnections,
		MaxConnsPerHost:     opts.MaxConnections,
		IdleConnTimeout:     90 * time.Second,
		// Shortener chains routinely hop through hosts with mismatched or
		// expired certificates; a verification failure must not break the
		// chain.
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint: gosec
	}

	httpClient := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if opts.MaxRedirects > 0 && len(via) >= opts.MaxRedirects {
				return errRedirectLimit
			}

			return nil
		},
	}

	return &Client{
		httpClient: httpClient,
		timeout:    opts.Timeout,
		userAgent:  opts.UserAgent,
	}
}

// Resolve follows rawURL's redirect chain and reports how it ended. All
// failures are converted to outcomes; Resolve never panics or errors.
func (c *Client) Resolve(ctx context.Context, rawURL string) resolver.Outcome {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return resolver.Failed(resolver.ReasonProtocol, time.Since(start))
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return classify(err, elapsed)
	}
	_ = resp.Body.Close()

	// The client followed every redirect; the request it stopped at is the
	// chain's final destination.
	return resolver.Expanded(resp.Request.URL.String(), elapsed)
}

// classify maps a transport error onto the coarse failure taxonomy.
func classify(err error, elapsed time.Duration) resolver.Outcome {
	switch {
	case errors.Is(err, errRedirectLimit):
		return resolver.Failed(resolver.ReasonRedirectLimit, elapsed)
	case errors.Is(err, context.DeadlineExceeded):
		return resolver.TimedOut(elapsed)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return resolver.Failed(resolver.ReasonDNS, elapsed)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return resolver.Failed(resolver.ReasonConnection, elapsed)
	}

	return resolver.Failed(resolver.ReasonProtocol, elapsed)
}

var _ resolver.Resolver = (*Client)(nil)
