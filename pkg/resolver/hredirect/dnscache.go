package hredirect

import (
	"context"
	"net"
	"sync"
	"time"
)

// cachedDialer wraps a net.Dialer with a host→address cache so that chasing
// thousands of chains through the same shortener does not re-resolve its name
// on every connection. Entries expire after ttl; a non-positive ttl disables
// caching entirely.
type cachedDialer struct {
	ttl      time.Duration
	resolver *net.Resolver
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)

	mu      sync.Mutex
	entries map[string]dnsEntry
}

type dnsEntry struct {
	addrs   []string
	expires time.Time
}

func newCachedDialer(ttl time.Duration) *cachedDialer {
	d := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &cachedDialer{
		ttl:      ttl,
		resolver: net.DefaultResolver,
		dial:     d.DialContext,
		entries:  make(map[string]dnsEntry),
	}
}

// DialContext resolves addr's host through the cache and dials the first
// reachable address. Literal IPs and unsplittable addresses bypass the cache.
func (c *cachedDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return c.dial(ctx, network, addr)
	}
	if ip := net.ParseIP(host); ip != nil {
		return c.dial(ctx, network, addr)
	}

	addrs, err := c.lookup(ctx, host)
	if err != nil {
		return nil, err
	}

	var firstErr error
	for _, a := range addrs {
		conn, err := c.dial(ctx, network, net.JoinHostPort(a, port))
		if err == nil {
			return conn, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

func (c *cachedDialer) lookup(ctx context.Context, host string) ([]string, error) {
	if c.ttl <= 0 {
		return c.resolver.LookupHost(ctx, host)
	}

	now := time.Now()

	c.mu.Lock()
	if e, ok := c.entries[host]; ok && now.Before(e.expires) {
		c.mu.Unlock()

		return e.addrs, nil
	}
	c.mu.Unlock()

	addrs, err := c.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[host] = dnsEntry{addrs: addrs, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return addrs, nil
}
