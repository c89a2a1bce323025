// Package filter decides whether expansion should be attempted for a URL.
package filter

import (
	"net/url"
	"unshorten/pkg/domains"
)

// Config carries the inclusion criteria. The zero value attempts everything
// that parses to a non-empty host.
type Config struct {
	// Domains restricts expansion to hosts of known shortener services.
	// nil means no domain restriction; an empty set rejects every domain.
	Domains *domains.Set
	// MaxLen skips URLs longer than this many bytes. Zero means unbounded.
	MaxLen int
}

// ShouldAttempt reports whether rawURL passes the inclusion criteria. It is a
// pure function: a URL that cannot be parsed, or has no host, is skipped
// rather than treated as an error.
func ShouldAttempt(rawURL string, cfg Config) bool {
	if cfg.MaxLen > 0 && len(rawURL) > cfg.MaxLen {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}

	if cfg.Domains == nil {
		return true
	}

	return cfg.Domains.MatchesHost(host)
}
