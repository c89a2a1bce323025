// Package resolver defines the contract for chasing a shortened URL's
// redirect chain and the Outcome value every attempt collapses into. A
// resolver never propagates failures as errors: every network-, DNS- or
// protocol-level problem becomes an Outcome so that one bad URL can never
// abort its siblings.
package resolver

import (
	"context"
	"time"
)

// OutcomeKind enumerates the terminal states of one resolution attempt.
type OutcomeKind int

const (
	// KindExpanded means the chain terminated at a non-redirect response.
	KindExpanded OutcomeKind = iota
	// KindTimedOut means the total per-URL deadline elapsed mid-chain.
	KindTimedOut
	// KindFailed means a non-timeout failure stopped the chain.
	KindFailed
)

// Coarse failure classifications carried in Outcome.Reason.
const (
	ReasonConnection    = "connection"
	ReasonDNS           = "dns"
	ReasonProtocol      = "protocol"
	ReasonRedirectLimit = "redirect-limit"
)

// Outcome is the result of resolving one URL.
type Outcome struct {
	// Kind is the terminal state of the attempt.
	Kind OutcomeKind
	// FinalURL is the destination the chain terminated at. Only meaningful
	// for KindExpanded.
	FinalURL string
	// Reason is the coarse failure classification for KindFailed.
	Reason string
	// Elapsed is the wall-clock time of the attempt, measured up to
	// cancellation for timeouts.
	Elapsed time.Duration
}

// Expanded builds a successful outcome.
func Expanded(finalURL string, elapsed time.Duration) Outcome {
	return Outcome{Kind: KindExpanded, FinalURL: finalURL, Elapsed: elapsed}
}

// TimedOut builds a timeout outcome.
func TimedOut(elapsed time.Duration) Outcome {
	return Outcome{Kind: KindTimedOut, Elapsed: elapsed}
}

// Failed builds a failure outcome with a coarse reason.
func Failed(reason string, elapsed time.Duration) Outcome {
	return Outcome{Kind: KindFailed, Reason: reason, Elapsed: elapsed}
}

// Resolver chases one URL's redirect chain.
//
//go:generate mockgen -package mockresolver -source=resolver.go -destination=mock/mockresolver.go *
type Resolver interface {
	// Resolve follows rawURL's redirect chain and reports how it ended. The
	// whole chain shares one wall-clock timeout; ctx cancellation stops the
	// in-flight hop of this URL only.
	Resolve(ctx context.Context, rawURL string) Outcome
}
