// Package ratelimit tracks request counts per client identity over a
// rolling window and decides whether a request may proceed.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nanotile/ai-document-writer/internal/clock"
	"github.com/nanotile/ai-document-writer/internal/log"
	"github.com/nanotile/ai-document-writer/internal/slidingwindow"
)

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed bool
	// RetryAfter is how long the caller should wait before retrying.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

type entry struct {
	window   *slidingwindow.Window
	lastSeen time.Time
}

// Limiter applies a sliding-window limit per client identity.
//
// The whole limiter is guarded by one mutex: the check-and-record step must
// be atomic per identity, and the map is small enough that coarse locking
// is not a bottleneck at this scale.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*entry

	windowSize  time.Duration
	maxRequests int
	maxClients  int
	clk         clock.Clock
}

// New creates a Limiter allowing maxRequests per identity within windowSize.
// At most maxClients identities are tracked at once; beyond that the least
// recently seen identity is evicted.
func New(windowSize time.Duration, maxRequests, maxClients int, clk clock.Clock) *Limiter {
	return &Limiter{
		clients:     make(map[string]*entry),
		windowSize:  windowSize,
		maxRequests: maxRequests,
		maxClients:  maxClients,
		clk:         clk,
	}
}

// Allow records a request for the identity if it fits in the window.
func (l *Limiter) Allow(identity string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now()

	e, exists := l.clients[identity]
	if !exists {
		l.sweep(now)
		if len(l.clients) >= l.maxClients {
			l.evictLeastRecentlySeen()
		}
		e = &entry{window: slidingwindow.New(l.windowSize, l.maxRequests)}
		l.clients[identity] = e
	}
	e.lastSeen = now

	if e.window.TryRecord(now) {
		return Decision{Allowed: true}
	}
	return Decision{RetryAfter: e.window.RetryAfter(now)}
}

// Tracked returns the number of identities currently held, after dropping
// the ones whose windows have emptied.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(l.clk.Now())
	return len(l.clients)
}

// sweep drops identities with no remaining timestamps (must be called with
// the lock held).
func (l *Limiter) sweep(now time.Time) {
	for identity, e := range l.clients {
		if e.window.Empty(now) {
			delete(l.clients, identity)
		}
	}
}

// evictLeastRecentlySeen removes the identity with the oldest lastSeen so
// the map stays bounded under sustained attack (must be called with the
// lock held).
func (l *Limiter) evictLeastRecentlySeen() {
	var oldest string
	var oldestSeen time.Time
	first := true
	for identity, e := range l.clients {
		if first || e.lastSeen.Before(oldestSeen) {
			oldest = identity
			oldestSeen = e.lastSeen
			first = false
		}
	}
	if !first {
		delete(l.clients, oldest)
		log.Debug("rate limiter evicted identity", slog.String("identity", oldest))
	}
}
