// Package session tracks authenticated sessions with sliding expiry:
// every valid access resets the countdown, so idle sessions expire while
// active ones never do.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nanotile/ai-document-writer/internal/clock"
)

// ErrSessionExists is returned when creating a session with an identifier
// that is already in use. Identifiers are minted randomly, so hitting this
// indicates a caller reusing an ID instead of minting a fresh one.
var ErrSessionExists = errors.New("session already exists")

type record struct {
	owner        string
	lastActivity time.Time
}

// Store holds all live sessions for the process. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*record

	timeout time.Duration
	clk     clock.Clock
}

// NewStore creates a Store with the given idle timeout.
func NewStore(timeout time.Duration, clk clock.Clock) *Store {
	return &Store{
		sessions: make(map[string]*record),
		timeout:  timeout,
		clk:      clk,
	}
}

// Mint creates a session with a fresh random identifier for the owner and
// returns the identifier.
func (s *Store) Mint(owner string) (string, error) {
	id := uuid.NewString()
	if err := s.Create(id, owner); err != nil {
		return "", err
	}
	return id, nil
}

// Create inserts a session with the given identifier. It never overwrites:
// a duplicate identifier is an error, so a fixated or replayed ID cannot
// displace a live session.
func (s *Store) Create(id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	s.sweep(now)

	if _, exists := s.sessions[id]; exists {
		return ErrSessionExists
	}
	s.sessions[id] = &record{owner: owner, lastActivity: now}
	return nil
}

// Touch validates the session and refreshes its activity timestamp,
// returning the session's owner. An unknown or expired identifier reports
// false; expired records are removed on the spot.
func (s *Store) Touch(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.sessions[id]
	if !exists {
		return "", false
	}

	now := s.clk.Now()
	if now.Sub(rec.lastActivity) > s.timeout {
		delete(s.sessions, id)
		return "", false
	}

	rec.lastActivity = now
	return rec.owner, true
}

// Revoke removes a session, e.g. on logout. Unknown IDs are a no-op.
func (s *Store) Revoke(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Active returns the number of unexpired sessions.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(s.clk.Now())
	return len(s.sessions)
}

// sweep drops expired records (must be called with the lock held).
func (s *Store) sweep(now time.Time) {
	for id, rec := range s.sessions {
		if now.Sub(rec.lastActivity) > s.timeout {
			delete(s.sessions, id)
		}
	}
}
