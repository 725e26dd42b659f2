// Package governor runs every inbound draft request through the governance
// checks in a fixed order: session, rate limit, field validation, and path
// resolution for requests naming a file. The first failing check decides
// the outcome; later checks never run, so an anonymous request cannot
// consume rate-limit allowance and a rate-limited one is never parsed
// further.
package governor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nanotile/ai-document-writer/internal/ratelimit"
	"github.com/nanotile/ai-document-writer/internal/safepath"
	"github.com/nanotile/ai-document-writer/internal/session"
	"github.com/nanotile/ai-document-writer/internal/validate"
)

var (
	// ErrSessionExpired means the caller must establish a new session.
	ErrSessionExpired = errors.New("session expired")

	// ErrPathRejected is internal: the supplied filename could escape the
	// storage root. It is surfaced to clients as not-found so nothing about
	// the filesystem layout leaks.
	ErrPathRejected = errors.New("path rejected")
)

// RateLimitedError carries how long the caller should wait before retrying.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Request is a governed inbound request.
type Request struct {
	SessionID string
	ClientID  string

	// Fields holds the textual body fields to validate, keyed by name.
	Fields map[string]string

	// Filename is set for requests addressing an existing draft file.
	Filename string
}

// Grant is the result of a successful admission.
type Grant struct {
	// Owner is the identity bound to the session.
	Owner string

	// Path is the resolved absolute file path; empty unless the request
	// named a file.
	Path string
}

// Governor wires the governance components together. One instance is
// constructed at startup and shared by all request handlers.
type Governor struct {
	sessions    *session.Store
	limiter     *ratelimit.Limiter
	limits      validate.Limits
	storageRoot string
}

// New creates a Governor over the given components.
func New(sessions *session.Store, limiter *ratelimit.Limiter, limits validate.Limits, storageRoot string) *Governor {
	return &Governor{
		sessions:    sessions,
		limiter:     limiter,
		limits:      limits,
		storageRoot: storageRoot,
	}
}

// Admit runs the full check sequence for a mutating request.
func (g *Governor) Admit(req Request) (Grant, error) {
	owner, ok := g.sessions.Touch(req.SessionID)
	if !ok {
		return Grant{}, ErrSessionExpired
	}

	if d := g.limiter.Allow(req.ClientID); !d.Allowed {
		return Grant{}, &RateLimitedError{RetryAfter: d.RetryAfter}
	}

	for _, field := range sortedKeys(req.Fields) {
		if err := g.limits.Check(field, req.Fields[field]); err != nil {
			return Grant{}, err
		}
	}

	grant := Grant{Owner: owner}
	if req.Filename != "" {
		path, err := safepath.Resolve(g.storageRoot, owner, req.Filename)
		if err != nil {
			return Grant{}, ErrPathRejected
		}
		grant.Path = path
	}
	return grant, nil
}

// AdmitRead admits a non-mutating request: the session check (and path
// resolution, when a file is named) still apply, but reads consume no
// rate-limit allowance and carry no fields to validate.
func (g *Governor) AdmitRead(req Request) (Grant, error) {
	owner, ok := g.sessions.Touch(req.SessionID)
	if !ok {
		return Grant{}, ErrSessionExpired
	}

	grant := Grant{Owner: owner}
	if req.Filename != "" {
		path, err := safepath.Resolve(g.storageRoot, owner, req.Filename)
		if err != nil {
			return Grant{}, ErrPathRejected
		}
		grant.Path = path
	}
	return grant, nil
}

// sortedKeys keeps validation order deterministic, so the same oversized
// request always reports the same field.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
