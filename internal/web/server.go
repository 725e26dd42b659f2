// Package web exposes the draft API over HTTP. Every mutating route runs
// through the request governor before touching the draft store.
package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nanotile/ai-document-writer/internal/draftstore"
	"github.com/nanotile/ai-document-writer/internal/governor"
	"github.com/nanotile/ai-document-writer/internal/session"
)

// sessionCookie is the cookie carrying the session identifier. The same
// value is also accepted via the X-Session-Token header for non-browser
// clients.
const sessionCookie = "writer_session"

// Server holds the wired request-handling dependencies.
type Server struct {
	gov      *governor.Governor
	drafts   *draftstore.Store
	sessions *session.Store

	// passwordHash is nil when no password is configured; the deployment
	// is then open, as in a single-user LAN setup.
	passwordHash []byte

	trustProxy bool
}

// New creates a Server. The plaintext password from configuration is
// hashed once here and discarded.
func New(gov *governor.Governor, drafts *draftstore.Store, sessions *session.Store, password string, trustProxy bool) (*Server, error) {
	s := &Server{
		gov:        gov,
		drafts:     drafts,
		sessions:   sessions,
		trustProxy: trustProxy,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		s.passwordHash = hash
	}
	return s, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Health is stateless and bypasses the governor entirely.
	r.Get("/healthz", s.handleHealth)

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/templates", s.handleTemplates)

	r.Route("/drafts", func(r chi.Router) {
		r.Get("/", s.handleListDrafts)
		r.Post("/", s.handleCreateDraft)
		r.Get("/{filename}", s.handleLoadDraft)
		r.Put("/{filename}", s.handleUpdateDraft)
		r.Delete("/{filename}", s.handleDeleteDraft)
	})

	return r
}

// sessionID extracts the session identifier from the cookie or header.
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get("X-Session-Token")
}
