package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nanotile/ai-document-writer/internal/clientid"
	"github.com/nanotile/ai-document-writer/internal/draftstore"
	"github.com/nanotile/ai-document-writer/internal/governor"
	"github.com/nanotile/ai-document-writer/internal/log"
	"github.com/nanotile/ai-document-writer/internal/safepath"
	"github.com/nanotile/ai-document-writer/internal/templates"
)

// maxBodyBytes caps request bodies well above the largest field limit, so
// the length validation sees the full value but a flood of data cannot.
const maxBodyBytes = 1 << 20

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type draftRequest struct {
	Title        string `json:"title"`
	TemplateName string `json:"template_name"`
	Tone         string `json:"tone"`
	Notes        string `json:"notes"`
	DocumentText string `json:"document_text"`
}

func (d draftRequest) fields() map[string]string {
	return map[string]string{
		"title":         d.Title,
		"template_name": d.TemplateName,
		"tone":          d.Tone,
		"notes":         d.Notes,
		"document_text": d.DocumentText,
	}
}

// draft builds the stored draft. Unknown template names collapse to the
// general template.
func (d draftRequest) draft() draftstore.Draft {
	return draftstore.Draft{
		Title:        d.Title,
		TemplateName: templates.ByName(d.TemplateName).Name,
		Tone:         d.Tone,
		Notes:        d.Notes,
		DocumentText: d.DocumentText,
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// govern builds the governed request for the caller.
func (s *Server) govern(r *http.Request, fields map[string]string, filename string) governor.Request {
	return governor.Request{
		SessionID: sessionID(r),
		ClientID:  clientid.FromRequest(r, s.trustProxy),
		Fields:    fields,
		Filename:  filename,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	if !safepath.ValidName(req.User) {
		writeMessage(w, http.StatusBadRequest, "invalid user name")
		return
	}

	// No configured password means an open deployment; any login succeeds.
	if s.passwordHash != nil {
		if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
			writeMessage(w, http.StatusUnauthorized, "incorrect password")
			return
		}
	}

	id, err := s.sessions.Mint(req.User)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info("session established", slog.String("user", req.User))
	writeJSON(w, http.StatusOK, map[string]string{"session": id})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := sessionID(r); id != "" {
		s.sessions.Revoke(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gov.AdmitRead(s.govern(r, nil, "")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": templates.Catalog,
		"tones":     templates.Tones,
	})
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	grant, err := s.gov.AdmitRead(s.govern(r, nil, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.drafts.List(grant.Owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": entries})
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}

	grant, err := s.gov.Admit(s.govern(r, req.fields(), ""))
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename, err := s.drafts.Save(grant.Owner, req.draft())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"filename": filename})
}

func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	grant, err := s.gov.AdmitRead(s.govern(r, nil, filename))
	if err != nil {
		writeError(w, r, err)
		return
	}

	draft, err := s.drafts.Load(grant.Owner, filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	var req draftRequest
	if !decode(w, r, &req) {
		return
	}

	grant, err := s.gov.Admit(s.govern(r, req.fields(), filename))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.drafts.Update(grant.Owner, filename, req.draft()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": filename})
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	grant, err := s.gov.Admit(s.govern(r, nil, filename))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.drafts.Delete(grant.Owner, filename); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
