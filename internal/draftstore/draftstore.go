// Package draftstore persists document drafts as one JSON file per draft
// under a per-owner subdirectory of the storage root.
package draftstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nanotile/ai-document-writer/internal/clock"
	"github.com/nanotile/ai-document-writer/internal/log"
	"github.com/nanotile/ai-document-writer/internal/safepath"
)

// ErrNotFound is returned when the named draft does not exist for the
// owner. Invalid names map here too, so callers cannot distinguish a
// rejected name from a missing file.
var ErrNotFound = errors.New("draft not found")

// Draft is a saved document draft.
type Draft struct {
	Title        string `json:"title"`
	TemplateName string `json:"template_name"`
	Tone         string `json:"tone"`
	Notes        string `json:"notes"`
	DocumentText string `json:"document_text"`
	SavedAt      string `json:"saved_at"`
	Filename     string `json:"filename"`
}

// Entry is one row of a draft listing.
type Entry struct {
	Title        string `json:"title"`
	TemplateName string `json:"template_name"`
	SavedAt      string `json:"saved_at"`
	Filename     string `json:"filename"`
}

// Store reads and writes drafts under a fixed root directory.
type Store struct {
	root string
	clk  clock.Clock
}

// New creates a Store rooted at root.
func New(root string, clk clock.Clock) *Store {
	return &Store{root: root, clk: clk}
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes a new draft for the owner and returns the generated filename.
// The filename is derived from the title plus a timestamp, with anything
// outside letters, digits, space, dash and underscore stripped.
func (s *Store) Save(owner string, d Draft) (string, error) {
	if !safepath.ValidName(owner) {
		return "", fmt.Errorf("invalid owner %q", owner)
	}

	now := s.clk.Now()
	filename := fmt.Sprintf("%s_%s.json", cleanTitle(d.Title), now.Format("20060102_150405"))
	d.SavedAt = now.Format("2006-01-02T15:04:05")
	d.Filename = filename

	dir := filepath.Join(s.root, owner)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating owner directory: %w", err)
	}
	if err := s.write(filepath.Join(dir, filename), d); err != nil {
		return "", err
	}
	log.Info("draft saved", slog.String("owner", owner), slog.String("filename", filename))
	return filename, nil
}

// Update overwrites an existing draft in place, keeping its filename.
func (s *Store) Update(owner, filename string, d Draft) error {
	path, err := s.pathOf(owner, filename)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("stat draft: %w", err)
	}

	d.SavedAt = s.clk.Now().Format("2006-01-02T15:04:05")
	d.Filename = filename
	return s.write(path, d)
}

// Load reads one draft.
func (s *Store) Load(owner, filename string) (Draft, error) {
	path, err := s.pathOf(owner, filename)
	if err != nil {
		return Draft{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("reading draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("decoding draft: %w", err)
	}
	return d, nil
}

// List returns the owner's drafts, newest first. Files that fail to decode
// are skipped rather than failing the listing.
func (s *Store) List(owner string) ([]Entry, error) {
	if !safepath.ValidName(owner) {
		return nil, nil
	}

	names, err := filepath.Glob(filepath.Join(s.root, owner, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		var d Draft
		if err := json.Unmarshal(data, &d); err != nil {
			log.Warn("skipping unreadable draft", slog.String("file", filepath.Base(name)))
			continue
		}
		title := d.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		entries = append(entries, Entry{
			Title:        title,
			TemplateName: d.TemplateName,
			SavedAt:      d.SavedAt,
			Filename:     filepath.Base(name),
		})
	}

	// Newest first; saved_at sorts lexicographically, filename breaks ties.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SavedAt != entries[j].SavedAt {
			return entries[i].SavedAt > entries[j].SavedAt
		}
		return entries[i].Filename > entries[j].Filename
	})
	return entries, nil
}

// Delete removes one draft. Missing files report ErrNotFound.
func (s *Store) Delete(owner, filename string) error {
	path, err := s.pathOf(owner, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting draft: %w", err)
	}
	log.Info("draft deleted", slog.String("owner", owner), slog.String("filename", filename))
	return nil
}

func (s *Store) pathOf(owner, filename string) (string, error) {
	if !safepath.ValidName(owner) || !safepath.ValidName(filename) {
		return "", ErrNotFound
	}
	return filepath.Join(s.root, owner, filename), nil
}

func (s *Store) write(path string, d Draft) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// cleanTitle reduces a draft title to a filename stem: only letters,
// digits, spaces, dashes and underscores survive, capped at 40 characters,
// spaces replaced by underscores, empty results fall back to "untitled".
func cleanTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) > 40 {
		clean = clean[:40]
	}
	clean = strings.ReplaceAll(strings.TrimSpace(clean), " ", "_")
	if clean == "" {
		return "untitled"
	}
	return clean
}
