// Package safepath resolves user-supplied draft filenames against the
// storage root, rejecting anything that could escape it.
//
// The defense is layered: separator and dot-dot names are rejected before
// any path is built, and the joined path is canonicalized and re-checked
// for containment afterwards, so normalization or symlink surprises inside
// an owner directory still cannot reach outside the root.
package safepath

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrRejected is returned for any name or resolution that is not a plain
// file strictly inside the storage root. Callers surface it as not-found,
// never as a distinct rejection.
var ErrRejected = errors.New("unsafe path rejected")

// ValidName reports whether s is acceptable as a single path segment:
// non-empty, no separators, no NUL, not a dot or dot-dot segment.
func ValidName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, "/\\\x00") {
		return false
	}
	// After normalization it must still be the same single segment.
	return filepath.Clean(s) == s
}

// Resolve joins rawFilename onto root scoped by owner and returns the
// canonical absolute path, or ErrRejected.
func Resolve(root, owner, rawFilename string) (string, error) {
	if !ValidName(owner) || !ValidName(rawFilename) {
		return "", ErrRejected
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", ErrRejected
	}
	canonRoot, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", ErrRejected
	}

	candidate := filepath.Join(canonRoot, owner, rawFilename)

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", ErrRejected
		}
		// The file itself may not exist yet. Resolve the owner directory
		// instead, so a symlinked directory still gets the containment check.
		ownerDir, dirErr := filepath.EvalSymlinks(filepath.Dir(candidate))
		switch {
		case dirErr == nil:
			resolved = filepath.Join(ownerDir, rawFilename)
		case errors.Is(dirErr, fs.ErrNotExist):
			resolved = candidate
		default:
			return "", ErrRejected
		}
	}

	if !contains(canonRoot, resolved) {
		return "", ErrRejected
	}
	return resolved, nil
}

// contains reports whether path is a strict descendant of root.
func contains(root, path string) bool {
	if path == root {
		return false
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
