package safepath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	t.Run("plain filename", func(t *testing.T) {
		assert.True(t, ValidName("draft_20260131.json"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.False(t, ValidName(""))
	})

	t.Run("dot", func(t *testing.T) {
		assert.False(t, ValidName("."))
	})

	t.Run("dot dot", func(t *testing.T) {
		assert.False(t, ValidName(".."))
	})

	t.Run("it flags ../", func(t *testing.T) {
		assert.False(t, ValidName("../secret"))
	})

	t.Run("it flags ..\\", func(t *testing.T) {
		assert.False(t, ValidName("..\\secret"))
	})

	t.Run("it flags ../../", func(t *testing.T) {
		assert.False(t, ValidName("../../etc/passwd"))
	})

	t.Run("forward slash", func(t *testing.T) {
		assert.False(t, ValidName("a/b"))
	})

	t.Run("backslash", func(t *testing.T) {
		assert.False(t, ValidName("a\\b"))
	})

	t.Run("absolute path", func(t *testing.T) {
		assert.False(t, ValidName("/etc/passwd"))
	})

	t.Run("null byte", func(t *testing.T) {
		assert.False(t, ValidName("draft\x00.json"))
	})

	t.Run("leading dots without separator are allowed", func(t *testing.T) {
		assert.True(t, ValidName("..hidden"))
	})
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	canonRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kent"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "kent", "draft.json"), []byte("{}"), 0o644))

	t.Run("existing file inside owner dir", func(t *testing.T) {
		p, err := Resolve(root, "kent", "draft.json")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, canonRoot+string(filepath.Separator)))
		assert.Equal(t, "draft.json", filepath.Base(p))
	})

	t.Run("missing file still resolves inside owner dir", func(t *testing.T) {
		p, err := Resolve(root, "kent", "new_draft.json")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, canonRoot+string(filepath.Separator)))
	})

	t.Run("missing owner dir still resolves inside root", func(t *testing.T) {
		p, err := Resolve(root, "sarah", "draft.json")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, canonRoot+string(filepath.Separator)))
	})

	t.Run("traversal filename", func(t *testing.T) {
		_, err := Resolve(root, "kent", "../../etc/passwd")
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("absolute filename", func(t *testing.T) {
		_, err := Resolve(root, "kent", "/etc/passwd")
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("traversal owner", func(t *testing.T) {
		_, err := Resolve(root, "..", "draft.json")
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("null byte filename", func(t *testing.T) {
		_, err := Resolve(root, "kent", "draft\x00.json")
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Resolve(filepath.Join(root, "does-not-exist"), "kent", "draft.json")
		assert.ErrorIs(t, err, ErrRejected)
	})
}

func TestResolve_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "target.json"), []byte("{}"), 0o644))

	t.Run("symlinked file pointing outside", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "kent"), 0o755))
		require.NoError(t, os.Symlink(
			filepath.Join(outside, "target.json"),
			filepath.Join(root, "kent", "escape.json"),
		))

		_, err := Resolve(root, "kent", "escape.json")
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("symlinked owner dir pointing outside", func(t *testing.T) {
		require.NoError(t, os.Symlink(outside, filepath.Join(root, "mallory")))

		_, err := Resolve(root, "mallory", "target.json")
		assert.ErrorIs(t, err, ErrRejected)

		// Even for a file that does not exist in the link target
		_, err = Resolve(root, "mallory", "missing.json")
		assert.ErrorIs(t, err, ErrRejected)
	})
}
