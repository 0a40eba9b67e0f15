package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvise/agentfs/internal/config"
	"github.com/kvise/agentfs/internal/tool/hashutil"
	osfs "github.com/kvise/agentfs/internal/tool/service/fs"
	"github.com/kvise/agentfs/internal/tool/service/path"
)

func newEditTool(t *testing.T) (*EditFileTool, *hashutil.ChecksumManager, string) {
	t.Helper()
	root, err := path.CanonicaliseRoot(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	fsys := osfs.NewOSFileSystem()
	checksum := hashutil.NewChecksumManager()
	tool := NewEditFileTool(fsys, checksum, path.NewResolver(root, fsys), cfg)
	return tool, checksum, root
}

func TestEditFileTool(t *testing.T) {
	ctx := context.Background()

	t.Run("single replacement with diff", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		target := filepath.Join(root, "main.go")
		require.NoError(t, os.WriteFile(target, []byte("a\nold\nc\n"), 0o644))

		resp, err := tool.Run(ctx, &EditFileRequest{
			Path:       "main.go",
			Operations: []EditOperation{{Before: "old", After: "new"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.OperationsApplied)
		assert.Equal(t, "a\nnew\nc\n", readBack(t, target))
		assert.Contains(t, resp.Diff, "-old")
		assert.Contains(t, resp.Diff, "+new")
		assert.Equal(t, 1, resp.AddedLines)
		assert.Equal(t, 1, resp.RemovedLines)
	})

	t.Run("operations apply in order", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		target := filepath.Join(root, "f.txt")
		require.NoError(t, os.WriteFile(target, []byte("one two"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path: "f.txt",
			Operations: []EditOperation{
				{Before: "one", After: "1"},
				{Before: "1 two", After: "1 2"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "1 2", readBack(t, target))
	})

	t.Run("empty before appends", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		target := filepath.Join(root, "f.txt")
		require.NoError(t, os.WriteFile(target, []byte("body\n"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "", After: "tail\n"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "body\ntail\n", readBack(t, target))
	})

	t.Run("snippet not found", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("abc"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "zzz", After: "y"}},
		})
		assert.ErrorIs(t, err, ErrSnippetNotFound)
	})

	t.Run("ambiguous match without expected count", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x x"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "x", After: "y"}},
		})
		assert.ErrorIs(t, err, ErrReplacementCountMismatch)
	})

	t.Run("expected count replaces all occurrences", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		target := filepath.Join(root, "f.txt")
		require.NoError(t, os.WriteFile(target, []byte("x x x"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "x", After: "y", ExpectedReplacements: 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, "y y y", readBack(t, target))
	})

	t.Run("crlf file keeps crlf endings", func(t *testing.T) {
		tool, _, root := newEditTool(t)
		target := filepath.Join(root, "win.txt")
		require.NoError(t, os.WriteFile(target, []byte("a\r\nold\r\n"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "win.txt",
			Operations: []EditOperation{{Before: "old", After: "new"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "a\r\nnew\r\n", readBack(t, target))
	})

	t.Run("conflict when file changed since last read", func(t *testing.T) {
		tool, checksum, root := newEditTool(t)
		target := filepath.Join(root, "f.txt")
		require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

		// Simulate an earlier full read, then an external change.
		checksum.Update(target, checksum.Compute([]byte("original")))
		require.NoError(t, os.WriteFile(target, []byte("changed externally"), 0o644))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "changed", After: "edited"}},
		})
		assert.ErrorIs(t, err, ErrEditConflict)
	})

	t.Run("edit refreshes checksum for the next edit", func(t *testing.T) {
		tool, checksum, root := newEditTool(t)
		target := filepath.Join(root, "f.txt")
		require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))
		checksum.Update(target, checksum.Compute([]byte("v1")))

		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "v1", After: "v2"}},
		})
		require.NoError(t, err)

		// Second edit against the new state must not conflict.
		_, err = tool.Run(ctx, &EditFileRequest{
			Path:       "f.txt",
			Operations: []EditOperation{{Before: "v2", After: "v3"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "v3", readBack(t, target))
	})

	t.Run("missing file", func(t *testing.T) {
		tool, _, _ := newEditTool(t)
		_, err := tool.Run(ctx, &EditFileRequest{
			Path:       "nope.txt",
			Operations: []EditOperation{{Before: "a", After: "b"}},
		})
		assert.ErrorIs(t, err, ErrFileMissing)
	})

	t.Run("no operations rejected", func(t *testing.T) {
		tool, _, _ := newEditTool(t)
		_, err := tool.Run(ctx, &EditFileRequest{Path: "f.txt"})
		assert.ErrorIs(t, err, ErrOperationsRequired)
	})
}
