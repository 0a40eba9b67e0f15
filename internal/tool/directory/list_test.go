package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvise/agentfs/internal/config"
	osfs "github.com/kvise/agentfs/internal/tool/service/fs"
	"github.com/kvise/agentfs/internal/tool/service/git"
	"github.com/kvise/agentfs/internal/tool/service/path"
)

// fixture lays out:
//
//	root/
//	  .gitignore        (ignores *.log and build/)
//	  a.txt
//	  app.log
//	  build/out.bin
//	  src/main.go
//	  src/deep/util.go
func newListFixture(t *testing.T) (*ListDirectoryTool, string) {
	t.Helper()
	root, err := path.CanonicaliseRoot(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.log"), []byte("log"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "out.bin"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "deep", "util.go"), []byte("package deep"), 0o644))

	cfg := config.DefaultConfig()
	fsys := osfs.NewOSFileSystem()
	ignore, err := git.NewIgnoreMatcher(root, fsys)
	require.NoError(t, err)

	tool := NewListDirectoryTool(fsys, ignore, path.NewResolver(root, fsys), cfg, root)
	return tool, root
}

func relPaths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RelativePath
	}
	return out
}

func TestListDirectoryTool(t *testing.T) {
	ctx := context.Background()

	t.Run("non-recursive lists immediate children", func(t *testing.T) {
		tool, _ := newListFixture(t)

		resp, err := tool.Run(ctx, &ListDirectoryRequest{})
		require.NoError(t, err)

		// Ignored entries (app.log, build/) are filtered; directories sort first.
		assert.Equal(t, []string{"src", ".gitignore", "a.txt"}, relPaths(resp.Entries))
	})

	t.Run("recursive listing", func(t *testing.T) {
		tool, _ := newListFixture(t)

		resp, err := tool.Run(ctx, &ListDirectoryRequest{MaxDepth: -1})
		require.NoError(t, err)

		assert.Contains(t, relPaths(resp.Entries), "src/deep/util.go")
		assert.NotContains(t, relPaths(resp.Entries), "build/out.bin")
	})

	t.Run("depth one stops above deep entries", func(t *testing.T) {
		tool, _ := newListFixture(t)

		resp, err := tool.Run(ctx, &ListDirectoryRequest{MaxDepth: 1})
		require.NoError(t, err)

		got := relPaths(resp.Entries)
		assert.Contains(t, got, "src/main.go")
		assert.Contains(t, got, "src/deep")
		assert.NotContains(t, got, "src/deep/util.go")
	})

	t.Run("include ignored", func(t *testing.T) {
		tool, _ := newListFixture(t)

		resp, err := tool.Run(ctx, &ListDirectoryRequest{IncludeIgnored: true})
		require.NoError(t, err)

		got := relPaths(resp.Entries)
		assert.Contains(t, got, "app.log")
		assert.Contains(t, got, "build")
	})

	t.Run("pagination", func(t *testing.T) {
		tool, _ := newListFixture(t)

		resp, err := tool.Run(ctx, &ListDirectoryRequest{Limit: 2})
		require.NoError(t, err)

		assert.Len(t, resp.Entries, 2)
		assert.Equal(t, 3, resp.TotalCount)
		assert.True(t, resp.Truncated)
		assert.Contains(t, resp.TruncationReason, "offset 2")

		next, err := tool.Run(ctx, &ListDirectoryRequest{Offset: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, next.Entries, 1)
		assert.False(t, next.Truncated)
	})

	t.Run("file sizes reported", func(t *testing.T) {
		tool, _ := newListFixture(t)

		resp, err := tool.Run(ctx, &ListDirectoryRequest{})
		require.NoError(t, err)

		for _, e := range resp.Entries {
			if e.RelativePath == "a.txt" {
				assert.Equal(t, int64(1), e.Size)
			}
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		tool, _ := newListFixture(t)
		_, err := tool.Run(ctx, &ListDirectoryRequest{Path: "nope"})
		assert.ErrorIs(t, err, ErrDirectoryMissing)
	})

	t.Run("file path rejected", func(t *testing.T) {
		tool, _ := newListFixture(t)
		_, err := tool.Run(ctx, &ListDirectoryRequest{Path: "a.txt"})
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("limit above maximum rejected", func(t *testing.T) {
		tool, _ := newListFixture(t)
		_, err := tool.Run(ctx, &ListDirectoryRequest{Limit: 1_000_000})
		assert.ErrorIs(t, err, ErrLimitTooLarge)
	})

	t.Run("escape rejected", func(t *testing.T) {
		tool, _ := newListFixture(t)
		_, err := tool.Run(ctx, &ListDirectoryRequest{Path: ".."})
		assert.ErrorIs(t, err, path.ErrOutsideWorkspace)
	})

	t.Run("symlink loop does not hang", func(t *testing.T) {
		tool, root := newListFixture(t)
		require.NoError(t, os.Symlink(filepath.Join(root, "src"), filepath.Join(root, "src", "loop")))

		_, err := tool.Run(ctx, &ListDirectoryRequest{MaxDepth: -1})
		require.NoError(t, err)
	})
}
