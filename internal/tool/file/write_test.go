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
	"github.com/kvise/agentfs/internal/tool/helper/content"
	osfs "github.com/kvise/agentfs/internal/tool/service/fs"
	"github.com/kvise/agentfs/internal/tool/service/path"
)

func newWriteTool(t *testing.T) (*WriteFileTool, string) {
	t.Helper()
	root, err := path.CanonicaliseRoot(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	fsys := osfs.NewOSFileSystem()
	tool := NewWriteFileTool(
		fsys,
		content.NewDetector(cfg.Tools.BinaryExtensions),
		hashutil.NewChecksumManager(),
		path.NewResolver(root, fsys),
		cfg,
	)
	return tool, root
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteFileTool(t *testing.T) {
	ctx := context.Background()

	t.Run("new file without marker is created via merge", func(t *testing.T) {
		tool, root := newWriteTool(t)

		resp, err := tool.Run(ctx, &WriteFileRequest{Path: "hello.txt", Content: "Hello"})
		require.NoError(t, err)

		assert.Equal(t, StrategyIncrementalMerge, resp.UsedStrategy)
		assert.True(t, resp.Created)
		assert.True(t, resp.ContentIncomplete)
		assert.Equal(t, 5, resp.BytesAppended)
		assert.Equal(t, "Hello", readBack(t, filepath.Join(root, "hello.txt")))
	})

	t.Run("merge appends only the new suffix", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "doc.txt")
		require.NoError(t, os.WriteFile(target, []byte("hello world"), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{Path: "doc.txt", Content: "world peace"})
		require.NoError(t, err)

		assert.Equal(t, StrategyIncrementalMerge, resp.UsedStrategy)
		assert.Equal(t, 5, resp.OverlapBytes)
		assert.Equal(t, 6, resp.BytesAppended)
		assert.Equal(t, "hello world peace", readBack(t, target))
	})

	t.Run("duplicate submission is a no-op", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "dup.txt")
		require.NoError(t, os.WriteFile(target, []byte("abc"), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{Path: "dup.txt", Content: "abc"})
		require.NoError(t, err)

		assert.Equal(t, 3, resp.OverlapBytes)
		assert.Zero(t, resp.BytesAppended)
		assert.Equal(t, "abc", readBack(t, target))
	})

	t.Run("existing file without marker always merges", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "draft.txt")
		require.NoError(t, os.WriteFile(target, []byte("prologue "), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{Path: "draft.txt", Content: "draft text"})
		require.NoError(t, err)

		assert.Equal(t, StrategyIncrementalMerge, resp.UsedStrategy)
		assert.True(t, resp.ContentIncomplete)
	})

	t.Run("marker is stripped and allows overwrite of new file", func(t *testing.T) {
		tool, root := newWriteTool(t)

		resp, err := tool.Run(ctx, &WriteFileRequest{
			Path:    "final.txt",
			Content: "final text\n// END_OF_CONTENT",
		})
		require.NoError(t, err)

		assert.Equal(t, StrategyOverwrite, resp.UsedStrategy)
		assert.False(t, resp.ContentIncomplete)
		assert.Equal(t, "final text", readBack(t, filepath.Join(root, "final.txt")))
	})

	t.Run("marker with full rewrite replaces existing file", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "replace.txt")
		require.NoError(t, os.WriteFile(target, []byte("old old old"), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{
			Path:        "replace.txt",
			Content:     "new\n// END_OF_CONTENT",
			FullRewrite: true,
		})
		require.NoError(t, err)

		assert.Equal(t, StrategyOverwrite, resp.UsedStrategy)
		assert.False(t, resp.StrategyOverridden)
		assert.Equal(t, "new", readBack(t, target))
	})

	t.Run("full rewrite without marker is overridden to merge", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "partial.txt")
		require.NoError(t, os.WriteFile(target, []byte("keep "), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{
			Path:        "partial.txt",
			Content:     "possibly truncated",
			FullRewrite: true,
		})
		require.NoError(t, err)

		assert.Equal(t, StrategyIncrementalMerge, resp.UsedStrategy)
		assert.True(t, resp.StrategyOverridden)
		assert.Contains(t, resp.Message, "overridden")
		assert.Equal(t, "keep possibly truncated", readBack(t, target))
	})

	t.Run("binary extension forces overwrite of existing file", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "doc.pdf")
		require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4 old"), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{Path: "doc.pdf", Content: "%PDF-1.4 new"})
		require.NoError(t, err)

		assert.Equal(t, StrategyOverwrite, resp.UsedStrategy)
		assert.False(t, resp.ContentIncomplete)
		assert.Equal(t, "%PDF-1.4 new", readBack(t, target))
	})

	t.Run("explicit strategy wins", func(t *testing.T) {
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "forced.txt")
		require.NoError(t, os.WriteFile(target, []byte("line1\n"), 0o644))

		resp, err := tool.Run(ctx, &WriteFileRequest{
			Path:     "forced.txt",
			Content:  "line1\n", // duplicate; merge would skip it
			Strategy: StrategyAppend,
		})
		require.NoError(t, err)

		assert.Equal(t, StrategyAppend, resp.UsedStrategy)
		assert.False(t, resp.StrategyOverridden)
		assert.Equal(t, "line1\nline1\n", readBack(t, target))
	})

	t.Run("parent directories are created", func(t *testing.T) {
		tool, root := newWriteTool(t)

		_, err := tool.Run(ctx, &WriteFileRequest{
			Path:    "deep/nested/file.txt",
			Content: "x\n// END_OF_CONTENT",
		})
		require.NoError(t, err)
		assert.Equal(t, "x", readBack(t, filepath.Join(root, "deep", "nested", "file.txt")))
	})

	t.Run("sandbox escape rejected before any write", func(t *testing.T) {
		tool, _ := newWriteTool(t)

		_, err := tool.Run(ctx, &WriteFileRequest{Path: "../escape.txt", Content: "x"})
		assert.ErrorIs(t, err, path.ErrOutsideWorkspace)
	})

	t.Run("invalid chunk size rejected before I/O", func(t *testing.T) {
		tool, _ := newWriteTool(t)

		bad := int64(-1)
		_, err := tool.Run(ctx, &WriteFileRequest{Path: "a.txt", Content: "x", ChunkSize: &bad})
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		tool, _ := newWriteTool(t)

		_, err := tool.Run(ctx, &WriteFileRequest{Content: "x"})
		assert.ErrorIs(t, err, ErrPathRequired)
	})

	t.Run("directory target rejected", func(t *testing.T) {
		tool, root := newWriteTool(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

		_, err := tool.Run(ctx, &WriteFileRequest{Path: "sub", Content: "x"})
		assert.ErrorIs(t, err, ErrIsDirectory)
	})

	t.Run("oversized content rejected", func(t *testing.T) {
		tool, _ := newWriteTool(t)
		cfg := config.DefaultConfig()
		huge := make([]byte, cfg.Tools.MaxFileSize.Int64()+1)

		_, err := tool.Run(ctx, &WriteFileRequest{Path: "big.txt", Content: string(huge)})
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("interrupted then resumed generation converges", func(t *testing.T) {
		// First call delivers a truncated chunk, second call re-sends the
		// full content with the completion marker.
		tool, root := newWriteTool(t)
		target := filepath.Join(root, "resume.txt")

		_, err := tool.Run(ctx, &WriteFileRequest{
			Path:    "resume.txt",
			Content: "func main() {\n\tfmt.Println(",
		})
		require.NoError(t, err)

		full := "func main() {\n\tfmt.Println(\"done\")\n}\n"
		resp, err := tool.Run(ctx, &WriteFileRequest{
			Path:    "resume.txt",
			Content: full + "// END_OF_CONTENT",
		})
		require.NoError(t, err)

		assert.Equal(t, StrategyIncrementalMerge, resp.UsedStrategy)
		assert.Equal(t, len("func main() {\n\tfmt.Println("), resp.OverlapBytes)
		assert.Equal(t, full, readBack(t, target))
	})
}
