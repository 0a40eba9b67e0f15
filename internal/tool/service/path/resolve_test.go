package path

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kvise/agentfs/internal/tool/service/fs"
)

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	root, err := CanonicaliseRoot(t.TempDir())
	if err != nil {
		t.Fatalf("canonicalise root: %v", err)
	}
	return NewResolver(root, fs.NewOSFileSystem()), root
}

func TestResolverAbs(t *testing.T) {
	t.Run("relative path joins root", func(t *testing.T) {
		r, root := newTestResolver(t)
		abs, err := r.Abs("sub/file.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if abs != filepath.Join(root, "sub", "file.txt") {
			t.Errorf("got %q", abs)
		}
	})

	t.Run("absolute path inside root accepted", func(t *testing.T) {
		r, root := newTestResolver(t)
		abs, err := r.Abs(filepath.Join(root, "a.txt"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if abs != filepath.Join(root, "a.txt") {
			t.Errorf("got %q", abs)
		}
	})

	t.Run("traversal escape rejected", func(t *testing.T) {
		r, _ := newTestResolver(t)
		if _, err := r.Abs("../outside.txt"); !errors.Is(err, ErrOutsideWorkspace) {
			t.Errorf("expected ErrOutsideWorkspace, got %v", err)
		}
	})

	t.Run("absolute path outside root rejected", func(t *testing.T) {
		r, _ := newTestResolver(t)
		if _, err := r.Abs("/etc/passwd"); !errors.Is(err, ErrOutsideWorkspace) {
			t.Errorf("expected ErrOutsideWorkspace, got %v", err)
		}
	})

	t.Run("dot-dot inside root is normalised", func(t *testing.T) {
		r, root := newTestResolver(t)
		abs, err := r.Abs("sub/../file.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if abs != filepath.Join(root, "file.txt") {
			t.Errorf("got %q", abs)
		}
	})

	t.Run("symlink escape rejected", func(t *testing.T) {
		r, root := newTestResolver(t)
		outside := t.TempDir()
		target := filepath.Join(outside, "target.txt")
		if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Symlink(target, filepath.Join(root, "escape")); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		if _, err := r.Abs("escape"); !errors.Is(err, ErrOutsideWorkspace) {
			t.Errorf("expected ErrOutsideWorkspace, got %v", err)
		}
	})

	t.Run("symlink within root is followed", func(t *testing.T) {
		r, root := newTestResolver(t)
		target := filepath.Join(root, "real.txt")
		if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Symlink(target, filepath.Join(root, "alias")); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		abs, err := r.Abs("alias")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if abs != target {
			t.Errorf("got %q, want %q", abs, target)
		}
	})

	t.Run("symlink loop detected", func(t *testing.T) {
		r, root := newTestResolver(t)
		a := filepath.Join(root, "a")
		b := filepath.Join(root, "b")
		if err := os.Symlink(a, b); err != nil {
			t.Fatalf("symlink: %v", err)
		}
		if err := os.Symlink(b, a); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		_, err := r.Abs("a")
		var loopErr *SymlinkLoopError
		if !errors.As(err, &loopErr) {
			t.Errorf("expected SymlinkLoopError, got %v", err)
		}
	})

	t.Run("missing file passes through", func(t *testing.T) {
		r, root := newTestResolver(t)
		abs, err := r.Abs("not/yet/created.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if abs != filepath.Join(root, "not", "yet", "created.txt") {
			t.Errorf("got %q", abs)
		}
	})
}

func TestResolverRel(t *testing.T) {
	r, _ := newTestResolver(t)

	t.Run("root maps to empty string", func(t *testing.T) {
		rel, err := r.Rel(".")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rel != "" {
			t.Errorf("got %q, want empty", rel)
		}
	})

	t.Run("nested path uses forward slashes", func(t *testing.T) {
		rel, err := r.Rel("a/b/c.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rel != "a/b/c.txt" {
			t.Errorf("got %q", rel)
		}
	})
}

func TestCanonicaliseRoot(t *testing.T) {
	t.Run("missing root rejected", func(t *testing.T) {
		_, err := CanonicaliseRoot(filepath.Join(t.TempDir(), "nope"))
		var rootErr *WorkspaceRootError
		if !errors.As(err, &rootErr) {
			t.Errorf("expected WorkspaceRootError, got %v", err)
		}
	})

	t.Run("file root rejected", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "f.txt")
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, err := CanonicaliseRoot(f)
		if err == nil {
			t.Fatal("expected error for file root")
		}
	})
}
