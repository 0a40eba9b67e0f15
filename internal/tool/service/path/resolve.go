// Package path confines every tool operation to a canonicalised workspace
// root. Resolution walks the path component by component, following symlink
// chains as it goes, so a link pointing outside the sandbox is rejected even
// when the final file does not exist yet.
package path

import (
	"os"
	"path/filepath"
	"strings"
)

// maxSymlinkHops bounds symlink chain traversal.
const maxSymlinkHops = 64

// linkReader provides the lstat/readlink pair the resolver needs.
// *fs.OSFileSystem satisfies this.
type linkReader interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
}

// Resolver provides path resolution within a workspace boundary.
type Resolver struct {
	workspaceRoot string
	fs            linkReader
}

// NewResolver creates a new path resolver for the given canonicalised workspace root.
func NewResolver(workspaceRoot string, fs linkReader) *Resolver {
	if fs == nil {
		panic("fs is required")
	}
	return &Resolver{
		workspaceRoot: workspaceRoot,
		fs:            fs,
	}
}

// Root returns the canonical workspace root.
func (r *Resolver) Root() string {
	return r.workspaceRoot
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: ErrNotADirectory}
	}
	return resolved, nil
}

// Abs resolves any path to absolute, follows symlinks component by component,
// and validates that every hop stays within the workspace boundary.
func (r *Resolver) Abs(path string) (string, error) {
	if r.workspaceRoot == "" {
		return "", ErrWorkspaceRootNotSet
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(r.workspaceRoot, path))
	}

	resolved, err := r.resolveSymlinks(abs)
	if err != nil {
		return "", err
	}

	if !r.within(resolved) {
		return "", ErrOutsideWorkspace
	}

	return resolved, nil
}

// Rel resolves any path to relative to the workspace root and validates it is within the boundary.
// The workspace root itself resolves to the empty string.
func (r *Resolver) Rel(path string) (string, error) {
	abs, err := r.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(r.workspaceRoot, abs)
	if err != nil {
		return "", ErrOutsideWorkspace
	}

	if rel == "." {
		return "", nil
	}

	return filepath.ToSlash(rel), nil
}

// resolveSymlinks walks the portion of abs below the workspace root
// component by component, expanding symlink chains. Components that do not
// exist yet are appended verbatim; this lets writes target not-yet-created
// files while still catching link escapes on the existing part of the path.
// Ancestors of the root are never traversed, so the root may live anywhere.
func (r *Resolver) resolveSymlinks(abs string) (string, error) {
	if !r.within(abs) {
		return "", ErrOutsideWorkspace
	}

	// abs is Clean, so the remainder contains no "." or ".." components.
	remainder := strings.TrimPrefix(abs, r.workspaceRoot)
	parts := strings.Split(filepath.ToSlash(remainder), "/")

	current := r.workspaceRoot
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}

		next := filepath.Join(current, part)

		resolved, exists, err := r.followChain(next)
		if err != nil {
			return "", err
		}
		current = resolved

		if exists && !r.within(current) {
			return "", ErrOutsideWorkspace
		}
	}

	return current, nil
}

// followChain follows a symlink chain until it reaches a non-symlink or a
// missing path. Every intermediate target is checked against the boundary.
func (r *Resolver) followChain(path string) (resolved string, exists bool, err error) {
	visited := make(map[string]struct{})
	current := path

	for hop := 0; hop <= maxSymlinkHops; hop++ {
		if _, seen := visited[current]; seen {
			return "", false, &SymlinkLoopError{Path: current}
		}
		visited[current] = struct{}{}

		info, err := r.fs.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return current, false, nil
			}
			return "", false, err
		}

		if info.Mode()&os.ModeSymlink == 0 {
			return current, true, nil
		}

		target, err := r.fs.Readlink(current)
		if err != nil {
			return "", false, err
		}

		if filepath.IsAbs(target) {
			current = filepath.Clean(target)
		} else {
			current = filepath.Clean(filepath.Join(filepath.Dir(current), target))
		}

		if !r.within(current) {
			return "", false, ErrOutsideWorkspace
		}
	}

	return "", false, &SymlinkLoopError{Path: path}
}

// within reports whether path is the workspace root or inside it.
func (r *Resolver) within(path string) bool {
	if path == r.workspaceRoot {
		return true
	}
	return strings.HasPrefix(path, r.workspaceRoot+string(filepath.Separator))
}
