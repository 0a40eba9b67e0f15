// Package directory implements the workspace listing tools: a paginated
// recursive listing and a depth-bounded tree renderer. Both respect
// .gitignore unless asked otherwise.
package directory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kvise/agentfs/internal/config"
	"github.com/kvise/agentfs/internal/tool/paginationutil"
)

// listFS is the filesystem surface the listing tools need.
type listFS interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
}

// ignoreMatcher filters workspace-relative paths by gitignore rules.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// pathResolver resolves and sandbox-checks request paths.
type pathResolver interface {
	Abs(path string) (string, error)
	Rel(path string) (string, error)
}

// ListDirectoryTool lists workspace directories with optional recursion
// and pagination.
type ListDirectoryTool struct {
	fileOps  listFS
	ignore   ignoreMatcher
	resolver pathResolver
	config   *config.Config
	root     string
}

// NewListDirectoryTool creates a ListDirectoryTool with injected dependencies.
func NewListDirectoryTool(
	fileOps listFS,
	ignore ignoreMatcher,
	resolver pathResolver,
	cfg *config.Config,
	workspaceRoot string,
) *ListDirectoryTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if ignore == nil {
		panic("ignore is required")
	}
	if resolver == nil {
		panic("resolver is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	if workspaceRoot == "" {
		panic("workspaceRoot is required")
	}
	return &ListDirectoryTool{
		fileOps:  fileOps,
		ignore:   ignore,
		resolver: resolver,
		config:   cfg,
		root:     workspaceRoot,
	}
}

// Run lists a directory. Entries are sorted directories first, then
// files, both alphabetically by relative path.
func (t *ListDirectoryTool) Run(ctx context.Context, req *ListDirectoryRequest) (*ListDirectoryResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	limit := t.config.Tools.DefaultListDirectoryLimit
	if req.Limit != 0 {
		limit = req.Limit
	}

	reqPath := req.Path
	if reqPath == "" {
		reqPath = "."
	}

	abs, err := t.resolver.Abs(reqPath)
	if err != nil {
		return nil, err
	}
	rel, err := t.resolver.Rel(abs)
	if err != nil {
		return nil, err
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryMissing, abs)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	walk := &listWalk{
		tool:           t,
		maxDepth:       req.MaxDepth,
		includeIgnored: req.IncludeIgnored,
		maxResults:     t.config.Tools.MaxListDirectoryResults,
		visited:        make(map[string]bool),
	}
	entries, err := walk.collect(ctx, abs, 0)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].RelativePath < entries[j].RelativePath
	})

	page, pagination := paginationutil.Window(entries, req.Offset, limit)

	var reason string
	if walk.capHit {
		pagination.Truncated = true
		reason = fmt.Sprintf("Results capped at %d entries.", walk.maxResults)
	} else if pagination.Truncated {
		reason = fmt.Sprintf("Page limit reached. More results at offset %d.", req.Offset+limit)
	}

	return &ListDirectoryResponse{
		DirectoryPath:    rel,
		Entries:          page,
		Offset:           req.Offset,
		Limit:            limit,
		TotalCount:       pagination.TotalCount,
		Truncated:        pagination.Truncated,
		TruncationReason: reason,
	}, nil
}

// listWalk carries the mutable state of one recursive collection.
type listWalk struct {
	tool           *ListDirectoryTool
	maxDepth       int
	includeIgnored bool
	maxResults     int
	visited        map[string]bool
	count          int
	capHit         bool
}

// collect gathers entries under abs. Depth semantics: 0 lists only the
// immediate children, negative is unlimited.
func (w *listWalk) collect(ctx context.Context, abs string, depth int) ([]Entry, error) {
	if w.count >= w.maxResults {
		w.capHit = true
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.maxDepth >= 0 && depth > w.maxDepth {
		return nil, nil
	}

	// Symlinked directories can cycle; track canonical paths.
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		canonical = abs
	}
	if w.visited[canonical] {
		return nil, nil
	}
	w.visited[canonical] = true

	infos, err := w.tool.fileOps.ListDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", abs, err)
	}

	var entries []Entry
	for _, info := range infos {
		if w.count >= w.maxResults {
			w.capHit = true
			return entries, nil
		}

		entryAbs := filepath.Join(abs, info.Name())
		entryRel, err := filepath.Rel(w.tool.root, entryAbs)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", entryAbs, err)
		}
		entryRel = filepath.ToSlash(entryRel)

		if !w.includeIgnored && w.tool.ignore.ShouldIgnore(entryRel, info.IsDir()) {
			continue
		}

		entry := Entry{RelativePath: entryRel, IsDir: info.IsDir()}
		if !info.IsDir() {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
		w.count++

		if info.IsDir() {
			sub, err := w.collect(ctx, entryAbs, depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)
			if w.capHit {
				return entries, nil
			}
		}
	}
	return entries, nil
}
