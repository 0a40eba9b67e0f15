package directory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kvise/agentfs/internal/config"
)

// TreeTool renders a depth-bounded directory tree.
type TreeTool struct {
	fileOps  listFS
	ignore   ignoreMatcher
	resolver pathResolver
	config   *config.Config
	root     string
}

// NewTreeTool creates a TreeTool with injected dependencies.
func NewTreeTool(
	fileOps listFS,
	ignore ignoreMatcher,
	resolver pathResolver,
	cfg *config.Config,
	workspaceRoot string,
) *TreeTool {
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
	return &TreeTool{
		fileOps:  fileOps,
		ignore:   ignore,
		resolver: resolver,
		config:   cfg,
		root:     workspaceRoot,
	}
}

// Run renders the tree rooted at the request path. Depth 0 falls back to
// the configured default; the total entry count is capped so huge trees
// return a truncated result instead of an unbounded one.
func (t *TreeTool) Run(ctx context.Context, req *TreeRequest) (*TreeResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	depth := req.MaxDepth
	if depth == 0 {
		depth = t.config.Tools.DefaultTreeDepth
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

	walk := &treeWalk{
		tool:           t,
		maxDepth:       depth,
		includeIgnored: req.IncludeIgnored,
		maxEntries:     t.config.Tools.MaxTreeEntries,
		visited:        make(map[string]bool),
	}
	rootName := rel
	if rootName == "" {
		rootName = "."
	}
	node := TreeNode{Name: rootName, IsDir: true}
	node.Children, err = walk.descend(ctx, abs, 1)
	if err != nil {
		return nil, err
	}

	return &TreeResponse{
		DirectoryPath: rel,
		Root:          node,
		TotalEntries:  walk.count,
		Truncated:     walk.capHit,
		DepthLimit:    depth,
	}, nil
}

type treeWalk struct {
	tool           *TreeTool
	maxDepth       int
	includeIgnored bool
	maxEntries     int
	visited        map[string]bool
	count          int
	capHit         bool
}

func (w *treeWalk) descend(ctx context.Context, abs string, depth int) ([]TreeNode, error) {
	if depth > w.maxDepth {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

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

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].IsDir() != infos[j].IsDir() {
			return infos[i].IsDir()
		}
		return infos[i].Name() < infos[j].Name()
	})

	var nodes []TreeNode
	for _, info := range infos {
		if w.count >= w.maxEntries {
			w.capHit = true
			return nodes, nil
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

		node := TreeNode{Name: info.Name(), IsDir: info.IsDir()}
		w.count++

		if info.IsDir() {
			node.Children, err = w.descend(ctx, entryAbs, depth+1)
			if err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
