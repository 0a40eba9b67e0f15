// Package search implements regex content search over the workspace.
// The walk is native: files are scanned in-process instead of shelling
// out, so the service has no runtime dependency on external binaries.
package search

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/kvise/agentfs/internal/config"
	"github.com/kvise/agentfs/internal/tool/paginationutil"
)

// searchFS is the filesystem surface the search tool needs.
type searchFS interface {
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

// contentClassifier lets the walk skip binary files cheaply.
type contentClassifier interface {
	IsBinaryExt(path string) bool
	IsBinaryContent(data []byte) bool
}

// SearchContentTool searches file contents for a regex pattern.
type SearchContentTool struct {
	fileOps  searchFS
	ignore   ignoreMatcher
	detector contentClassifier
	resolver pathResolver
	config   *config.Config
	root     string
}

// NewSearchContentTool creates a SearchContentTool with injected dependencies.
func NewSearchContentTool(
	fileOps searchFS,
	ignore ignoreMatcher,
	detector contentClassifier,
	resolver pathResolver,
	cfg *config.Config,
	workspaceRoot string,
) *SearchContentTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if ignore == nil {
		panic("ignore is required")
	}
	if detector == nil {
		panic("detector is required")
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
	return &SearchContentTool{
		fileOps:  fileOps,
		ignore:   ignore,
		detector: detector,
		resolver: resolver,
		config:   cfg,
		root:     workspaceRoot,
	}
}

// Run searches for the pattern under the request path. Matching is
// line-oriented; results are sorted by file then line number and paged.
// Binary files, gitignored files (unless requested), and files over the
// size limit are skipped rather than failing the whole search.
func (t *SearchContentTool) Run(ctx context.Context, req *SearchContentRequest) (*SearchContentResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	pattern := req.Query
	if !req.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	limit := t.config.Tools.DefaultSearchContentLimit
	if req.Limit != 0 {
		limit = req.Limit
	}

	searchPath := req.SearchPath
	if searchPath == "" {
		searchPath = "."
	}

	abs, err := t.resolver.Abs(searchPath)
	if err != nil {
		return nil, err
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSearchPathGone, abs)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	walk := &searchWalk{
		tool:           t,
		re:             re,
		includeIgnored: req.IncludeIgnored,
		maxResults:     t.config.Tools.MaxSearchContentResults,
		visited:        make(map[string]bool),
	}
	if err := walk.dir(ctx, abs); err != nil {
		return nil, err
	}

	sort.Slice(walk.matches, func(i, j int) bool {
		if walk.matches[i].File != walk.matches[j].File {
			return walk.matches[i].File < walk.matches[j].File
		}
		return walk.matches[i].LineNumber < walk.matches[j].LineNumber
	})

	page, pagination := paginationutil.Window(walk.matches, req.Offset, limit)

	return &SearchContentResponse{
		Matches:    page,
		Offset:     req.Offset,
		Limit:      limit,
		TotalCount: pagination.TotalCount,
		Truncated:  pagination.Truncated || walk.capHit,
	}, nil
}

type searchWalk struct {
	tool           *SearchContentTool
	re             *regexp.Regexp
	includeIgnored bool
	maxResults     int
	visited        map[string]bool
	matches        []Match
	capHit         bool
}

func (w *searchWalk) dir(ctx context.Context, abs string) error {
	if w.capHit {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		canonical = abs
	}
	if w.visited[canonical] {
		return nil
	}
	w.visited[canonical] = true

	infos, err := w.tool.fileOps.ListDir(abs)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", abs, err)
	}

	for _, info := range infos {
		if w.capHit {
			return nil
		}

		entryAbs := filepath.Join(abs, info.Name())
		entryRel, err := filepath.Rel(w.tool.root, entryAbs)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", entryAbs, err)
		}
		entryRel = filepath.ToSlash(entryRel)

		if !w.includeIgnored && w.tool.ignore.ShouldIgnore(entryRel, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			if err := w.dir(ctx, entryAbs); err != nil {
				return err
			}
			continue
		}
		if info.Size() > w.tool.config.Tools.MaxFileSize.Int64() {
			continue
		}
		if w.tool.detector.IsBinaryExt(entryAbs) {
			continue
		}
		if err := w.file(entryAbs, entryRel); err != nil {
			return err
		}
	}
	return nil
}

func (w *searchWalk) file(abs, rel string) error {
	f, err := os.Open(abs)
	if err != nil {
		// File vanished mid-walk; skip it.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", abs, err)
	}
	defer f.Close()

	maxLineLength := w.tool.config.Tools.MaxLineLength

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Bytes()

		if lineNumber == 1 && w.tool.detector.IsBinaryContent(line) {
			return nil
		}
		if !w.re.Match(line) {
			continue
		}

		text := string(line)
		if len(text) > maxLineLength {
			text = text[:maxLineLength] + "...[truncated]"
		}
		w.matches = append(w.matches, Match{
			File:        rel,
			LineNumber:  lineNumber,
			LineContent: text,
		})
		if len(w.matches) >= w.maxResults {
			w.capHit = true
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		// A single unscannable file (token too long) should not fail the
		// whole search.
		return nil
	}
	return nil
}
