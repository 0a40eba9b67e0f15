package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kvise/agentfs/internal/config"
)

// fileEditor is the filesystem surface the edit tool needs.
type fileEditor interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// checksumStore is the full checksum-cache surface for conflict detection.
type checksumStore interface {
	Compute(data []byte) string
	Get(path string) (checksum string, ok bool)
	Update(path string, checksum string)
}

// EditFileTool applies literal find/replace operations to an existing
// file, with checksum-based conflict detection against the last read.
type EditFileTool struct {
	fileOps  fileEditor
	checksum checksumStore
	resolver pathResolver
	config   *config.Config
}

// NewEditFileTool creates an EditFileTool with injected dependencies.
func NewEditFileTool(
	fileOps fileEditor,
	checksum checksumStore,
	resolver pathResolver,
	cfg *config.Config,
) *EditFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if checksum == nil {
		panic("checksum is required")
	}
	if resolver == nil {
		panic("resolver is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	return &EditFileTool{
		fileOps:  fileOps,
		checksum: checksum,
		resolver: resolver,
		config:   cfg,
	}
}

// Run applies the request's operations in order and writes the result
// atomically. If a checksum was cached by an earlier full read and the
// file has changed since, the edit is refused.
//
// Note: there is a narrow race window between the checksum check and the
// write; callers sharing a path must coordinate themselves.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *EditFileTool) Run(ctx context.Context, req *EditFileRequest) (*EditFileResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	abs, err := t.resolver.Abs(req.Path)
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
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, abs)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, abs)
	}

	data, err := t.fileOps.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", abs, err)
	}

	rawContent := string(data)

	// Match on \n regardless of the file's line endings; restore CRLF on
	// the way out.
	hasCRLF := strings.Contains(rawContent, "\r\n")
	oldContent := strings.ReplaceAll(rawContent, "\r\n", "\n")

	currentChecksum := t.checksum.Compute([]byte(oldContent))
	if prior, ok := t.checksum.Get(abs); ok && prior != currentChecksum {
		return nil, fmt.Errorf("%w: %s", ErrEditConflict, abs)
	}

	content := oldContent
	for _, op := range req.Operations {
		before := strings.ReplaceAll(op.Before, "\r\n", "\n")
		after := strings.ReplaceAll(op.After, "\r\n", "\n")

		// Empty Before appends to the end of the file.
		if before == "" {
			if op.ExpectedReplacements > 1 {
				return nil, fmt.Errorf("%w: append has 1 target, got %d", ErrReplacementCountMismatch, op.ExpectedReplacements)
			}
			content += after
			continue
		}

		count := strings.Count(content, before)
		if count == 0 {
			return nil, fmt.Errorf("%w: %q in %s", ErrSnippetNotFound, op.Before, abs)
		}

		expected := op.ExpectedReplacements
		if expected == 0 {
			expected = 1
		}
		if count != expected {
			return nil, fmt.Errorf("%w in %s: expected %d, found %d", ErrReplacementCountMismatch, abs, expected, count)
		}

		content = strings.Replace(content, before, after, expected)
	}

	finalContent := content
	if hasCRLF {
		finalContent = strings.ReplaceAll(content, "\n", "\r\n")
	}

	if int64(len(finalContent)) > t.config.Tools.MaxFileSize.Int64() {
		return nil, fmt.Errorf("%w after edit: %s (%d bytes)", ErrFileTooLarge, abs, len(finalContent))
	}

	if err := t.fileOps.WriteFileAtomic(abs, []byte(finalContent), info.Mode().Perm()); err != nil {
		return nil, err
	}

	// Cache on the normalized form, matching what a future edit computes.
	t.checksum.Update(abs, t.checksum.Compute([]byte(content)))

	diff, added, removed := computeUnifiedDiff(filepath.Base(abs), oldContent, content)

	return &EditFileResponse{
		AbsolutePath:      abs,
		RelativePath:      rel,
		OperationsApplied: len(req.Operations),
		FileSize:          int64(len(finalContent)),
		Diff:              diff,
		AddedLines:        added,
		RemovedLines:      removed,
	}, nil
}

func computeUnifiedDiff(filename, oldContent, newContent string) (diff string, added, removed int) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  3,
	}
	diff, _ = difflib.GetUnifiedDiffString(ud)

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added++
		} else if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			removed++
		}
	}
	return diff, added, removed
}
