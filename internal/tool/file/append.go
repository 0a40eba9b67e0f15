package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvise/agentfs/internal/config"
)

// fileAppender is the filesystem surface the append tool needs.
type fileAppender interface {
	Stat(path string) (os.FileInfo, error)
	AppendFile(path string, data []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// AppendFileTool appends content verbatim. No overlap detection and no
// marker handling; callers who want dedup use the write tool's merge.
type AppendFileTool struct {
	fileOps  fileAppender
	checksum checksumTracker
	resolver pathResolver
	config   *config.Config
}

// NewAppendFileTool creates an AppendFileTool with injected dependencies.
func NewAppendFileTool(
	fileOps fileAppender,
	checksum checksumTracker,
	resolver pathResolver,
	cfg *config.Config,
) *AppendFileTool {
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
	return &AppendFileTool{
		fileOps:  fileOps,
		checksum: checksum,
		resolver: resolver,
		config:   cfg,
	}
}

// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *AppendFileTool) Run(ctx context.Context, req *AppendFileRequest) (*AppendFileResponse, error) {
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

	created := false
	if info, err := t.fileOps.Stat(abs); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrIsDirectory, abs)
		}
	} else if os.IsNotExist(err) {
		created = true
		if err := t.fileOps.EnsureDirs(filepath.Dir(abs)); err != nil {
			return nil, fmt.Errorf("failed to create parent directories: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}

	if err := t.fileOps.AppendFile(abs, []byte(req.Content), defaultFilePerm); err != nil {
		return nil, err
	}
	t.checksum.Invalidate(abs)

	return &AppendFileResponse{
		AbsolutePath:  abs,
		RelativePath:  rel,
		BytesAppended: len(req.Content),
		Created:       created,
	}, nil
}
