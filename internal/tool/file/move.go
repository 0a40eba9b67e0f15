package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvise/agentfs/internal/config"
)

// fileMover is the filesystem surface the move tool needs.
type fileMover interface {
	Stat(path string) (os.FileInfo, error)
	Rename(oldpath, newpath string) error
	EnsureDirs(path string) error
}

// MoveFileTool renames files and directories inside the workspace.
type MoveFileTool struct {
	fileOps  fileMover
	checksum checksumTracker
	resolver pathResolver
	config   *config.Config
}

// NewMoveFileTool creates a MoveFileTool with injected dependencies.
func NewMoveFileTool(
	fileOps fileMover,
	checksum checksumTracker,
	resolver pathResolver,
	cfg *config.Config,
) *MoveFileTool {
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
	return &MoveFileTool{
		fileOps:  fileOps,
		checksum: checksum,
		resolver: resolver,
		config:   cfg,
	}
}

// Run moves source to destination. An existing destination is refused
// unless the request sets overwrite; a destination directory is never
// replaced.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *MoveFileTool) Run(ctx context.Context, req *MoveFileRequest) (*MoveFileResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	src, err := t.resolver.Abs(req.Source)
	if err != nil {
		return nil, err
	}
	dst, err := t.resolver.Abs(req.Destination)
	if err != nil {
		return nil, err
	}

	if _, err := t.fileOps.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, src)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", src, err)
	}

	replaced := false
	if info, err := t.fileOps.Stat(dst); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrIsDirectory, dst)
		}
		if !req.Overwrite {
			return nil, fmt.Errorf("%w: %s", ErrFileExists, dst)
		}
		replaced = true
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", dst, err)
	}

	if err := t.fileOps.EnsureDirs(filepath.Dir(dst)); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := t.fileOps.Rename(src, dst); err != nil {
		return nil, fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}

	// Checksums cached under either path are stale now.
	t.checksum.Invalidate(src)
	t.checksum.Invalidate(dst)

	return &MoveFileResponse{
		SourcePath:      src,
		DestinationPath: dst,
		Replaced:        replaced,
	}, nil
}
