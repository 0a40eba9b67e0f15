package file

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kvise/agentfs/internal/config"
)

// statFS is the filesystem surface the stat tool needs.
type statFS interface {
	Stat(path string) (os.FileInfo, error)
}

// extClassifier classifies a path by extension only; stat never reads
// file content.
type extClassifier interface {
	IsBinaryExt(path string) bool
}

// StatFileTool reports metadata for a path. A missing path is not an
// error; the response carries Exists=false so callers can probe cheaply.
type StatFileTool struct {
	fileOps  statFS
	detector extClassifier
	resolver pathResolver
	config   *config.Config
}

// NewStatFileTool creates a StatFileTool with injected dependencies.
func NewStatFileTool(
	fileOps statFS,
	detector extClassifier,
	resolver pathResolver,
	cfg *config.Config,
) *StatFileTool {
	if fileOps == nil {
		panic("fileOps is required")
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
	return &StatFileTool{
		fileOps:  fileOps,
		detector: detector,
		resolver: resolver,
		config:   cfg,
	}
}

// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *StatFileTool) Run(ctx context.Context, req *StatFileRequest) (*StatFileResponse, error) {
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

	resp := &StatFileResponse{
		AbsolutePath: abs,
		RelativePath: rel,
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return resp, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}

	resp.Exists = true
	resp.IsDir = info.IsDir()
	resp.Size = info.Size()
	resp.Mode = info.Mode().String()
	resp.ModTime = info.ModTime().UTC().Format(time.RFC3339)
	if !info.IsDir() {
		resp.IsBinary = t.detector.IsBinaryExt(abs)
	}
	return resp, nil
}
