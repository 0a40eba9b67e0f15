package file

import (
	"context"
	"fmt"
	"os"

	"github.com/kvise/agentfs/internal/config"
)

// fileReader is the filesystem surface the read tool needs.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadFileRange(path string, offset, limit int64) ([]byte, error)
}

// checksumComputer is the checksum-cache surface for full reads.
type checksumComputer interface {
	Compute(data []byte) string
	Update(path string, checksum string)
}

// contentClassifier classifies read bytes without consulting the path.
type contentClassifier interface {
	IsBinaryContent(data []byte) bool
}

// ReadFileTool reads text files from the workspace, with optional byte
// offset and limit for partial reads.
type ReadFileTool struct {
	fileOps  fileReader
	detector contentClassifier
	checksum checksumComputer
	resolver pathResolver
	config   *config.Config
}

// NewReadFileTool creates a ReadFileTool with injected dependencies.
func NewReadFileTool(
	fileOps fileReader,
	detector contentClassifier,
	checksum checksumComputer,
	resolver pathResolver,
	cfg *config.Config,
) *ReadFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if detector == nil {
		panic("detector is required")
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
	return &ReadFileTool{
		fileOps:  fileOps,
		detector: detector,
		checksum: checksum,
		resolver: resolver,
		config:   cfg,
	}
}

// Run reads a file range. Binary content is rejected, size limits are
// enforced, and a checksum is cached when the whole file was read so a
// later edit can detect concurrent modification.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *ReadFileTool) Run(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
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
	if info.Size() > t.config.Tools.MaxFileSize.Int64() {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, abs, info.Size())
	}

	var offset, limit int64
	if req.Offset != nil {
		offset = *req.Offset
	}
	if req.Limit != nil {
		limit = *req.Limit
	}

	data, err := t.fileOps.ReadFileRange(abs, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", abs, err)
	}

	if t.detector.IsBinaryContent(data) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, abs)
	}

	// Only a full read represents the file state an edit can be checked
	// against.
	if offset == 0 && int64(len(data)) == info.Size() {
		t.checksum.Update(abs, t.checksum.Compute(data))
	}

	return &ReadFileResponse{
		Content:      string(data),
		AbsolutePath: abs,
		RelativePath: rel,
		Size:         info.Size(),
	}, nil
}
