package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvise/agentfs/internal/config"
)

// writeFS is the filesystem surface the write tool needs on top of the
// merge engine's. *fs.OSFileSystem satisfies this.
type writeFS interface {
	mergeFS
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// binaryDetector classifies a payload destined for a path.
type binaryDetector interface {
	IsBinary(path string, data []byte) bool
}

// checksumTracker is the checksum-cache surface the write tool needs.
type checksumTracker interface {
	Compute(data []byte) string
	Update(path string, checksum string)
	Invalidate(path string)
}

// pathResolver resolves and sandbox-checks request paths.
type pathResolver interface {
	Abs(path string) (string, error)
	Rel(path string) (string, error)
}

// WriteFileTool is the content-safe write entry point. It classifies the
// payload, consults the completion-marker gate, selects a strategy, and
// executes it: atomic overwrite, verbatim append, or incremental merge
// through the engine.
type WriteFileTool struct {
	fileOps  writeFS
	detector binaryDetector
	checksum checksumTracker
	resolver pathResolver
	gate     *MarkerGate
	merger   *Merger
	config   *config.Config
}

// NewWriteFileTool creates a WriteFileTool with injected dependencies.
func NewWriteFileTool(
	fileOps writeFS,
	detector binaryDetector,
	checksum checksumTracker,
	resolver pathResolver,
	cfg *config.Config,
) *WriteFileTool {
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
	return &WriteFileTool{
		fileOps:  fileOps,
		detector: detector,
		checksum: checksum,
		resolver: resolver,
		gate:     NewMarkerGate(cfg.Write.CompletionMarker),
		merger:   NewMerger(fileOps, cfg.Write),
		config:   cfg,
	}
}

// Run executes a write request. Writes to the same path are not serialized
// here; concurrent callers racing on one file can interleave stat and
// append. Callers sharing a path must coordinate themselves.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *WriteFileTool) Run(ctx context.Context, req *WriteFileRequest) (*WriteFileResponse, error) {
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

	isBinary := t.detector.IsBinary(abs, []byte(req.Content))

	content := req.Content
	complete := true
	if !isBinary {
		complete = t.gate.IsComplete(content)
		// The marker never reaches disk, whatever strategy runs.
		content = t.gate.Strip(content)
	}

	exists := false
	var existing os.FileInfo
	if info, err := t.fileOps.Stat(abs); err == nil {
		if info.IsDir() {
			return nil, ErrIsDirectory
		}
		exists = true
		existing = info
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}

	decision := selectStrategy(strategyInputs{
		Requested:             req.Strategy,
		FullRewrite:           req.FullRewrite,
		Binary:                isBinary,
		Complete:              complete,
		ContentLen:            len(content),
		FileExists:            exists,
		LargeContentThreshold: t.config.Write.SmartWriteThreshold,
	})

	resp := &WriteFileResponse{
		AbsolutePath:       abs,
		RelativePath:       rel,
		UsedStrategy:       decision.Strategy,
		StrategyOverridden: decision.Overridden,
		ContentIncomplete:  decision.Incomplete,
		Created:            !exists,
	}

	switch decision.Strategy {
	case StrategyOverwrite:
		perm := defaultFilePerm
		if existing != nil {
			perm = existing.Mode().Perm()
		}
		if err := t.fileOps.EnsureDirs(filepath.Dir(abs)); err != nil {
			return nil, fmt.Errorf("failed to create parent directories: %w", err)
		}
		if err := t.fileOps.WriteFileAtomic(abs, []byte(content), perm); err != nil {
			return nil, err
		}
		resp.BytesWritten = len(content)
		t.checksum.Update(abs, t.checksum.Compute([]byte(content)))
		resp.Message = fmt.Sprintf("wrote %d bytes", resp.BytesWritten)

	case StrategyAppend:
		if err := t.fileOps.EnsureDirs(filepath.Dir(abs)); err != nil {
			return nil, fmt.Errorf("failed to create parent directories: %w", err)
		}
		if err := t.fileOps.AppendFile(abs, []byte(content), defaultFilePerm); err != nil {
			return nil, err
		}
		resp.BytesAppended = len(content)
		t.checksum.Invalidate(abs)
		resp.Message = fmt.Sprintf("appended %d bytes", resp.BytesAppended)

	case StrategyIncrementalMerge:
		var chunkSize int64
		if req.ChunkSize != nil {
			chunkSize = *req.ChunkSize
		}
		result, err := t.merger.MergeAppend(abs, []byte(content), chunkSize)
		if err != nil {
			return nil, err
		}
		resp.Created = result.Created
		resp.BytesAppended = result.BytesAppended
		resp.OverlapBytes = result.Overlap
		t.checksum.Invalidate(abs)
		if result.BytesAppended == 0 && !result.Created {
			resp.Message = "content already present, nothing appended"
		} else {
			resp.Message = fmt.Sprintf("merged: skipped %d overlapping bytes, appended %d", result.Overlap, result.BytesAppended)
		}
	}

	if decision.Overridden {
		resp.Message += " (requested strategy overridden)"
	}

	return resp, nil
}
