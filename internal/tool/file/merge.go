package file

import (
	"os"
	"path/filepath"

	"github.com/kvise/agentfs/internal/config"
	"github.com/kvise/agentfs/internal/overlap"
)

// defaultFilePerm is the mode for files created by merge and append.
const defaultFilePerm = os.FileMode(0o644)

// mergeFS is the filesystem surface the merge engine needs.
// *fs.OSFileSystem satisfies this.
type mergeFS interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadTail(path string, n int64) ([]byte, error)
	AppendFile(path string, data []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// MergeResult describes what an incremental merge did.
type MergeResult struct {
	// Created is true when the target file did not exist and was created.
	Created bool
	// Overlap is the byte length of the duplicate span that was skipped.
	Overlap int
	// BytesAppended is the number of bytes actually appended.
	BytesAppended int
}

// Merger is the incremental append engine. Given new content for an existing
// file it appends only the suffix that does not already terminate the file,
// so re-submitting interrupted output never duplicates bytes.
//
// Concurrent writers to the same path are not coordinated here: the stat and
// tail read can go stale before the append lands. Callers that share a path
// must serialize their writes themselves.
type Merger struct {
	fs  mergeFS
	cfg config.WriteConfig
}

// NewMerger creates a merge engine with the given filesystem and tuning.
func NewMerger(fs mergeFS, cfg config.WriteConfig) *Merger {
	if fs == nil {
		panic("fs is required")
	}
	return &Merger{fs: fs, cfg: cfg}
}

// MergeAppend merges content into the file at path. chunkSize overrides the
// configured initial tail window when positive.
//
// The target's final bytes always equal existing + content[overlap:]. A
// fully duplicate submission appends zero bytes. I/O failures on the append
// itself propagate unmodified; the file keeps its prior content.
func (m *Merger) MergeAppend(path string, content []byte, chunkSize int64) (MergeResult, error) {
	if chunkSize <= 0 {
		chunkSize = m.cfg.InitialChunkSize.Int64()
	}

	info, err := m.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No existing content: create with everything.
			if err := m.fs.EnsureDirs(filepath.Dir(path)); err != nil {
				return MergeResult{}, err
			}
			if err := m.fs.AppendFile(path, content, defaultFilePerm); err != nil {
				return MergeResult{}, err
			}
			return MergeResult{Created: true, BytesAppended: len(content)}, nil
		}
		return MergeResult{}, err
	}
	if info.IsDir() {
		return MergeResult{}, ErrIsDirectory
	}

	k := m.findOverlap(path, info.Size(), content, chunkSize)

	suffix := content[k:]
	if len(suffix) == 0 {
		return MergeResult{Overlap: k}, nil
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = defaultFilePerm
	}
	if err := m.fs.AppendFile(path, suffix, perm); err != nil {
		return MergeResult{}, err
	}

	return MergeResult{Overlap: k, BytesAppended: len(suffix)}, nil
}

// findOverlap is the adaptive tail reader. Small files (or small content)
// are read whole; large files are probed with a growing tail window. All
// size comparisons use encoded byte lengths, so multi-byte characters cannot
// flip a request into the wrong regime.
func (m *Merger) findOverlap(path string, fileSize int64, content []byte, chunkSize int64) int {
	if fileSize <= m.cfg.FullReadCeiling.Int64() || int64(len(content)) < 4*chunkSize {
		data, err := m.fs.ReadFile(path)
		if err == nil {
			return overlap.Detect(string(data), string(content))
		}
		// Full read failed; the chunked path below still works off
		// bounded tail reads.
	}

	window := min(chunkSize, m.cfg.MaxChunkSize.Int64())
	for iter := 0; iter < m.cfg.MaxGrowthIterations; iter++ {
		tail, err := m.fs.ReadTail(path, window)
		if err != nil {
			// Cannot inspect the tail: zero overlap appends everything,
			// which duplicates at worst and never loses bytes.
			return 0
		}

		if k := overlap.Detect(string(tail), string(content)); k > 0 {
			return k
		}

		// The whole file fit in the window, or growth is exhausted:
		// there is genuinely no overlap to find.
		if window >= fileSize || window >= m.cfg.MaxChunkSize.Int64() {
			return 0
		}
		window = min(window*2, m.cfg.MaxChunkSize.Int64())
	}

	return 0
}
