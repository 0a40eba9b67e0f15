package file

import (
	"github.com/kvise/agentfs/internal/config"
)

// Strategy identifies how a write request lands on disk.
type Strategy string

const (
	// StrategyOverwrite replaces the whole file (atomic temp+rename).
	StrategyOverwrite Strategy = "overwrite"

	// StrategyAppend appends the content verbatim, no overlap detection.
	StrategyAppend Strategy = "append"

	// StrategyIncrementalMerge appends only the suffix of the content that
	// does not already terminate the file.
	StrategyIncrementalMerge Strategy = "incremental_merge"
)

// IsValid returns true if the strategy is recognized.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyOverwrite, StrategyAppend, StrategyIncrementalMerge:
		return true
	default:
		return false
	}
}

func (s Strategy) String() string {
	return string(s)
}

// -- Read File --

type ReadFileRequest struct {
	Path   string `json:"path" jsonschema:"required,description=Path to the file relative to the workspace root."`
	Offset *int64 `json:"offset,omitempty" jsonschema:"description=Byte offset to start reading from."`
	Limit  *int64 `json:"limit,omitempty" jsonschema:"description=Maximum number of bytes to read."`
}

func (r *ReadFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	if r.Offset != nil && *r.Offset < 0 {
		return ErrInvalidOffset
	}
	if r.Limit != nil && *r.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

type ReadFileResponse struct {
	Content      string `json:"content"`
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	Size         int64  `json:"size"`
}

// -- Write File --

type WriteFileRequest struct {
	Path string `json:"path" jsonschema:"required,description=Path to the file relative to the workspace root."`
	// Content is the payload. If it does not end with the completion
	// marker it is treated as potentially truncated generator output and
	// merged instead of overwritten.
	Content string `json:"content" jsonschema:"required,description=Content to write. End with the completion marker to signal the content is complete."`
	// Strategy, when set, bypasses strategy selection entirely.
	Strategy Strategy `json:"strategy,omitempty" jsonschema:"description=Explicit write strategy: overwrite | append | incremental_merge.,enum=overwrite,enum=append,enum=incremental_merge"`
	// FullRewrite marks the request as an intentional whole-file rewrite.
	FullRewrite bool `json:"full_rewrite,omitempty" jsonschema:"description=Set to intentionally replace an existing file."`
	// ChunkSize overrides the initial tail window size for overlap search.
	ChunkSize *int64 `json:"chunk_size,omitempty" jsonschema:"description=Initial tail window size in bytes for overlap detection."`
}

func (r *WriteFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	if r.Strategy != "" && !r.Strategy.IsValid() {
		return ErrInvalidStrategy
	}
	if r.ChunkSize != nil && *r.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if int64(len(r.Content)) > cfg.Tools.MaxFileSize.Int64() {
		return ErrFileTooLarge
	}
	return nil
}

type WriteFileResponse struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	// UsedStrategy is the strategy that actually executed.
	UsedStrategy Strategy `json:"used_strategy"`
	// StrategyOverridden is true when the executed strategy differs from
	// what the request implied.
	StrategyOverridden bool `json:"strategy_overridden,omitempty"`
	// ContentIncomplete is true when the payload lacked the completion
	// marker and was treated as potentially truncated.
	ContentIncomplete bool `json:"content_incomplete,omitempty"`
	// Created is true when the target file did not exist before the call.
	Created bool `json:"created,omitempty"`
	// BytesWritten counts bytes laid down by an overwrite.
	BytesWritten int `json:"bytes_written"`
	// BytesAppended counts bytes added by append or incremental merge.
	BytesAppended int `json:"bytes_appended"`
	// OverlapBytes is the detected duplicate span skipped by a merge.
	OverlapBytes int    `json:"overlap_bytes,omitempty"`
	Message      string `json:"message,omitempty"`
}

// -- Append File --

type AppendFileRequest struct {
	Path    string `json:"path" jsonschema:"required,description=Path to the file relative to the workspace root."`
	Content string `json:"content" jsonschema:"required,description=Content to append verbatim."`
}

func (r *AppendFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	if int64(len(r.Content)) > cfg.Tools.MaxFileSize.Int64() {
		return ErrFileTooLarge
	}
	return nil
}

type AppendFileResponse struct {
	AbsolutePath  string `json:"absolute_path"`
	RelativePath  string `json:"relative_path"`
	BytesAppended int    `json:"bytes_appended"`
	Created       bool   `json:"created,omitempty"`
}

// -- Edit File --

type EditOperation struct {
	Before               string `json:"before" jsonschema:"description=Literal text to find. Empty string appends to end of file."`
	After                string `json:"after" jsonschema:"required,description=Replacement text."`
	ExpectedReplacements int    `json:"expected_replacements,omitempty" jsonschema:"description=Exact number of occurrences expected. Defaults to 1."`
}

type EditFileRequest struct {
	Path       string          `json:"path" jsonschema:"required,description=Path to the file relative to the workspace root."`
	Operations []EditOperation `json:"operations" jsonschema:"required,description=Edit operations applied in order."`
}

func (r *EditFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	if len(r.Operations) == 0 {
		return ErrOperationsRequired
	}
	return nil
}

type EditFileResponse struct {
	AbsolutePath      string `json:"absolute_path"`
	RelativePath      string `json:"relative_path"`
	OperationsApplied int    `json:"operations_applied"`
	FileSize          int64  `json:"file_size"`
	Diff              string `json:"diff,omitempty"`
	AddedLines        int    `json:"added_lines"`
	RemovedLines      int    `json:"removed_lines"`
}

// -- Stat File --

type StatFileRequest struct {
	Path string `json:"path" jsonschema:"required,description=Path to stat relative to the workspace root."`
}

func (r *StatFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

type StatFileResponse struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	Exists       bool   `json:"exists"`
	IsDir        bool   `json:"is_dir,omitempty"`
	Size         int64  `json:"size"`
	Mode         string `json:"mode,omitempty"`
	ModTime      string `json:"mod_time,omitempty"`
	IsBinary     bool   `json:"is_binary,omitempty"`
}

// -- Move File --

type MoveFileRequest struct {
	Source      string `json:"source" jsonschema:"required,description=Source path relative to the workspace root."`
	Destination string `json:"destination" jsonschema:"required,description=Destination path relative to the workspace root."`
	Overwrite   bool   `json:"overwrite,omitempty" jsonschema:"description=Allow replacing an existing destination."`
}

func (r *MoveFileRequest) Validate(cfg *config.Config) error {
	if r.Source == "" || r.Destination == "" {
		return ErrPathRequired
	}
	return nil
}

type MoveFileResponse struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Replaced        bool   `json:"replaced,omitempty"`
}
