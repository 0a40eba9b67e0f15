package directory

import (
	"github.com/kvise/agentfs/internal/config"
)

// Entry is a single row in a directory listing.
type Entry struct {
	RelativePath string `json:"relative_path"`
	IsDir        bool   `json:"is_dir,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

// -- List Directory --

type ListDirectoryRequest struct {
	Path string `json:"path,omitempty" jsonschema:"description=Directory to list relative to the workspace root. Defaults to the root."`
	// MaxDepth limits recursion: 0 lists only immediate children, negative
	// is unlimited.
	MaxDepth       int  `json:"max_depth,omitempty" jsonschema:"description=Recursion depth. 0 = immediate children only; negative = unlimited."`
	IncludeIgnored bool `json:"include_ignored,omitempty" jsonschema:"description=Include entries matched by .gitignore."`
	Offset         int  `json:"offset,omitempty" jsonschema:"description=Number of entries to skip."`
	Limit          int  `json:"limit,omitempty" jsonschema:"description=Maximum entries per page."`
}

func (r *ListDirectoryRequest) Validate(cfg *config.Config) error {
	if r.Offset < 0 {
		return ErrNegativeOffset
	}
	if r.Limit < 0 {
		return ErrNegativeLimit
	}
	if r.Limit > cfg.Tools.MaxListDirectoryLimit {
		return ErrLimitTooLarge
	}
	return nil
}

type ListDirectoryResponse struct {
	DirectoryPath    string  `json:"directory_path"`
	Entries          []Entry `json:"entries"`
	Offset           int     `json:"offset"`
	Limit            int     `json:"limit"`
	TotalCount       int     `json:"total_count"`
	Truncated        bool    `json:"truncated"`
	TruncationReason string  `json:"truncation_reason,omitempty"`
}

// -- Tree --

type TreeRequest struct {
	Path string `json:"path,omitempty" jsonschema:"description=Directory to render relative to the workspace root. Defaults to the root."`
	// MaxDepth caps the rendered depth; 0 uses the configured default.
	MaxDepth       int  `json:"max_depth,omitempty" jsonschema:"description=Maximum tree depth. 0 uses the configured default."`
	IncludeIgnored bool `json:"include_ignored,omitempty" jsonschema:"description=Include entries matched by .gitignore."`
}

func (r *TreeRequest) Validate(cfg *config.Config) error {
	if r.MaxDepth < 0 {
		return ErrNegativeDepth
	}
	if r.MaxDepth > cfg.Tools.MaxTreeDepth {
		return ErrDepthTooLarge
	}
	return nil
}

// TreeNode is one node of the rendered tree. Children are present only
// for directories that were descended into.
type TreeNode struct {
	Name     string     `json:"name"`
	IsDir    bool       `json:"is_dir,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

type TreeResponse struct {
	DirectoryPath string   `json:"directory_path"`
	Root          TreeNode `json:"root"`
	TotalEntries  int      `json:"total_entries"`
	Truncated     bool     `json:"truncated"`
	DepthLimit    int      `json:"depth_limit"`
}
