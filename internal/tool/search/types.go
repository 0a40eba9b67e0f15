package search

import (
	"github.com/kvise/agentfs/internal/config"
)

type SearchContentRequest struct {
	Query string `json:"query" jsonschema:"required,description=Regular expression to search for."`
	// SearchPath scopes the search; empty means the whole workspace.
	SearchPath     string `json:"search_path,omitempty" jsonschema:"description=Directory to search relative to the workspace root."`
	CaseSensitive  bool   `json:"case_sensitive,omitempty" jsonschema:"description=Match case exactly. Default is case-insensitive."`
	IncludeIgnored bool   `json:"include_ignored,omitempty" jsonschema:"description=Search files matched by .gitignore."`
	Offset         int    `json:"offset,omitempty" jsonschema:"description=Number of matches to skip."`
	Limit          int    `json:"limit,omitempty" jsonschema:"description=Maximum matches per page."`
}

func (r *SearchContentRequest) Validate(cfg *config.Config) error {
	if r.Query == "" {
		return ErrQueryRequired
	}
	if r.Offset < 0 {
		return ErrNegativeOffset
	}
	if r.Limit < 0 {
		return ErrNegativeLimit
	}
	if r.Limit > cfg.Tools.MaxSearchContentLimit {
		return ErrLimitTooLarge
	}
	return nil
}

// Match is one matching line.
type Match struct {
	File        string `json:"file"`
	LineNumber  int    `json:"line_number"`
	LineContent string `json:"line_content"`
}

type SearchContentResponse struct {
	Matches    []Match `json:"matches"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
	TotalCount int     `json:"total_count"`
	Truncated  bool    `json:"truncated"`
}
