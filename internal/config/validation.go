package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Tools validation
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.DefaultListDirectoryLimit < 1 {
		errs = append(errs, "tools.default_list_directory_limit must be >= 1")
	}
	if c.Tools.MaxListDirectoryLimit < 1 {
		errs = append(errs, "tools.max_list_directory_limit must be >= 1")
	}
	if c.Tools.MaxListDirectoryResults < 1 {
		errs = append(errs, "tools.max_list_directory_results must be >= 1")
	}
	if c.Tools.DefaultTreeDepth < 1 {
		errs = append(errs, "tools.default_tree_depth must be >= 1")
	}
	if c.Tools.MaxTreeDepth < 1 {
		errs = append(errs, "tools.max_tree_depth must be >= 1")
	}
	if c.Tools.MaxTreeEntries < 1 {
		errs = append(errs, "tools.max_tree_entries must be >= 1")
	}

	// Tools validation - Search
	if c.Tools.MaxLineLength < 1 {
		errs = append(errs, "tools.max_line_length must be >= 1")
	}
	if c.Tools.MaxSearchContentResults < 1 {
		errs = append(errs, "tools.max_search_content_results must be >= 1")
	}
	if c.Tools.DefaultSearchContentLimit < 1 {
		errs = append(errs, "tools.default_search_content_limit must be >= 1")
	}
	if c.Tools.MaxSearchContentLimit < 1 {
		errs = append(errs, "tools.max_search_content_limit must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultListDirectoryLimit > c.Tools.MaxListDirectoryLimit {
		errs = append(errs, "tools.default_list_directory_limit must be <= tools.max_list_directory_limit")
	}
	if c.Tools.DefaultSearchContentLimit > c.Tools.MaxSearchContentLimit {
		errs = append(errs, "tools.default_search_content_limit must be <= tools.max_search_content_limit")
	}
	if c.Tools.DefaultTreeDepth > c.Tools.MaxTreeDepth {
		errs = append(errs, "tools.default_tree_depth must be <= tools.max_tree_depth")
	}

	// Write subsystem validation
	if c.Write.SmartWriteThreshold < 1 {
		errs = append(errs, "write.smart_write_threshold must be >= 1")
	}
	if c.Write.CompletionMarker == "" {
		errs = append(errs, "write.completion_marker must not be empty")
	}
	if c.Write.InitialChunkSize < 1 {
		errs = append(errs, "write.initial_chunk_size must be >= 1")
	}
	if c.Write.MaxChunkSize < c.Write.InitialChunkSize {
		errs = append(errs, "write.max_chunk_size must be >= write.initial_chunk_size")
	}
	if c.Write.MaxGrowthIterations < 1 {
		errs = append(errs, "write.max_growth_iterations must be >= 1")
	}
	if c.Write.FullReadCeiling < 1 {
		errs = append(errs, "write.full_read_ceiling must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
