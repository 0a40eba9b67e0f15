package server

import (
	"fmt"

	"github.com/kvise/agentfs/internal/config"
	"github.com/kvise/agentfs/internal/tool/directory"
	"github.com/kvise/agentfs/internal/tool/file"
	"github.com/kvise/agentfs/internal/tool/hashutil"
	"github.com/kvise/agentfs/internal/tool/helper/content"
	"github.com/kvise/agentfs/internal/tool/search"
	osfs "github.com/kvise/agentfs/internal/tool/service/fs"
	"github.com/kvise/agentfs/internal/tool/service/git"
	"github.com/kvise/agentfs/internal/tool/service/path"
)

// NewWorkspaceRegistry builds the full tool registry for one workspace
// root. All tools share one filesystem, resolver, detector, and
// checksum cache so reads and edits observe each other.
func NewWorkspaceRegistry(cfg *config.Config, workspaceRoot string) (*Registry, error) {
	root, err := path.CanonicaliseRoot(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize workspace root: %w", err)
	}

	fsys := osfs.NewOSFileSystem()
	resolver := path.NewResolver(root, fsys)
	detector := content.NewDetector(cfg.Tools.BinaryExtensions)
	checksum := hashutil.NewChecksumManager()

	ignore, err := git.NewIgnoreMatcher(root, fsys)
	if err != nil {
		return nil, err
	}

	readTool := file.NewReadFileTool(fsys, detector, checksum, resolver, cfg)
	writeTool := file.NewWriteFileTool(fsys, detector, checksum, resolver, cfg)
	appendTool := file.NewAppendFileTool(fsys, checksum, resolver, cfg)
	editTool := file.NewEditFileTool(fsys, checksum, resolver, cfg)
	statTool := file.NewStatFileTool(fsys, detector, resolver, cfg)
	moveTool := file.NewMoveFileTool(fsys, checksum, resolver, cfg)
	listTool := directory.NewListDirectoryTool(fsys, ignore, resolver, cfg, root)
	treeTool := directory.NewTreeTool(fsys, ignore, resolver, cfg, root)
	searchTool := search.NewSearchContentTool(fsys, ignore, detector, resolver, cfg, root)

	return NewRegistry(
		NewTool("read_file",
			"Read a text file, optionally a byte range.",
			readTool.Run),
		NewTool("write_file",
			"Write content to a file. Without the completion marker the content is merged incrementally instead of overwriting.",
			writeTool.Run),
		NewTool("append_file",
			"Append content verbatim to a file, creating it if missing.",
			appendTool.Run),
		NewTool("edit_file",
			"Apply literal find/replace operations to an existing file.",
			editTool.Run),
		NewTool("stat_file",
			"Report metadata for a path. Missing paths report exists=false.",
			statTool.Run),
		NewTool("move_file",
			"Move or rename a file inside the workspace.",
			moveTool.Run),
		NewTool("list_directory",
			"List a directory with optional recursion and pagination.",
			listTool.Run),
		NewTool("tree",
			"Render a depth-bounded directory tree.",
			treeTool.Run),
		NewTool("search_content",
			"Search file contents for a regular expression.",
			searchTool.Run),
	), nil
}
