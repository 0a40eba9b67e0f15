package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Tools ToolsConfig `json:"tools"`
	Write WriteConfig `json:"write"`
}

type ToolsConfig struct {
	// File Operations
	MaxFileSize ByteSize `json:"max_file_size"` // Default: 20MiB

	// Directory Listing
	DefaultListDirectoryLimit int `json:"default_list_directory_limit"` // Default: 1000
	MaxListDirectoryLimit     int `json:"max_list_directory_limit"`     // Default: 10000
	MaxListDirectoryResults   int `json:"max_list_directory_results"`   // Default: 50000

	// Tree
	DefaultTreeDepth int `json:"default_tree_depth"` // Default: 3
	MaxTreeDepth     int `json:"max_tree_depth"`     // Default: 16
	MaxTreeEntries   int `json:"max_tree_entries"`   // Default: 10000

	// Search
	MaxSearchContentResults   int `json:"max_search_content_results"`   // Default: 10000
	MaxLineLength             int `json:"max_line_length"`              // Default: 10000
	DefaultSearchContentLimit int `json:"default_search_content_limit"` // Default: 100
	MaxSearchContentLimit     int `json:"max_search_content_limit"`     // Default: 1000

	// BinaryExtensions lists file extensions (without dot) always treated
	// as binary regardless of content sampling.
	BinaryExtensions []string `json:"binary_extensions"`
}

// WriteConfig tunes the content-safe write subsystem.
type WriteConfig struct {
	// SmartWriteThreshold is the content length in characters above which a
	// write is always routed through incremental merge.
	SmartWriteThreshold int `json:"smart_write_threshold"` // Default: 100000

	// CompletionMarker is the sentinel literal whose presence at the end of
	// content marks it as complete (not truncated by the generator).
	CompletionMarker string `json:"completion_marker"` // Default: "// END_OF_CONTENT"

	// InitialChunkSize is the first tail window size for overlap search.
	InitialChunkSize ByteSize `json:"initial_chunk_size"` // Default: 1KiB

	// MaxChunkSize caps the tail window growth.
	MaxChunkSize ByteSize `json:"max_chunk_size"` // Default: 1MiB

	// MaxGrowthIterations caps how many times the tail window may double.
	MaxGrowthIterations int `json:"max_growth_iterations"` // Default: 6

	// FullReadCeiling is the file size below which the whole file is read
	// for overlap detection instead of chunked tail reads.
	FullReadCeiling ByteSize `json:"full_read_ceiling"` // Default: 10MiB
}

// DefaultBinaryExtensions is the built-in known-binary extension list.
var DefaultBinaryExtensions = []string{
	"png", "jpg", "jpeg", "gif", "bmp", "ico", "webp", "tiff",
	"pdf", "zip", "gz", "tgz", "tar", "7z", "rar", "bz2", "xz",
	"exe", "dll", "so", "dylib", "bin", "o", "a", "wasm",
	"class", "jar", "war",
	"mp3", "mp4", "avi", "mov", "mkv", "wav", "ogg", "flac",
	"woff", "woff2", "ttf", "otf", "eot",
	"db", "sqlite", "sqlite3",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			MaxFileSize:               20 * 1024 * 1024,
			DefaultListDirectoryLimit: 1000,
			MaxListDirectoryLimit:     10000,
			MaxListDirectoryResults:   50000,
			DefaultTreeDepth:          3,
			MaxTreeDepth:              16,
			MaxTreeEntries:            10000,
			MaxSearchContentResults:   10000,
			MaxLineLength:             10000,
			DefaultSearchContentLimit: 100,
			MaxSearchContentLimit:     1000,
			BinaryExtensions:          DefaultBinaryExtensions,
		},
		Write: WriteConfig{
			SmartWriteThreshold: 100_000,
			CompletionMarker:    "// END_OF_CONTENT",
			InitialChunkSize:    1024,
			MaxChunkSize:        1024 * 1024,
			MaxGrowthIterations: 6,
			FullReadCeiling:     10 * 1024 * 1024,
		},
	}
}
