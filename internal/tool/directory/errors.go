package directory

import (
	"errors"
)

var (
	ErrDirectoryMissing = errors.New("directory does not exist")
	ErrNotADirectory    = errors.New("path is not a directory")
	ErrNegativeOffset   = errors.New("offset must be >= 0")
	ErrNegativeLimit    = errors.New("limit must be >= 0")
	ErrLimitTooLarge    = errors.New("limit exceeds configured maximum")
	ErrNegativeDepth    = errors.New("max_depth must be >= 0")
	ErrDepthTooLarge    = errors.New("max_depth exceeds configured maximum")
)
