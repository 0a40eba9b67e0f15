package search

import (
	"errors"
)

var (
	ErrQueryRequired  = errors.New("query is required")
	ErrInvalidPattern = errors.New("invalid search pattern")
	ErrSearchPathGone = errors.New("search path does not exist")
	ErrNotADirectory  = errors.New("search path is not a directory")
	ErrNegativeOffset = errors.New("offset must be >= 0")
	ErrNegativeLimit  = errors.New("limit must be >= 0")
	ErrLimitTooLarge  = errors.New("limit exceeds configured maximum")
)
