// Package paginationutil provides offset/limit windowing over in-memory
// result sets. Tools collect full (capped) result slices and page them
// here so every listing surface reports pagination the same way.
package paginationutil

// Result holds pagination metadata for a windowed slice.
type Result struct {
	// TotalCount is the number of items before windowing.
	TotalCount int
	// Truncated is true when items exist beyond offset+limit.
	Truncated bool
}

// Window returns items[offset:offset+limit] with bounds clamped so no
// input can panic. Negative offset or limit is treated as zero.
func Window[T any](items []T, offset, limit int) ([]T, Result) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	total := len(items)
	start := min(offset, total)
	end := min(offset+limit, total)

	return items[start:end], Result{
		TotalCount: total,
		Truncated:  offset+limit < total,
	}
}
