package file

// Decision is the outcome of write-strategy selection.
type Decision struct {
	Strategy Strategy
	// Overridden is true when the chosen strategy differs from what the
	// request implied (an explicit strategy always wins and is never
	// flagged as overridden).
	Overridden bool
	// Incomplete is true when text content lacked the completion marker.
	Incomplete bool
}

// strategyInputs captures everything selection depends on. All fields are
// plain values resolved by the caller; selection itself does no I/O.
type strategyInputs struct {
	// Requested is the caller's explicit strategy, empty for none.
	Requested Strategy
	// FullRewrite is the caller's intent to replace the whole file.
	FullRewrite bool
	// Binary is the content classification for the target path.
	Binary bool
	// Complete is the completion-marker state (binary is always complete).
	Complete bool
	// ContentLen is the content length in bytes, after marker stripping.
	ContentLen int
	// FileExists reports whether the target file already exists.
	FileExists bool
	// LargeContentThreshold is the size above which merge is forced.
	LargeContentThreshold int
}

// selectStrategy picks the write strategy. Rules in priority order, first
// match wins:
//
//  1. explicit caller strategy — authoritative, even if suboptimal
//  2. binary content       -> overwrite (marker and merge are text concepts)
//  3. missing marker       -> incremental merge (possibly truncated output)
//  4. very large content   -> incremental merge (likely chunked across calls)
//  5. existing file without full-rewrite intent -> incremental merge
//  6. otherwise            -> overwrite
func selectStrategy(in strategyInputs) Decision {
	incomplete := !in.Binary && !in.Complete

	if in.Requested != "" {
		return Decision{Strategy: in.Requested, Incomplete: incomplete}
	}

	chosen := func(s Strategy) Decision {
		implied := Strategy("")
		if in.FullRewrite {
			implied = StrategyOverwrite
		}
		return Decision{
			Strategy:   s,
			Overridden: implied != "" && implied != s,
			Incomplete: incomplete,
		}
	}

	switch {
	case in.Binary:
		return chosen(StrategyOverwrite)
	case incomplete:
		return chosen(StrategyIncrementalMerge)
	case in.ContentLen > in.LargeContentThreshold:
		return chosen(StrategyIncrementalMerge)
	case in.FileExists && !in.FullRewrite:
		return chosen(StrategyIncrementalMerge)
	default:
		return chosen(StrategyOverwrite)
	}
}
