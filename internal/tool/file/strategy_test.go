package file

import (
	"testing"
)

func TestSelectStrategy(t *testing.T) {
	base := strategyInputs{
		Complete:              true,
		LargeContentThreshold: 100_000,
	}

	t.Run("explicit strategy always wins", func(t *testing.T) {
		in := base
		in.Requested = StrategyAppend
		in.Binary = true // would force overwrite otherwise
		d := selectStrategy(in)
		if d.Strategy != StrategyAppend || d.Overridden {
			t.Errorf("got %+v", d)
		}
	})

	t.Run("binary forces overwrite", func(t *testing.T) {
		in := base
		in.Binary = true
		in.FileExists = true // existence rules must not apply
		d := selectStrategy(in)
		if d.Strategy != StrategyOverwrite {
			t.Errorf("got %v", d.Strategy)
		}
		if d.Incomplete {
			t.Error("binary content is always complete")
		}
	})

	t.Run("missing marker forces merge regardless of size", func(t *testing.T) {
		in := base
		in.Complete = false
		in.ContentLen = 10
		in.FileExists = true
		d := selectStrategy(in)
		if d.Strategy != StrategyIncrementalMerge || !d.Incomplete {
			t.Errorf("got %+v", d)
		}
	})

	t.Run("missing marker forces merge even on new file", func(t *testing.T) {
		in := base
		in.Complete = false
		d := selectStrategy(in)
		if d.Strategy != StrategyIncrementalMerge {
			t.Errorf("got %v", d.Strategy)
		}
	})

	t.Run("large content forces merge", func(t *testing.T) {
		in := base
		in.ContentLen = 100_001
		d := selectStrategy(in)
		if d.Strategy != StrategyIncrementalMerge {
			t.Errorf("got %v", d.Strategy)
		}
	})

	t.Run("existing file without full rewrite merges", func(t *testing.T) {
		in := base
		in.FileExists = true
		d := selectStrategy(in)
		if d.Strategy != StrategyIncrementalMerge {
			t.Errorf("got %v", d.Strategy)
		}
	})

	t.Run("existing file with full rewrite overwrites", func(t *testing.T) {
		in := base
		in.FileExists = true
		in.FullRewrite = true
		d := selectStrategy(in)
		if d.Strategy != StrategyOverwrite || d.Overridden {
			t.Errorf("got %+v", d)
		}
	})

	t.Run("full rewrite overridden by missing marker", func(t *testing.T) {
		in := base
		in.FileExists = true
		in.FullRewrite = true
		in.Complete = false
		d := selectStrategy(in)
		if d.Strategy != StrategyIncrementalMerge || !d.Overridden {
			t.Errorf("got %+v", d)
		}
	})

	t.Run("new small complete content overwrites", func(t *testing.T) {
		in := base
		in.ContentLen = 10
		d := selectStrategy(in)
		if d.Strategy != StrategyOverwrite || d.Overridden || d.Incomplete {
			t.Errorf("got %+v", d)
		}
	})
}
