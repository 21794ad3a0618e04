package experiment

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/san-kum/dropscene/internal/config"
)

// SeedDir is the sub-directory of a sweep's output holding one seed's frames.
func SeedDir(base string, seed int64) string {
	return filepath.Join(base, fmt.Sprintf("seed_%d", seed))
}

// Sweep generates runs animations with consecutive seeds starting at
// seedStart, each into its own sub-directory. Runs share nothing, so they
// execute concurrently; frames within a run stay sequential.
func Sweep(ctx context.Context, base *config.Config, opts Options, runs int, seedStart int64) ([]*Summary, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("sweep needs at least one run, got %d", runs)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	summaries := make([]*Summary, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *base
			cfgCopy.Seed = seedStart + int64(idx)

			// a zero seed is resolved by New, so the directory is named
			// after the seed the run actually uses
			exp := New(&cfgCopy, opts)
			cfgCopy.OutputDir = SeedDir(base.OutputDir, exp.Seed())
			if err := exp.Setup(); err != nil {
				errs[idx] = err
				return
			}
			summaries[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seedStart+int64(i), err)
		}
	}

	return summaries, nil
}
