package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// TrialStream creates a deterministic RNG stream for one calibration trial,
	// derived from (base seed, trial index) alone so the sampled sequence is a
	// pure function of the configuration, independent of run identity and of
	// scheduling order
	TrialStream(ctx context.Context, trialIndex int, baseSeed int64) (*rand.Rand, error)
}
