package calibrate

import (
	"fmt"
	"math"
	"math/rand"

	"gqaudit/domain/expr"
	"gqaudit/internal/config"
)

// Policy samples a random base set "shape-matched" to the real one:
// same cardinality, magnitudes drawn per the policy's documented rule.
// The policy materially determines the null distribution's tightness,
// so it is explicit configuration rather than an inferred default.
type Policy interface {
	Name() string
	Sample(rng *rand.Rand, real expr.BaseNumberSet) (expr.BaseNumberSet, error)
}

// maxSampleAttempts bounds the distinctness rejection loop. Hitting it
// means the sampling range cannot hold that many distinct values.
const maxSampleAttempts = 10000

// PolicyForName resolves a configured policy name
func PolicyForName(name string) (Policy, error) {
	switch name {
	case config.PolicyUniformInt:
		return UniformIntPolicy{}, nil
	case config.PolicyMagnitudeBucket:
		return MagnitudeBucketPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown null policy %q", name)
}

// UniformIntPolicy draws distinct integers uniformly from [2, 2·max]
// where max is the real set's largest value. The range scales with the
// real set so null magnitudes are comparable without copying its
// structure.
type UniformIntPolicy struct{}

func (UniformIntPolicy) Name() string { return config.PolicyUniformInt }

func (UniformIntPolicy) Sample(rng *rand.Rand, real expr.BaseNumberSet) (expr.BaseNumberSet, error) {
	lo := int64(2)
	hi := 2 * int64(math.Ceil(real.Max()))
	if hi <= lo {
		hi = lo + int64(real.Size())
	}
	span := hi - lo + 1

	values := make([]int64, 0, real.Size())
	seen := make(map[int64]struct{}, real.Size())
	for attempts := 0; len(values) < real.Size(); attempts++ {
		if attempts >= maxSampleAttempts {
			return expr.BaseNumberSet{}, fmt.Errorf("uniform-int: cannot draw %d distinct values from [%d,%d]", real.Size(), lo, hi)
		}
		v := lo + rng.Int63n(span)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return expr.FromInts(values)
}

// MagnitudeBucketPolicy draws each element from the decade of its real
// counterpart: a real value v is replaced by a distinct integer drawn
// uniformly from [10^⌊log10 v⌋, 10^(⌊log10 v⌋+1)). This conditions the
// null on the real set's per-element order of magnitude.
type MagnitudeBucketPolicy struct{}

func (MagnitudeBucketPolicy) Name() string { return config.PolicyMagnitudeBucket }

func (MagnitudeBucketPolicy) Sample(rng *rand.Rand, real expr.BaseNumberSet) (expr.BaseNumberSet, error) {
	values := make([]int64, 0, real.Size())
	seen := make(map[int64]struct{}, real.Size())
	for i := 0; i < real.Size(); i++ {
		v, _ := real.At(i)
		lo := int64(math.Pow(10, math.Floor(math.Log10(v))))
		if lo < 1 {
			lo = 1
		}
		span := lo * 9 // [lo, 10·lo)
		drawn := false
		for attempts := 0; attempts < maxSampleAttempts; attempts++ {
			candidate := lo + rng.Int63n(span)
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			values = append(values, candidate)
			drawn = true
			break
		}
		if !drawn {
			return expr.BaseNumberSet{}, fmt.Errorf("magnitude-bucket: cannot draw a distinct value in [%d,%d)", lo, 10*lo)
		}
	}
	return expr.FromInts(values)
}
