package calibrate

import (
	"math"
	"math/rand"
	"testing"

	"gqaudit/domain/expr"
	"gqaudit/internal/config"
)

func realBase(t *testing.T) expr.BaseNumberSet {
	t.Helper()
	base, err := expr.NewBaseNumberSet([]float64{15, 35, 20160})
	if err != nil {
		t.Fatalf("Base set failed: %v", err)
	}
	return base
}

// TestPolicyForName tests policy resolution
func TestPolicyForName(t *testing.T) {
	for _, name := range []string{config.PolicyUniformInt, config.PolicyMagnitudeBucket} {
		policy, err := PolicyForName(name)
		if err != nil {
			t.Errorf("Unexpected error for %s: %v", name, err)
		}
		if policy.Name() != name {
			t.Errorf("Expected policy name %s, got %s", name, policy.Name())
		}
	}
	if _, err := PolicyForName("gaussian"); err == nil {
		t.Error("Expected error for an unknown policy")
	}
}

// TestUniformIntPolicyShape tests cardinality, range, and distinctness
func TestUniformIntPolicyShape(t *testing.T) {
	real := realBase(t)
	rng := rand.New(rand.NewSource(1337))

	for trial := 0; trial < 50; trial++ {
		sample, err := UniformIntPolicy{}.Sample(rng, real)
		if err != nil {
			t.Fatalf("Trial %d: %v", trial, err)
		}
		if sample.Size() != real.Size() {
			t.Fatalf("Trial %d: expected cardinality %d, got %d", trial, real.Size(), sample.Size())
		}
		seen := make(map[float64]struct{})
		for _, v := range sample.Values() {
			if v != math.Trunc(v) {
				t.Errorf("Trial %d: expected integer values, got %g", trial, v)
			}
			if v < 2 || v > 2*real.Max() {
				t.Errorf("Trial %d: value %g outside [2, %g]", trial, v, 2*real.Max())
			}
			if _, dup := seen[v]; dup {
				t.Errorf("Trial %d: duplicate value %g", trial, v)
			}
			seen[v] = struct{}{}
		}
	}
}

// TestMagnitudeBucketPolicyShape tests per-element decade matching
func TestMagnitudeBucketPolicyShape(t *testing.T) {
	real := realBase(t)
	rng := rand.New(rand.NewSource(1337))

	for trial := 0; trial < 50; trial++ {
		sample, err := MagnitudeBucketPolicy{}.Sample(rng, real)
		if err != nil {
			t.Fatalf("Trial %d: %v", trial, err)
		}
		if sample.Size() != real.Size() {
			t.Fatalf("Trial %d: expected cardinality %d, got %d", trial, real.Size(), sample.Size())
		}
		for i, v := range sample.Values() {
			want, _ := real.At(i)
			wantDecade := math.Floor(math.Log10(want))
			gotDecade := math.Floor(math.Log10(v))
			if gotDecade != wantDecade {
				t.Errorf("Trial %d position %d: expected decade %g (real %g), got %g for value %g",
					trial, i, wantDecade, want, gotDecade, v)
			}
		}
	}
}

// TestPolicyDeterminism tests that an identical source yields an identical sample
func TestPolicyDeterminism(t *testing.T) {
	real := realBase(t)

	for _, policy := range []Policy{UniformIntPolicy{}, MagnitudeBucketPolicy{}} {
		t.Run(policy.Name(), func(t *testing.T) {
			first, err := policy.Sample(rand.New(rand.NewSource(1337)), real)
			if err != nil {
				t.Fatalf("First sample failed: %v", err)
			}
			second, err := policy.Sample(rand.New(rand.NewSource(1337)), real)
			if err != nil {
				t.Fatalf("Second sample failed: %v", err)
			}
			if first.String() != second.String() {
				t.Errorf("Identical seeds must sample identical sets: %s vs %s", first, second)
			}
		})
	}
}

// TestUniformIntPolicyImpossibleRange tests the rejection-loop bound
func TestUniformIntPolicyImpossibleRange(t *testing.T) {
	// Cardinality 4 cannot fit in [2, 2·2] = {2,3,4}
	real, err := expr.NewBaseNumberSet([]float64{0.5, 1, 1.5, 2})
	if err != nil {
		t.Fatalf("Base set failed: %v", err)
	}
	if _, err := (UniformIntPolicy{}).Sample(rand.New(rand.NewSource(1)), real); err == nil {
		t.Error("Expected error when the range cannot hold enough distinct values")
	}
}
