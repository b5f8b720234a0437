package audit

import (
	"testing"
)

// TestValidateTolerances tests the strictly-increasing ladder rule
func TestValidateTolerances(t *testing.T) {
	tests := []struct {
		name       string
		tolerances []float64
		hasError   bool
	}{
		{"default ladder", []float64{0.1, 0.5, 1, 5, 10}, false},
		{"single threshold", []float64{1}, false},
		{"empty", nil, true},
		{"not increasing", []float64{0.5, 0.5, 1}, true},
		{"decreasing", []float64{5, 1}, true},
		{"non-positive", []float64{0, 1}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateTolerances(test.tolerances)
			if test.hasError && err == nil {
				t.Error("Expected error, got none")
			}
			if !test.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

// TestFitResultHitCount tests tolerance lookup
func TestFitResultHitCount(t *testing.T) {
	fit := FitResult{
		Hits: []HitRate{
			{TolerancePct: 0.1, Count: 2},
			{TolerancePct: 1, Count: 7},
		},
	}
	if fit.HitCount(1) != 7 {
		t.Errorf("Expected 7 hits at 1%%, got %d", fit.HitCount(1))
	}
	if fit.HitCount(5) != 0 {
		t.Errorf("Expected 0 hits at an absent tolerance, got %d", fit.HitCount(5))
	}
}

// TestDefaultTargets tests the audited constant table
func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets()
	if len(targets) != 4 {
		t.Fatalf("Expected 4 targets, got %d", len(targets))
	}
	if targets[0].Key != "fine_structure" || targets[0].Value != 0.0072973525693 {
		t.Errorf("Unexpected fine-structure target: %+v", targets[0])
	}
}
