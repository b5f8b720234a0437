package audit

import (
	"fmt"

	"gqaudit/domain/core"
)

// Target is a named real constant to be matched against the pool
type Target struct {
	Key   core.TargetKey `json:"key"`
	Name  string         `json:"name"`
	Value float64        `json:"value"`
}

// DefaultTargets returns the physical constants audited in every mode.
// Values are CODATA 2018.
func DefaultTargets() []Target {
	return []Target{
		{Key: "fine_structure", Name: "fine-structure constant α", Value: 0.0072973525693},
		{Key: "inverse_fine_structure", Name: "1/α", Value: 137.035999084},
		{Key: "proton_electron_ratio", Name: "proton/electron mass ratio", Value: 1836.15267343},
		{Key: "muon_electron_ratio", Name: "muon/electron mass ratio", Value: 206.7682830},
	}
}

// DefaultTolerances is the nested percent-error ladder for hit-rate tables
func DefaultTolerances() []float64 {
	return []float64{0.1, 0.5, 1, 5, 10}
}

// ValidateTolerances enforces a strictly increasing positive ladder so
// hit-counts are guaranteed monotone across thresholds.
func ValidateTolerances(tolerances []float64) error {
	if len(tolerances) == 0 {
		return core.NewValidationError("tolerances", "at least one threshold is required")
	}
	prev := 0.0
	for _, t := range tolerances {
		if t <= prev {
			return core.NewValidationError("tolerances",
				fmt.Sprintf("thresholds must be strictly increasing and positive, got %v", tolerances))
		}
		prev = t
	}
	return nil
}

// BestMatch is the minimum-percent-error expression for a target.
// Ties break by complexity, then generation order.
type BestMatch struct {
	ExpressionText  string  `json:"expression"`
	Value           float64 `json:"value"`
	PercentError    float64 `json:"percent_error"`
	Complexity      int     `json:"complexity"`
	GenerationOrder int     `json:"generation_order"`
}

// HitRate is one row of the tolerance table for a target
type HitRate struct {
	TolerancePct float64 `json:"tolerance_pct"`
	Count        int     `json:"count"`
	Fraction     float64 `json:"fraction"`
}

// FitResult scores one target against one expression pool. Defined is
// false when the pool was empty: percent error is then undefined and
// must be reported as such, never as a numeric zero.
type FitResult struct {
	Target   Target     `json:"target"`
	Defined  bool       `json:"defined"`
	Best     *BestMatch `json:"best,omitempty"`
	Hits     []HitRate  `json:"hits"`
	PoolSize int        `json:"pool_size"`
}

// HitCount returns the count at a tolerance, 0 when absent
func (f FitResult) HitCount(tolerancePct float64) int {
	for _, h := range f.Hits {
		if h.TolerancePct == tolerancePct {
			return h.Count
		}
	}
	return 0
}

// NullTrial is one independently sampled random base set together with
// its own fit results per target.
type NullTrial struct {
	ID    core.TrialID `json:"id"`
	Index int          `json:"index"`
	Base  []float64    `json:"base"`
	Fits  []FitResult  `json:"fits"`
}
