package audit

import (
	"fmt"

	"gqaudit/domain/core"
)

// PValue is an empirical p-value with its resolution attached. A zero
// numerator is displayed as "< 1/N", never as an unqualified 0.000:
// with N trials the true resolution is 1/N.
type PValue struct {
	Numerator int `json:"numerator"` // trials at least as extreme as the real result
	Trials    int `json:"trials"`
}

// Value returns the numeric p-value in [0,1]
func (p PValue) Value() float64 {
	if p.Trials == 0 {
		return 1
	}
	return float64(p.Numerator) / float64(p.Trials)
}

// Display renders the p-value for reports, qualifying zero numerators
func (p PValue) Display() string {
	if p.Trials == 0 {
		return "n/a"
	}
	if p.Numerator == 0 {
		return fmt.Sprintf("< %.4g", 1/float64(p.Trials))
	}
	return fmt.Sprintf("%.4f", p.Value())
}

// ResolutionCaveat returns the statistical caveat text carried by every
// calibration report.
func (p PValue) ResolutionCaveat() string {
	return fmt.Sprintf("empirical p-value resolution is 1/%d; values below that are reported as a bound, not an estimate", p.Trials)
}

// ConfidenceInterval is a two-sided interval on an empirical proportion
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// QuantileSummary holds the empirical 5th/50th/95th percentiles of a
// null statistic across trials.
type QuantileSummary struct {
	P5  float64 `json:"p5"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
}

// ToleranceQuantiles is the null hit-count summary at one tolerance
type ToleranceQuantiles struct {
	TolerancePct float64         `json:"tolerance_pct"`
	Quantiles    QuantileSummary `json:"quantiles"`
}

// TolerancePValue is the hit-count p-value at one tolerance
type TolerancePValue struct {
	TolerancePct float64 `json:"tolerance_pct"`
	P            PValue  `json:"p"`
}

// TargetCalibration aggregates one target's real fit against the null
// distribution built from shape-matched random base sets.
type TargetCalibration struct {
	Target        Target  `json:"target"`
	RealDefined   bool    `json:"real_defined"`
	RealBestError float64 `json:"real_best_error"`

	NullBestError   QuantileSummary      `json:"null_best_error"`
	NullHits        []ToleranceQuantiles `json:"null_hits"`
	PBest           PValue               `json:"p_best"`
	PBestConfidence ConfidenceInterval   `json:"p_best_confidence"`
	PHits           []TolerancePValue    `json:"p_hits"`
}

// CalibrationReport is the aggregate significance report for a run:
// quantiles of the null distribution plus empirical p-values, with the
// trial count and seed recorded for reproducibility.
type CalibrationReport struct {
	RunID       core.RunID          `json:"run_id"`
	Mode        string              `json:"mode"`
	Fingerprint core.ConfigHash     `json:"fingerprint"`
	Seed        int64               `json:"seed"`
	TrialCount  int                 `json:"trial_count"`
	NullPolicy  string              `json:"null_policy"`
	BaseSet     string              `json:"base_set"`
	CreatedAt   core.Timestamp      `json:"created_at"`
	Targets     []TargetCalibration `json:"targets"`
	Caveats     []string            `json:"caveats"`
}

// RunReport is the per-run artifact for a single real-set audit
type RunReport struct {
	RunID       core.RunID      `json:"run_id"`
	Mode        string          `json:"mode"`
	Fingerprint core.ConfigHash `json:"fingerprint"`
	Seed        int64           `json:"seed"`
	BaseSet     string          `json:"base_set"`
	MaxDepth    int             `json:"max_depth"`
	MaxPool     int             `json:"max_pool"`
	PoolSize    int             `json:"pool_size"`
	PoolHash    core.PoolHash   `json:"pool_hash"`
	CreatedAt   core.Timestamp  `json:"created_at"`
	Fits        []FitResult     `json:"fits"`
	Caveats     []string        `json:"caveats"`
}
