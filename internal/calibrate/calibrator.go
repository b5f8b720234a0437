package calibrate

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"gqaudit/domain/audit"
	"gqaudit/domain/core"
	"gqaudit/domain/expr"
	"gqaudit/internal"
	"gqaudit/internal/enumerate"
	"gqaudit/internal/evaluate"
	"gqaudit/ports"
)

// Request describes one calibration run. The enumeration bounds,
// operator set, targets, and tolerances apply identically to the real
// run and every null trial.
type Request struct {
	RunID       core.RunID
	Base        expr.BaseNumberSet
	Ops         expr.OperatorSet
	MaxDepth    int
	MaxPool     int
	DedupDigits int
	Targets     []audit.Target
	Tolerances  []float64
	TrialCount  int
	Seed        int64
	Policy      Policy
}

// Calibrator quantifies whether the real base set's fit quality is
// distinguishable from chance, by rerunning the enumerate+evaluate
// pipeline over shape-matched random base sets.
type Calibrator struct {
	rng     ports.RNGPort
	log     *internal.Logger
	workers int
}

// NewCalibrator creates a calibrator. workers bounds parallel trial
// execution; 0 or 1 runs trials sequentially. Trials share no mutable
// state and each derives its RNG stream from (seed, trial index), so
// the result is identical for any worker count.
func NewCalibrator(rng ports.RNGPort, log *internal.Logger, workers int) *Calibrator {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Calibrator{rng: rng, log: log, workers: workers}
}

// Calibrate runs the real audit plus TrialCount null trials and
// aggregates them into a CalibrationReport.
func (c *Calibrator) Calibrate(ctx context.Context, req Request) (*audit.CalibrationReport, error) {
	if req.TrialCount < 1 {
		return nil, core.NewValidationError("trial_count", "must be >= 1")
	}
	if req.Policy == nil {
		return nil, core.NewValidationError("null_policy", "sampling policy is required")
	}
	tolerances := req.Tolerances
	if len(tolerances) == 0 {
		tolerances = audit.DefaultTolerances()
	}

	realFits, err := c.runPipeline(req.Base, req, tolerances)
	if err != nil {
		return nil, fmt.Errorf("real-set pipeline failed: %w", err)
	}

	trials, err := c.runTrials(ctx, req, tolerances)
	if err != nil {
		return nil, err
	}

	report := &audit.CalibrationReport{
		RunID:      req.RunID,
		Mode:       string(req.Ops.Mode),
		Seed:       req.Seed,
		TrialCount: req.TrialCount,
		NullPolicy: req.Policy.Name(),
		BaseSet:    req.Base.String(),
		CreatedAt:  core.Now(),
	}

	for t, target := range req.Targets {
		report.Targets = append(report.Targets, aggregateTarget(target, realFits[t], trials, t, tolerances, req.TrialCount))
	}

	resolution := audit.PValue{Trials: req.TrialCount}
	report.Caveats = append(report.Caveats, resolution.ResolutionCaveat())
	if req.TrialCount < 100 {
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("trial count %d is small; null quantiles are coarse estimates", req.TrialCount))
	}
	return report, nil
}

// SampleTrialSets returns the null base sets the calibrator would use,
// in trial order. Exposed so reproducibility of the sampled sequence
// can be verified independently of the full pipeline.
func (c *Calibrator) SampleTrialSets(ctx context.Context, req Request) ([]expr.BaseNumberSet, error) {
	sets := make([]expr.BaseNumberSet, req.TrialCount)
	for i := 0; i < req.TrialCount; i++ {
		rng, err := c.rng.TrialStream(ctx, i, req.Seed)
		if err != nil {
			return nil, err
		}
		sets[i], err = req.Policy.Sample(rng, req.Base)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
	}
	return sets, nil
}

func (c *Calibrator) runTrials(ctx context.Context, req Request, tolerances []float64) ([]audit.NullTrial, error) {
	trials := make([]audit.NullTrial, req.TrialCount)

	g, gctx := errgroup.WithContext(ctx)
	if c.workers > 1 {
		g.SetLimit(c.workers)
	} else {
		g.SetLimit(1)
	}

	for i := 0; i < req.TrialCount; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			rng, err := c.rng.TrialStream(gctx, i, req.Seed)
			if err != nil {
				return fmt.Errorf("trial %d: rng stream: %w", i, err)
			}
			nullBase, err := req.Policy.Sample(rng, req.Base)
			if err != nil {
				return fmt.Errorf("trial %d: sampling: %w", i, err)
			}
			fits, err := c.runPipeline(nullBase, req, tolerances)
			if err != nil {
				return fmt.Errorf("trial %d: pipeline: %w", i, err)
			}
			trials[i] = audit.NullTrial{
				ID:    core.TrialID(core.NewID()),
				Index: i,
				Base:  nullBase.Values(),
				Fits:  fits,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.log.Debug("completed %d null trials (policy=%s)", req.TrialCount, req.Policy.Name())
	return trials, nil
}

func (c *Calibrator) runPipeline(base expr.BaseNumberSet, req Request, tolerances []float64) ([]audit.FitResult, error) {
	pool, err := enumerate.BuildPool(enumerate.Params{
		Base:        base,
		Ops:         req.Ops,
		MaxDepth:    req.MaxDepth,
		MaxPool:     req.MaxPool,
		DedupDigits: req.DedupDigits,
	})
	if err != nil {
		return nil, err
	}
	return evaluate.Score(pool, req.Targets, tolerances)
}

// aggregateTarget folds one target's null trials into quantiles and
// empirical p-values.
func aggregateTarget(target audit.Target, real audit.FitResult, trials []audit.NullTrial, targetIdx int, tolerances []float64, trialCount int) audit.TargetCalibration {
	cal := audit.TargetCalibration{
		Target:      target,
		RealDefined: real.Defined,
	}
	if real.Defined && real.Best != nil {
		cal.RealBestError = real.Best.PercentError
	}

	bestErrors := make([]float64, 0, trialCount)
	atLeastAsGood := 0
	for _, trial := range trials {
		fit := trial.Fits[targetIdx]
		if !fit.Defined || fit.Best == nil {
			continue
		}
		bestErrors = append(bestErrors, fit.Best.PercentError)
		if real.Defined && fit.Best.PercentError <= cal.RealBestError {
			atLeastAsGood++
		}
	}
	cal.NullBestError = summarize(bestErrors)

	if real.Defined {
		cal.PBest = audit.PValue{Numerator: atLeastAsGood, Trials: trialCount}
	} else {
		// Real fit undefined: no null trial can be "at least as good",
		// so significance is vacuous at p=1.
		cal.PBest = audit.PValue{Numerator: trialCount, Trials: trialCount}
	}
	cal.PBestConfidence = clopperPearson(cal.PBest.Numerator, trialCount, 0.95)

	for _, tol := range tolerances {
		realHits := real.HitCount(tol)
		counts := make([]float64, 0, trialCount)
		atLeastAsMany := 0
		for _, trial := range trials {
			n := trial.Fits[targetIdx].HitCount(tol)
			counts = append(counts, float64(n))
			if n >= realHits {
				atLeastAsMany++
			}
		}
		cal.NullHits = append(cal.NullHits, audit.ToleranceQuantiles{
			TolerancePct: tol,
			Quantiles:    summarize(counts),
		})
		cal.PHits = append(cal.PHits, audit.TolerancePValue{
			TolerancePct: tol,
			P:            audit.PValue{Numerator: atLeastAsMany, Trials: trialCount},
		})
	}
	return cal
}

func summarize(values []float64) audit.QuantileSummary {
	if len(values) == 0 {
		return audit.QuantileSummary{}
	}
	p5, _ := stats.Percentile(values, 5)
	p50, _ := stats.Median(values)
	p95, _ := stats.Percentile(values, 95)
	return audit.QuantileSummary{P5: p5, P50: p50, P95: p95}
}

// clopperPearson computes the exact binomial confidence interval on an
// empirical proportion via Beta quantiles. It makes the resolution of
// small trial counts visible next to the point estimate.
func clopperPearson(successes, trials int, level float64) audit.ConfidenceInterval {
	ci := audit.ConfidenceInterval{Level: level}
	if trials == 0 {
		ci.Upper = 1
		return ci
	}
	alpha := 1 - level
	k, n := float64(successes), float64(trials)

	if successes > 0 {
		lower := distuv.Beta{Alpha: k, Beta: n - k + 1}
		ci.Lower = lower.Quantile(alpha / 2)
	}
	if successes < trials {
		upper := distuv.Beta{Alpha: k + 1, Beta: n - k}
		ci.Upper = upper.Quantile(1 - alpha/2)
	} else {
		ci.Upper = 1
	}
	return ci
}
