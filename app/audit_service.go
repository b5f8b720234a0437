package app

import (
	"context"
	"encoding/json"
	"fmt"

	"gqaudit/domain/audit"
	"gqaudit/domain/core"
	"gqaudit/domain/expr"
	"gqaudit/internal"
	"gqaudit/internal/calibrate"
	"gqaudit/internal/config"
	"gqaudit/internal/enumerate"
	"gqaudit/internal/errors"
	"gqaudit/internal/evaluate"
	"gqaudit/ports"
)

// AuditService orchestrates the enumerate → evaluate → calibrate
// pipeline and routes artifacts to the report sink and the optional
// run archive.
type AuditService struct {
	log        *internal.Logger
	rng        ports.RNGPort
	sink       ports.ReportSinkPort
	invariants ports.InvariantSourcePort
	archive    ports.RunRepository // nil disables archiving
	workers    int
}

// NewAuditService wires the service from its ports
func NewAuditService(
	rng ports.RNGPort,
	sink ports.ReportSinkPort,
	invariants ports.InvariantSourcePort,
	archive ports.RunRepository,
	log *internal.Logger,
	workers int,
) *AuditService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AuditService{
		log:        log,
		rng:        rng,
		sink:       sink,
		invariants: invariants,
		archive:    archive,
		workers:    workers,
	}
}

// ResolveBaseSet constructs the real base set from configuration:
// either an explicit constant list or a structure key resolved through
// the invariant source.
func (s *AuditService) ResolveBaseSet(ctx context.Context, cfg *config.Config) (expr.BaseNumberSet, error) {
	switch {
	case cfg.Run.BaseSpec != "":
		return expr.ParseBaseSet(cfg.Run.BaseSpec)
	case cfg.Run.Geometry != "":
		if s.invariants == nil {
			return expr.BaseNumberSet{}, errors.ConfigInvalid("AUDIT_GEOMETRY requires an invariant source")
		}
		values, err := s.invariants.Invariants(ctx, core.StructureKey(cfg.Run.Geometry))
		if err != nil {
			return expr.BaseNumberSet{}, err
		}
		return expr.FromInts(values)
	}
	return expr.BaseNumberSet{}, errors.ConfigInvalid("either AUDIT_BASE or AUDIT_GEOMETRY must be set")
}

// RunAudit executes a single real-set run and writes its artifacts.
// Returns the report and the artifact paths written.
func (s *AuditService) RunAudit(ctx context.Context, cfg *config.Config) (*audit.RunReport, []string, error) {
	base, err := s.ResolveBaseSet(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	ops, err := s.buildGrammar(cfg)
	if err != nil {
		return nil, nil, err
	}

	pool, err := enumerate.BuildPool(enumerate.Params{
		Base:        base,
		Ops:         ops,
		MaxDepth:    cfg.Run.MaxDepth,
		MaxPool:     cfg.Run.MaxPool,
		DedupDigits: cfg.Run.DedupDigits,
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("enumerated pool: %d distinct values (saturated=%t)", pool.Size(), pool.Saturated())

	tolerances := s.tolerances(cfg)
	fits, err := evaluate.Score(pool, audit.DefaultTargets(), tolerances)
	if err != nil {
		return nil, nil, err
	}

	report := &audit.RunReport{
		RunID:       core.RunID(core.NewID()),
		Mode:        string(ops.Mode),
		Fingerprint: s.fingerprint(cfg, base, "run"),
		Seed:        cfg.Run.Seed,
		BaseSet:     base.String(),
		MaxDepth:    cfg.Run.MaxDepth,
		MaxPool:     cfg.Run.MaxPool,
		PoolSize:    pool.Size(),
		PoolHash:    pool.Hash(),
		CreatedAt:   core.Now(),
		Fits:        fits,
	}
	if pool.Saturated() {
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("enumeration truncated deterministically at max_pool=%d; deeper coverage requires a larger pool", cfg.Run.MaxPool))
	}
	if pool.Size() == 0 {
		report.Caveats = append(report.Caveats, "pool is empty: all fit results are undefined")
	}

	paths, err := s.sink.WriteRunReport(ctx, *report)
	if err != nil {
		return nil, nil, err
	}
	if err := s.archiveRun(ctx, report); err != nil {
		// Archive failures do not invalidate the computed artifacts.
		s.log.Warn("run archive failed: %v", err)
	}
	return report, paths, nil
}

// RunCalibration executes the null-model calibration and writes its
// artifacts. Returns the report and the artifact paths written.
func (s *AuditService) RunCalibration(ctx context.Context, cfg *config.Config) (*audit.CalibrationReport, []string, error) {
	base, err := s.ResolveBaseSet(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	ops, err := s.buildGrammar(cfg)
	if err != nil {
		return nil, nil, err
	}
	policy, err := calibrate.PolicyForName(cfg.Calibration.NullPolicy)
	if err != nil {
		return nil, nil, errors.ConfigInvalid(err.Error())
	}

	calibrator := calibrate.NewCalibrator(s.rng, s.log, s.workers)
	report, err := calibrator.Calibrate(ctx, calibrate.Request{
		RunID:       core.RunID(core.NewID()),
		Base:        base,
		Ops:         ops,
		MaxDepth:    cfg.Run.MaxDepth,
		MaxPool:     cfg.Run.MaxPool,
		DedupDigits: cfg.Run.DedupDigits,
		Targets:     audit.DefaultTargets(),
		Tolerances:  s.tolerances(cfg),
		TrialCount:  cfg.Calibration.TrialCount,
		Seed:        cfg.Run.Seed,
		Policy:      policy,
	})
	if err != nil {
		return nil, nil, err
	}
	report.Fingerprint = s.fingerprint(cfg, base, "calibration")

	paths, err := s.sink.WriteCalibrationReport(ctx, *report)
	if err != nil {
		return nil, nil, err
	}
	if err := s.archiveCalibration(ctx, report); err != nil {
		s.log.Warn("calibration archive failed: %v", err)
	}
	return report, paths, nil
}

// VerifyReplay re-runs the enumeration recorded by a run report and
// checks that the configured inputs reproduce it bit-identically. The
// returned errors satisfy core.IsDeterminismError.
func (s *AuditService) VerifyReplay(ctx context.Context, cfg *config.Config, rec *audit.RunReport) error {
	if cfg.Run.Seed != rec.Seed {
		return fmt.Errorf("%w: configured seed %d, report seed %d", core.ErrSeedMismatch, cfg.Run.Seed, rec.Seed)
	}
	base, err := s.ResolveBaseSet(ctx, cfg)
	if err != nil {
		return err
	}
	if fp := s.fingerprint(cfg, base, "run"); fp != rec.Fingerprint {
		return fmt.Errorf("%w: configuration fingerprint %s does not match report %s", core.ErrNonDeterministic, fp, rec.Fingerprint)
	}
	ops, err := s.buildGrammar(cfg)
	if err != nil {
		return err
	}
	pool, err := enumerate.BuildPool(enumerate.Params{
		Base:        base,
		Ops:         ops,
		MaxDepth:    cfg.Run.MaxDepth,
		MaxPool:     cfg.Run.MaxPool,
		DedupDigits: cfg.Run.DedupDigits,
	})
	if err != nil {
		return err
	}
	if h := pool.Hash(); h != rec.PoolHash {
		return fmt.Errorf("%w: replayed pool hash %s, report recorded %s", core.ErrHashMismatch, h, rec.PoolHash)
	}
	return nil
}

func (s *AuditService) buildGrammar(cfg *config.Config) (expr.OperatorSet, error) {
	if len(cfg.Grammar.UnaryOps) == 0 && len(cfg.Grammar.BinaryOps) == 0 {
		return expr.ForMode(cfg.Grammar.Mode, cfg.Grammar.AllowTranscendental)
	}
	return expr.NewOperatorSet(cfg.Grammar.Mode, cfg.Grammar.UnaryOps, cfg.Grammar.BinaryOps, cfg.Grammar.AllowTranscendental)
}

func (s *AuditService) tolerances(cfg *config.Config) []float64 {
	if len(cfg.Run.Tolerances) > 0 {
		return cfg.Run.Tolerances
	}
	return audit.DefaultTolerances()
}

// fingerprint hashes everything that determines the output, so
// identical inputs are provably replayable from the report alone.
func (s *AuditService) fingerprint(cfg *config.Config, base expr.BaseNumberSet, kind string) core.ConfigHash {
	return core.ComputeConfigHash(map[string]interface{}{
		"kind":         kind,
		"mode":         string(cfg.Grammar.Mode),
		"base":         base.String(),
		"max_depth":    cfg.Run.MaxDepth,
		"max_pool":     cfg.Run.MaxPool,
		"dedup_digits": cfg.Run.DedupDigits,
		"seed":         cfg.Run.Seed,
		"trials":       cfg.Calibration.TrialCount,
		"null_policy":  cfg.Calibration.NullPolicy,
		"tolerances":   s.tolerances(cfg),
	})
}

func (s *AuditService) archiveRun(ctx context.Context, report *audit.RunReport) error {
	if s.archive == nil {
		return nil
	}
	summary, err := json.Marshal(report.Fits)
	if err != nil {
		return err
	}
	return s.archive.Save(ctx, ports.RunRecord{
		RunID:       report.RunID,
		Kind:        "run",
		Mode:        report.Mode,
		BaseSet:     report.BaseSet,
		Seed:        report.Seed,
		PoolSize:    report.PoolSize,
		Fingerprint: report.Fingerprint,
		Summary:     string(summary),
		CreatedAt:   report.CreatedAt,
	})
}

func (s *AuditService) archiveCalibration(ctx context.Context, report *audit.CalibrationReport) error {
	if s.archive == nil {
		return nil
	}
	summary, err := json.Marshal(report.Targets)
	if err != nil {
		return err
	}
	return s.archive.Save(ctx, ports.RunRecord{
		RunID:       report.RunID,
		Kind:        "calibration",
		Mode:        report.Mode,
		BaseSet:     report.BaseSet,
		Seed:        report.Seed,
		TrialCount:  report.TrialCount,
		Fingerprint: report.Fingerprint,
		Summary:     string(summary),
		CreatedAt:   report.CreatedAt,
	})
}
