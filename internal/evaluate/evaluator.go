package evaluate

import (
	"math"

	"gqaudit/domain/audit"
	"gqaudit/internal/enumerate"
)

// PercentError is the evaluator's distance measure:
// |value − target| / |target| × 100.
func PercentError(value, target float64) float64 {
	return math.Abs(value-target) / math.Abs(target) * 100
}

// Score evaluates an expression pool against a set of targets. One
// FitResult per target, in target order: the minimum-percent-error
// expression with ties broken by complexity then generation order, and
// a hit row per tolerance threshold. The pool is not mutated.
//
// An empty pool yields a FitResult with Defined=false and zero hit
// counts for every target; it never raises and never reports a numeric
// zero error.
func Score(pool *enumerate.Pool, targets []audit.Target, tolerances []float64) ([]audit.FitResult, error) {
	if err := audit.ValidateTolerances(tolerances); err != nil {
		return nil, err
	}

	entries := pool.Entries()
	results := make([]audit.FitResult, 0, len(targets))
	for _, target := range targets {
		results = append(results, scoreTarget(entries, target, tolerances))
	}
	return results, nil
}

func scoreTarget(entries []enumerate.Entry, target audit.Target, tolerances []float64) audit.FitResult {
	result := audit.FitResult{
		Target:   target,
		PoolSize: len(entries),
		Hits:     make([]audit.HitRate, len(tolerances)),
	}
	for i, tol := range tolerances {
		result.Hits[i] = audit.HitRate{TolerancePct: tol}
	}
	if len(entries) == 0 {
		return result
	}

	var best *audit.BestMatch
	for _, entry := range entries {
		errPct := PercentError(entry.Expr.Value(), target.Value)

		if best == nil || better(errPct, entry, best) {
			best = &audit.BestMatch{
				ExpressionText:  entry.Expr.String(),
				Value:           entry.Expr.Value(),
				PercentError:    errPct,
				Complexity:      entry.Expr.Complexity(),
				GenerationOrder: entry.Order,
			}
		}
		for i, tol := range tolerances {
			if errPct <= tol {
				result.Hits[i].Count++
			}
		}
	}

	for i := range result.Hits {
		result.Hits[i].Fraction = float64(result.Hits[i].Count) / float64(len(entries))
	}
	result.Defined = true
	result.Best = best
	return result
}

// better applies the full deterministic ordering: percent error, then
// complexity, then generation order.
func better(errPct float64, entry enumerate.Entry, current *audit.BestMatch) bool {
	if errPct != current.PercentError {
		return errPct < current.PercentError
	}
	if entry.Expr.Complexity() != current.Complexity {
		return entry.Expr.Complexity() < current.Complexity
	}
	return entry.Order < current.GenerationOrder
}
