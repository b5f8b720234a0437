package enumerate

import (
	"sort"

	"gqaudit/domain/core"
	"gqaudit/domain/expr"
)

// Params bounds one enumeration
type Params struct {
	Base        expr.BaseNumberSet
	Ops         expr.OperatorSet
	MaxDepth    int
	MaxPool     int
	DedupDigits int
}

// DefaultDedupDigits is the significant-digit count of the value dedup
// key when none is configured (≈1e-9 relative tolerance band).
const DefaultDedupDigits = 9

// BuildPool enumerates the expression pool for a base set and operator
// set: a pure function of its inputs modulo the fixed generation order.
//
// Growth is dynamic-programming composition by depth level: depth-d
// expressions combine already-pooled sub-expressions of which at least
// one has depth d-1. Within a level, unary applications come before
// binary combinations, and binary operand pairs are ordered by combined
// complexity, then by pool position, so truncation at max_pool is
// reproducible and favors simple expressions. Commutative operators
// generate unordered pairs only; both orderings of a pair appear for
// non-commutative operators. Domain errors and non-finite values are
// discarded at construction and never reach deeper compositions.
func BuildPool(params Params) (*Pool, error) {
	if params.Base.Size() == 0 {
		return nil, core.ErrEmptyBaseSet
	}
	if params.MaxDepth < 1 {
		return nil, core.NewValidationError("max_depth", "must be >= 1")
	}
	if params.MaxPool < 1 {
		return nil, core.NewValidationError("max_pool", "must be >= 1")
	}
	digits := params.DedupDigits
	if digits == 0 {
		digits = DefaultDedupDigits
	}

	pool := NewPool(params.MaxPool, digits)

	// Depth 1: base leaves in set order, then symbolic constants.
	for i := 0; i < params.Base.Size(); i++ {
		v, label := params.Base.At(i)
		if pool.Full() {
			pool.markSaturated()
			break
		}
		pool.Insert(expr.NewLeaf(label, v))
	}
	for _, c := range params.Ops.Constants {
		if pool.Full() {
			pool.markSaturated()
			break
		}
		pool.Insert(expr.NewLeaf(c.Name, c.Value))
	}

	for depth := 2; depth <= params.MaxDepth; depth++ {
		if pool.Full() {
			pool.markSaturated()
			break
		}
		growLevel(pool, params.Ops, depth)
	}
	return pool, nil
}

// growLevel adds all depth-`depth` compositions of the current pool.
func growLevel(pool *Pool, ops expr.OperatorSet, depth int) {
	snapshot := pool.Entries()
	n := len(snapshot)

	// Unary applications over depth-(d-1) entries, in pool order.
	for _, op := range ops.Unary {
		for i := 0; i < n; i++ {
			if snapshot[i].Expr.Depth() != depth-1 {
				continue
			}
			if pool.Full() {
				pool.markSaturated()
				return
			}
			if e, ok := expr.NewUnary(op, snapshot[i].Expr); ok {
				pool.Insert(e)
			}
		}
	}

	// Binary combinations: operand pairs where the deeper side is
	// exactly d-1, ordered by combined complexity then position.
	type pair struct {
		i, j       int
		complexity int
	}
	var pairs []pair
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			di, dj := snapshot[i].Expr.Depth(), snapshot[j].Expr.Depth()
			deeper := di
			if dj > deeper {
				deeper = dj
			}
			if deeper != depth-1 {
				continue
			}
			pairs = append(pairs, pair{
				i:          i,
				j:          j,
				complexity: snapshot[i].Expr.Complexity() + snapshot[j].Expr.Complexity(),
			})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].complexity != pairs[b].complexity {
			return pairs[a].complexity < pairs[b].complexity
		}
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})

	for _, p := range pairs {
		for _, op := range ops.Binary {
			if op.Commutative() && p.i > p.j {
				continue
			}
			if pool.Full() {
				pool.markSaturated()
				return
			}
			if e, ok := expr.NewBinary(op, snapshot[p.i].Expr, snapshot[p.j].Expr); ok {
				pool.Insert(e)
			}
		}
	}
}
