package enumerate

import (
	"math"
	"strconv"

	"gqaudit/domain/core"
	"gqaudit/domain/expr"
)

// Entry is one pooled expression together with its generation order.
// The order is assigned at first insertion of a value and never changes,
// even when a lower-complexity representative later replaces the
// expression for that value.
type Entry struct {
	Expr  *expr.Expr
	Order int
}

// Pool is a deduplicated collection of expressions keyed by evaluated
// value. Two syntactically different expressions whose values fall in
// the same rounding bucket are one entry; the lowest-complexity
// representative is retained (ties keep the earlier one). This is the
// plain arena-plus-dedup-index pattern: an ordered entry slice and a
// value-key index into it.
type Pool struct {
	entries   []Entry
	index     map[string]int
	digits    int // significant digits of the dedup key
	maxSize   int
	saturated bool
}

// NewPool creates an empty pool. dedupDigits controls the relative
// dedup tolerance: keys are values rounded to that many significant
// digits, so 9 digits groups values within roughly 1e-9 relative.
func NewPool(maxSize, dedupDigits int) *Pool {
	return &Pool{
		index:   make(map[string]int),
		digits:  dedupDigits,
		maxSize: maxSize,
	}
}

func (p *Pool) key(v float64) string {
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'e', p.digits-1, 64)
}

// Insert adds an expression to the pool. It reports whether a new
// value entry was created. Duplicate values keep their original
// generation order; the representative is swapped only when the new
// expression has strictly lower complexity.
func (p *Pool) Insert(e *expr.Expr) bool {
	v := e.Value()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	k := p.key(v)
	if pos, ok := p.index[k]; ok {
		if e.Complexity() < p.entries[pos].Expr.Complexity() {
			p.entries[pos].Expr = e
		}
		return false
	}
	if len(p.entries) >= p.maxSize {
		p.saturated = true
		return false
	}
	p.index[k] = len(p.entries)
	p.entries = append(p.entries, Entry{Expr: e, Order: len(p.entries)})
	return true
}

// Size returns the number of distinct-value entries
func (p *Pool) Size() int { return len(p.entries) }

// Full reports whether the pool has reached its size limit
func (p *Pool) Full() bool { return len(p.entries) >= p.maxSize }

// Saturated reports whether enumeration was truncated by the size limit
func (p *Pool) Saturated() bool { return p.saturated }

// markSaturated records that enumeration stopped with candidate
// expressions still pending. Callers that early-exit on Full must mark,
// since Insert never sees the skipped candidates.
func (p *Pool) markSaturated() { p.saturated = true }

// Entries returns the pooled entries in generation order. The returned
// slice is shared; callers must not mutate it.
func (p *Pool) Entries() []Entry { return p.entries }

// Values returns the evaluated values in generation order
func (p *Pool) Values() []float64 {
	out := make([]float64, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Expr.Value()
	}
	return out
}

// Hash fingerprints the ordered value sequence, used by determinism checks
func (p *Pool) Hash() core.PoolHash {
	return core.ComputePoolHash(p.Values())
}
