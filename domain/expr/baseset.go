package expr

import (
	"strconv"
	"strings"

	"gqaudit/domain/core"
)

// BaseNumberSet is an ordered sequence of distinct positive constants
// used as the atomic leaves of the expression grammar. Immutable once
// constructed.
type BaseNumberSet struct {
	values []float64
	labels []string
}

// NewBaseNumberSet validates and constructs a base set. Order is
// preserved: the leaf ordering is part of the deterministic
// enumeration order.
func NewBaseNumberSet(values []float64) (BaseNumberSet, error) {
	if len(values) == 0 {
		return BaseNumberSet{}, core.ErrEmptyBaseSet
	}
	seen := make(map[float64]struct{}, len(values))
	labels := make([]string, len(values))
	for i, v := range values {
		if v <= 0 {
			return BaseNumberSet{}, core.NewValidationError("base_set",
				core.ErrNonPositiveBase.Error()+": "+strconv.FormatFloat(v, 'g', -1, 64))
		}
		if _, dup := seen[v]; dup {
			return BaseNumberSet{}, core.NewValidationError("base_set",
				core.ErrDuplicateBase.Error()+": "+strconv.FormatFloat(v, 'g', -1, 64))
		}
		seen[v] = struct{}{}
		labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	out := BaseNumberSet{values: make([]float64, len(values)), labels: labels}
	copy(out.values, values)
	return out, nil
}

// FromInts constructs a base set from integer invariants (the usual
// case when seeding from finite-geometry counts and group orders).
// Repeated invariants collapse to their first occurrence: self-dual
// structures carry equal point and line counts, and the leaf set only
// needs the value once.
func FromInts(values []int64) (BaseNumberSet, error) {
	fs := make([]float64, 0, len(values))
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		fs = append(fs, float64(v))
	}
	return NewBaseNumberSet(fs)
}

// ParseBaseSet parses a comma-separated number list.
func ParseBaseSet(s string) (BaseNumberSet, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return BaseNumberSet{}, core.NewValidationError("base_set", "not a number: "+part)
		}
		values = append(values, v)
	}
	return NewBaseNumberSet(values)
}

// Size returns the cardinality of the set
func (b BaseNumberSet) Size() int { return len(b.values) }

// Values returns a copy of the ordered values
func (b BaseNumberSet) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}

// At returns the value and display label at position i
func (b BaseNumberSet) At(i int) (float64, string) {
	return b.values[i], b.labels[i]
}

// Max returns the largest value in the set
func (b BaseNumberSet) Max() float64 {
	max := b.values[0]
	for _, v := range b.values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// String renders the set the way it appears in report headers
func (b BaseNumberSet) String() string {
	return "{" + strings.Join(b.labels, ", ") + "}"
}
