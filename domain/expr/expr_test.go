package expr

import (
	"math"
	"testing"
)

// TestNewUnaryDomainErrors tests that domain errors are discarded at construction
func TestNewUnaryDomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		op      UnaryOp
		operand float64
		ok      bool
		value   float64
	}{
		{"sqrt of positive", UnarySqrt, 9, true, 3},
		{"sqrt of negative", UnarySqrt, -1, false, 0},
		{"inv of nonzero", UnaryInv, 4, true, 0.25},
		{"inv of zero", UnaryInv, 0, false, 0},
		{"log of positive", UnaryLog, math.E, true, 1},
		{"log of zero", UnaryLog, 0, false, 0},
		{"log of negative", UnaryLog, -2, false, 0},
		{"exp overflow", UnaryExp, 1e6, false, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			leaf := NewLeaf("x", test.operand)
			e, ok := NewUnary(test.op, leaf)
			if ok != test.ok {
				t.Fatalf("Expected ok=%t, got %t", test.ok, ok)
			}
			if !ok {
				return
			}
			if math.Abs(e.Value()-test.value) > 1e-12 {
				t.Errorf("Expected value %g, got %g", test.value, e.Value())
			}
		})
	}
}

// TestNewBinaryDivisionByZero tests that division by zero never produces an expression
func TestNewBinaryDivisionByZero(t *testing.T) {
	zero, ok := NewBinary(BinarySub, NewLeaf("3", 3), NewLeaf("3", 3))
	if !ok {
		t.Fatal("3-3 should construct")
	}
	if _, ok := NewBinary(BinaryDiv, NewLeaf("7", 7), zero); ok {
		t.Error("Expected division by zero to be discarded")
	}
}

// TestDepthAndComplexity tests the memoized tree metrics
func TestDepthAndComplexity(t *testing.T) {
	a := NewLeaf("7", 7)
	b := NewLeaf("40", 40)
	c := NewLeaf("24", 24)

	if a.Depth() != 1 || a.Complexity() != 1 {
		t.Errorf("Leaf should have depth 1 and complexity 1, got %d/%d", a.Depth(), a.Complexity())
	}

	inner, ok := NewBinary(BinaryDiv, a, b)
	if !ok {
		t.Fatal("7/40 should construct")
	}
	if inner.Depth() != 2 || inner.Complexity() != 3 {
		t.Errorf("Expected depth 2 complexity 3, got %d/%d", inner.Depth(), inner.Complexity())
	}

	outer, ok := NewBinary(BinaryDiv, inner, c)
	if !ok {
		t.Fatal("(7/40)/24 should construct")
	}
	if outer.Depth() != 3 || outer.Complexity() != 5 {
		t.Errorf("Expected depth 3 complexity 5, got %d/%d", outer.Depth(), outer.Complexity())
	}
	if math.Abs(outer.Value()-7.0/40.0/24.0) > 1e-15 {
		t.Errorf("Expected value %g, got %g", 7.0/40.0/24.0, outer.Value())
	}
}

// TestExprString tests the report notation
func TestExprString(t *testing.T) {
	a := NewLeaf("7", 7)
	b := NewLeaf("40", 40)
	c := NewLeaf("24", 24)

	inner, _ := NewBinary(BinaryDiv, a, b)
	outer, _ := NewBinary(BinaryDiv, inner, c)
	if got := outer.String(); got != "(7/40)/24" {
		t.Errorf("Expected (7/40)/24, got %s", got)
	}

	sqrt, _ := NewUnary(UnarySqrt, b)
	if got := sqrt.String(); got != "sqrt(40)" {
		t.Errorf("Expected sqrt(40), got %s", got)
	}

	inv, _ := NewUnary(UnaryInv, inner)
	if got := inv.String(); got != "1/(7/40)" {
		t.Errorf("Expected 1/(7/40), got %s", got)
	}

	sum, _ := NewBinary(BinaryAdd, a, c)
	if got := sum.String(); got != "7+24" {
		t.Errorf("Expected 7+24, got %s", got)
	}
}
