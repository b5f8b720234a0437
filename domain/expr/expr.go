package expr

import (
	"math"
)

// NodeKind discriminates expression tree nodes
type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindUnary
	KindBinary
)

// Expr is an immutable expression tree node. The evaluated value,
// depth, and node count are fixed at construction so pool operations
// never re-walk the tree. Construction fails (ok=false) on domain
// errors; an Expr that exists always has a finite value.
type Expr struct {
	Kind  NodeKind
	Label string // leaf label or operator symbol
	Left  *Expr  // unary operand, or binary left
	Right *Expr  // binary right

	value float64
	depth int
	nodes int
}

// NewLeaf constructs a constant leaf. Callers guarantee finite values;
// base sets and symbolic constants are validated upstream.
func NewLeaf(label string, value float64) *Expr {
	return &Expr{Kind: KindLeaf, Label: label, value: value, depth: 1, nodes: 1}
}

// NewUnary applies a unary operator. Returns ok=false on a domain
// error (sqrt of a negative, reciprocal of zero, log of a
// non-positive, or a non-finite result); such expressions are
// discarded, never propagated.
func NewUnary(op UnaryOp, operand *Expr) (*Expr, bool) {
	var v float64
	switch op {
	case UnarySqrt:
		if operand.value < 0 {
			return nil, false
		}
		v = math.Sqrt(operand.value)
	case UnaryInv:
		if operand.value == 0 {
			return nil, false
		}
		v = 1 / operand.value
	case UnaryLog:
		if operand.value <= 0 {
			return nil, false
		}
		v = math.Log(operand.value)
	case UnaryExp:
		v = math.Exp(operand.value)
	default:
		return nil, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &Expr{
		Kind:  KindUnary,
		Label: string(op),
		Left:  operand,
		value: v,
		depth: operand.depth + 1,
		nodes: operand.nodes + 1,
	}, true
}

// NewBinary combines two expressions. Returns ok=false on division by
// zero or a non-finite result.
func NewBinary(op BinaryOp, left, right *Expr) (*Expr, bool) {
	var v float64
	switch op {
	case BinaryAdd:
		v = left.value + right.value
	case BinarySub:
		v = left.value - right.value
	case BinaryMul:
		v = left.value * right.value
	case BinaryDiv:
		if right.value == 0 {
			return nil, false
		}
		v = left.value / right.value
	default:
		return nil, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	depth := left.depth
	if right.depth > depth {
		depth = right.depth
	}
	return &Expr{
		Kind:  KindBinary,
		Label: string(op),
		Left:  left,
		Right: right,
		value: v,
		depth: depth + 1,
		nodes: left.nodes + right.nodes + 1,
	}, true
}

// Value returns the evaluated real value (always finite)
func (e *Expr) Value() float64 { return e.value }

// Depth returns the tree depth (leaves have depth 1)
func (e *Expr) Depth() int { return e.depth }

// Complexity returns the node count. Monotonically non-decreasing with
// depth by construction.
func (e *Expr) Complexity() int { return e.nodes }

// String renders the expression in the report notation, e.g. "(7/40)/24".
// Binary operands are parenthesized when they are themselves binary;
// the outermost node carries no parens.
func (e *Expr) String() string {
	switch e.Kind {
	case KindLeaf:
		return e.Label
	case KindUnary:
		switch UnaryOp(e.Label) {
		case UnaryInv:
			return "1/" + e.Left.operandString()
		default:
			return e.Label + "(" + e.Left.String() + ")"
		}
	default:
		return e.Left.operandString() + e.Label + e.Right.operandString()
	}
}

func (e *Expr) operandString() string {
	if e.Kind == KindBinary {
		return "(" + e.String() + ")"
	}
	return e.String()
}
