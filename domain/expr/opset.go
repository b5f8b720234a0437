package expr

import (
	"fmt"
	"math"
	"strings"

	"gqaudit/domain/core"
)

// Mode selects the grammar richness tier
type Mode string

const (
	ModeStrict Mode = "strict" // arithmetic + sqrt/inv only
	ModeMedium Mode = "medium" // adds symbolic constants pi/e/phi
	ModeFull   Mode = "full"   // additionally allows log/exp (explicit opt-in)
)

// ParseMode parses a mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStrict:
		return ModeStrict, nil
	case ModeMedium:
		return ModeMedium, nil
	case ModeFull:
		return ModeFull, nil
	}
	return "", fmt.Errorf("%w: %q (expected strict|medium|full)", core.ErrInvalidMode, s)
}

// UnaryOp is a single-operand operator
type UnaryOp string

const (
	UnarySqrt UnaryOp = "sqrt"
	UnaryInv  UnaryOp = "inv"
	UnaryLog  UnaryOp = "log"
	UnaryExp  UnaryOp = "exp"
)

// BinaryOp is a two-operand operator
type BinaryOp string

const (
	BinaryAdd BinaryOp = "+"
	BinarySub BinaryOp = "-"
	BinaryMul BinaryOp = "*"
	BinaryDiv BinaryOp = "/"
)

// Commutative reports whether operand order is irrelevant.
// The enumerator generates unordered pairs for commutative operators
// and both orderings otherwise.
func (op BinaryOp) Commutative() bool {
	return op == BinaryAdd || op == BinaryMul
}

// Transcendental reports whether the operator trivially produces
// near-exact fits and must be gated behind an explicit opt-in.
func (op UnaryOp) Transcendental() bool {
	return op == UnaryLog || op == UnaryExp
}

// SymbolicConstant is a named grammar leaf such as pi
type SymbolicConstant struct {
	Name  string
	Value float64
}

// OperatorSet is the grammar configuration: enabled unary/binary
// operators plus optional symbolic constant leaves. Constructed once
// from configuration at run start.
type OperatorSet struct {
	Mode      Mode
	Unary     []UnaryOp
	Binary    []BinaryOp
	Constants []SymbolicConstant
}

// NewOperatorSet validates an explicit operator selection for a mode.
// Transcendental operators are rejected unless allowTranscendental is
// set, because log/exp degenerate hit-rate statistics.
func NewOperatorSet(mode Mode, unary []UnaryOp, binary []BinaryOp, allowTranscendental bool) (OperatorSet, error) {
	if len(binary) == 0 && len(unary) == 0 {
		return OperatorSet{}, core.NewValidationError("operator_set", "at least one operator must be enabled")
	}
	for _, op := range unary {
		switch op {
		case UnarySqrt, UnaryInv:
		case UnaryLog, UnaryExp:
			if mode != ModeFull {
				return OperatorSet{}, fmt.Errorf("%w: %s requires mode=full", core.ErrInvalidOperator, op)
			}
			if !allowTranscendental {
				return OperatorSet{}, fmt.Errorf("%w: %s requires the transcendental opt-in", core.ErrInvalidOperator, op)
			}
		default:
			return OperatorSet{}, fmt.Errorf("%w: unary %q", core.ErrInvalidOperator, op)
		}
	}
	for _, op := range binary {
		switch op {
		case BinaryAdd, BinarySub, BinaryMul, BinaryDiv:
		default:
			return OperatorSet{}, fmt.Errorf("%w: binary %q", core.ErrInvalidOperator, op)
		}
	}

	set := OperatorSet{Mode: mode, Unary: unary, Binary: binary}
	if mode == ModeMedium || mode == ModeFull {
		set.Constants = DefaultConstants()
	}
	return set, nil
}

// ForMode returns the canonical operator set for a grammar tier.
func ForMode(mode Mode, allowTranscendental bool) (OperatorSet, error) {
	unary := []UnaryOp{UnarySqrt, UnaryInv}
	if mode == ModeFull {
		unary = append(unary, UnaryLog, UnaryExp)
	}
	binary := []BinaryOp{BinaryAdd, BinarySub, BinaryMul, BinaryDiv}
	return NewOperatorSet(mode, unary, binary, allowTranscendental)
}

// DefaultConstants returns the symbolic leaves enabled in medium/full mode.
func DefaultConstants() []SymbolicConstant {
	return []SymbolicConstant{
		{Name: "pi", Value: math.Pi},
		{Name: "e", Value: math.E},
		{Name: "phi", Value: math.Phi},
	}
}

// ParseUnaryOps parses a comma-separated unary operator list.
func ParseUnaryOps(s string) ([]UnaryOp, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ops []UnaryOp
	for _, part := range strings.Split(s, ",") {
		op := UnaryOp(strings.ToLower(strings.TrimSpace(part)))
		switch op {
		case UnarySqrt, UnaryInv, UnaryLog, UnaryExp:
			ops = append(ops, op)
		default:
			return nil, fmt.Errorf("%w: unary %q", core.ErrInvalidOperator, part)
		}
	}
	return ops, nil
}

// ParseBinaryOps parses a comma-separated binary operator list.
func ParseBinaryOps(s string) ([]BinaryOp, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ops []BinaryOp
	for _, part := range strings.Split(s, ",") {
		op := BinaryOp(strings.TrimSpace(part))
		switch op {
		case BinaryAdd, BinarySub, BinaryMul, BinaryDiv:
			ops = append(ops, op)
		default:
			return nil, fmt.Errorf("%w: binary %q", core.ErrInvalidOperator, part)
		}
	}
	return ops, nil
}
