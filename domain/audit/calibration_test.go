package audit

import (
	"strings"
	"testing"
)

// TestPValueDisplay tests that zero numerators render as a bound
func TestPValueDisplay(t *testing.T) {
	tests := []struct {
		name     string
		p        PValue
		expected string
	}{
		{"zero numerator is a bound", PValue{Numerator: 0, Trials: 200}, "< 0.005"},
		{"nonzero numerator is a point estimate", PValue{Numerator: 13, Trials: 200}, "0.0650"},
		{"all trials as extreme", PValue{Numerator: 200, Trials: 200}, "1.0000"},
		{"no trials", PValue{}, "n/a"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.p.Display(); got != test.expected {
				t.Errorf("Expected %q, got %q", test.expected, got)
			}
		})
	}
}

// TestPValueValue tests the numeric p-value
func TestPValueValue(t *testing.T) {
	p := PValue{Numerator: 5, Trials: 200}
	if p.Value() != 0.025 {
		t.Errorf("Expected 0.025, got %g", p.Value())
	}
	if (PValue{}).Value() != 1 {
		t.Error("Zero-trial p-value should default to 1")
	}
}

// TestResolutionCaveat tests the caveat text names the resolution
func TestResolutionCaveat(t *testing.T) {
	caveat := PValue{Trials: 200}.ResolutionCaveat()
	if !strings.Contains(caveat, "1/200") {
		t.Errorf("Caveat should name the 1/200 resolution, got: %s", caveat)
	}
}
