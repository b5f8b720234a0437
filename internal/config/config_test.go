package config

import (
	"testing"

	"gqaudit/domain/expr"
)

// TestLoadDefaults tests the default configuration surface
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Grammar.Mode != expr.ModeStrict {
		t.Errorf("Expected default mode strict, got %s", cfg.Grammar.Mode)
	}
	if cfg.Run.MaxDepth != 3 {
		t.Errorf("Expected default max depth 3, got %d", cfg.Run.MaxDepth)
	}
	if cfg.Run.MaxPool != 20000 {
		t.Errorf("Expected default max pool 20000, got %d", cfg.Run.MaxPool)
	}
	if cfg.Run.Seed != 42 {
		t.Errorf("Expected default seed 42, got %d", cfg.Run.Seed)
	}
	if cfg.Run.DedupDigits != 9 {
		t.Errorf("Expected default dedup digits 9, got %d", cfg.Run.DedupDigits)
	}
	if cfg.Calibration.TrialCount != 200 {
		t.Errorf("Expected default trial count 200, got %d", cfg.Calibration.TrialCount)
	}
	if cfg.Calibration.NullPolicy != PolicyUniformInt {
		t.Errorf("Expected default null policy %s, got %s", PolicyUniformInt, cfg.Calibration.NullPolicy)
	}
}

// TestLoadFullModeRequiresOptIn tests the transcendental gate
func TestLoadFullModeRequiresOptIn(t *testing.T) {
	t.Setenv("AUDIT_MODE", "full")

	if _, err := Load(); err == nil {
		t.Error("Expected mode=full without AUDIT_ALLOW_TRANSCENDENTAL to fail")
	}

	t.Setenv("AUDIT_ALLOW_TRANSCENDENTAL", "1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed with opt-in set: %v", err)
	}
	if cfg.Grammar.Mode != expr.ModeFull {
		t.Errorf("Expected mode full, got %s", cfg.Grammar.Mode)
	}
}

// TestLoadRejectsInvalidValues tests fail-fast validation
func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad mode", "AUDIT_MODE", "loose"},
		{"bad null policy", "AUDIT_NULL_POLICY", "gaussian"},
		{"bad tolerance", "AUDIT_TOLERANCES", "0.1,abc"},
		{"bad dedup digits", "AUDIT_DEDUP_TOL", "30"},
		{"bad unary op", "AUDIT_UNARY_OPS", "cbrt"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected %s=%s to fail validation", test.key, test.value)
			}
		})
	}
}

// TestLoadBaseAndGeometryExclusive tests the mutual-exclusion rule
func TestLoadBaseAndGeometryExclusive(t *testing.T) {
	t.Setenv("AUDIT_BASE", "7,40,24")
	t.Setenv("AUDIT_GEOMETRY", "GQ(2,2)")

	if _, err := Load(); err == nil {
		t.Error("Expected AUDIT_BASE together with AUDIT_GEOMETRY to fail")
	}
}

// TestLoadParsesToleranceLadder tests the tolerance list parser
func TestLoadParsesToleranceLadder(t *testing.T) {
	t.Setenv("AUDIT_TOLERANCES", "0.1, 0.5, 1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	expected := []float64{0.1, 0.5, 1}
	if len(cfg.Run.Tolerances) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, cfg.Run.Tolerances)
	}
	for i, want := range expected {
		if cfg.Run.Tolerances[i] != want {
			t.Errorf("Position %d: expected %g, got %g", i, want, cfg.Run.Tolerances[i])
		}
	}
}
