package report

import (
	"bytes"
	"strings"
	"testing"

	"gqaudit/domain/audit"
)

func sampleRunReport() audit.RunReport {
	return audit.RunReport{
		RunID:    "run-123",
		Mode:     "strict",
		BaseSet:  "{7, 40, 24}",
		MaxDepth: 3,
		MaxPool:  1000,
		PoolSize: 412,
		Seed:     42,
		Fits: []audit.FitResult{
			{
				Target:  audit.Target{Key: "fine_structure", Name: "fine-structure constant α", Value: 0.0072973525693},
				Defined: true,
				Best: &audit.BestMatch{
					ExpressionText: "(7/40)/24",
					Value:          0.007291666666666667,
					PercentError:   0.0779,
					Complexity:     5,
				},
				Hits:     []audit.HitRate{{TolerancePct: 0.1, Count: 1, Fraction: 0.0024}},
				PoolSize: 412,
			},
			{
				Target: audit.Target{Key: "inverse_fine_structure", Name: "1/α", Value: 137.035999084},
				Hits:   []audit.HitRate{{TolerancePct: 0.1}},
			},
		},
		Caveats: []string{"pool is empty: all fit results are undefined"},
	}
}

// TestRenderRunMarkdown tests the narrative report content
func TestRenderRunMarkdown(t *testing.T) {
	md := RenderRunMarkdown(sampleRunReport())

	for _, want := range []string{
		"(7/40)/24",
		"0.0779",
		"undefined (empty pool)",
		"## Caveats",
		"{7, 40, 24}",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

// TestRenderCalibrationMarkdown tests p-value rendering in the report
func TestRenderCalibrationMarkdown(t *testing.T) {
	report := audit.CalibrationReport{
		RunID:      "cal-123",
		Mode:       "strict",
		BaseSet:    "{7, 40, 24}",
		NullPolicy: "uniform-int",
		TrialCount: 200,
		Seed:       1337,
		Targets: []audit.TargetCalibration{
			{
				Target:        audit.Target{Key: "fine_structure", Name: "fine-structure constant α", Value: 0.0072973525693},
				RealDefined:   true,
				RealBestError: 0.0779,
				PBest:         audit.PValue{Numerator: 0, Trials: 200},
				NullHits: []audit.ToleranceQuantiles{
					{TolerancePct: 0.1, Quantiles: audit.QuantileSummary{P5: 0, P50: 1, P95: 3}},
				},
				PHits: []audit.TolerancePValue{
					{TolerancePct: 0.1, P: audit.PValue{Numerator: 7, Trials: 200}},
				},
			},
		},
		Caveats: []string{(audit.PValue{Trials: 200}).ResolutionCaveat()},
	}

	md := RenderCalibrationMarkdown(report)

	if !strings.Contains(md, "< 0.005") {
		t.Error("Zero-numerator p(best) must render as a bound, not 0.000")
	}
	if strings.Contains(md, "p(best) = 0.0000") {
		t.Error("Unqualified zero p-value must never appear")
	}
	if !strings.Contains(md, "1/200") {
		t.Error("Expected the resolution caveat in the report")
	}
	if !strings.Contains(md, "uniform-int") {
		t.Error("Expected the null policy in the report header")
	}
}

// TestWriteHitRatesCSV tests the CSV layout
func TestWriteHitRatesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHitRatesCSV(&buf, sampleRunReport().Fits); err != nil {
		t.Fatalf("WriteHitRatesCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "target,tolerance_pct,count,fraction" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	// One row per target × tolerance
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "fine_structure,0.1,1,") {
		t.Errorf("Unexpected first data row: %s", lines[1])
	}
}
