package report

import (
	"fmt"
	"strings"

	"gqaudit/domain/audit"
)

// RenderRunMarkdown produces the narrative per-run report: best match
// per target plus the hit-rate table, with the fingerprint and seed
// recorded for replay.
func RenderRunMarkdown(r audit.RunReport) string {
	var b strings.Builder

	b.WriteString("# Baseline Audit Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Mode: %s\n", r.Mode)
	fmt.Fprintf(&b, "- Base set: %s\n", r.BaseSet)
	fmt.Fprintf(&b, "- Max depth: %d, max pool: %d, pool size: %d\n", r.MaxDepth, r.MaxPool, r.PoolSize)
	fmt.Fprintf(&b, "- Seed: %d\n", r.Seed)
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", r.Fingerprint)
	fmt.Fprintf(&b, "- Pool hash: `%s`\n", r.PoolHash)
	fmt.Fprintf(&b, "- Created: %s\n\n", r.CreatedAt)

	b.WriteString("## Best matches\n\n")
	b.WriteString("| Target | Expression | Value | Error (%) | Complexity |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, fit := range r.Fits {
		if !fit.Defined || fit.Best == nil {
			fmt.Fprintf(&b, "| %s | undefined (empty pool) | — | — | — |\n", fit.Target.Name)
			continue
		}
		fmt.Fprintf(&b, "| %s | `%s` | %.12g | %.4f | %d |\n",
			fit.Target.Name, fit.Best.ExpressionText, fit.Best.Value, fit.Best.PercentError, fit.Best.Complexity)
	}
	b.WriteString("\n")

	b.WriteString("## Hit rates\n\n")
	for _, fit := range r.Fits {
		fmt.Fprintf(&b, "### %s (target %.12g)\n\n", fit.Target.Name, fit.Target.Value)
		b.WriteString("| Tolerance (%) | Count | Fraction |\n")
		b.WriteString("|---|---|---|\n")
		for _, h := range fit.Hits {
			fmt.Fprintf(&b, "| %.2g | %d | %.4f |\n", h.TolerancePct, h.Count, h.Fraction)
		}
		b.WriteString("\n")
	}

	writeCaveats(&b, r.Caveats)
	return b.String()
}

// RenderCalibrationMarkdown produces the significance report: null
// quantiles and empirical p-values per target, with trial count and
// seed explicit.
func RenderCalibrationMarkdown(r audit.CalibrationReport) string {
	var b strings.Builder

	b.WriteString("# Null-Model Calibration Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Mode: %s\n", r.Mode)
	fmt.Fprintf(&b, "- Base set: %s\n", r.BaseSet)
	fmt.Fprintf(&b, "- Null policy: %s\n", r.NullPolicy)
	fmt.Fprintf(&b, "- Trials: %d, seed: %d\n", r.TrialCount, r.Seed)
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", r.Fingerprint)
	fmt.Fprintf(&b, "- Created: %s\n\n", r.CreatedAt)

	for _, tc := range r.Targets {
		fmt.Fprintf(&b, "## %s\n\n", tc.Target.Name)
		if tc.RealDefined {
			fmt.Fprintf(&b, "Real best error: %.4f%%. Null best error P5/P50/P95: %.4f / %.4f / %.4f.\n\n",
				tc.RealBestError, tc.NullBestError.P5, tc.NullBestError.P50, tc.NullBestError.P95)
		} else {
			b.WriteString("Real best error: undefined (empty pool).\n\n")
		}
		fmt.Fprintf(&b, "p(best) = %s (95%% CI %.4f–%.4f)\n\n",
			tc.PBest.Display(), tc.PBestConfidence.Lower, tc.PBestConfidence.Upper)

		b.WriteString("| Tolerance (%) | Null hits P5 | P50 | P95 | p(hits) |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for i, nh := range tc.NullHits {
			fmt.Fprintf(&b, "| %.2g | %.0f | %.0f | %.0f | %s |\n",
				nh.TolerancePct, nh.Quantiles.P5, nh.Quantiles.P50, nh.Quantiles.P95, tc.PHits[i].P.Display())
		}
		b.WriteString("\n")
	}

	writeCaveats(&b, r.Caveats)
	return b.String()
}

func writeCaveats(b *strings.Builder, caveats []string) {
	if len(caveats) == 0 {
		return
	}
	b.WriteString("## Caveats\n\n")
	for _, c := range caveats {
		fmt.Fprintf(b, "- %s\n", c)
	}
}
