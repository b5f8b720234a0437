package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"gqaudit/domain/audit"
)

// WriteHitRatesCSV writes the per-target tolerance table of a run
func WriteHitRatesCSV(w io.Writer, fits []audit.FitResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"target", "tolerance_pct", "count", "fraction"}); err != nil {
		return err
	}
	for _, fit := range fits {
		for _, h := range fit.Hits {
			record := []string{
				fit.Target.Key.String(),
				strconv.FormatFloat(h.TolerancePct, 'g', -1, 64),
				strconv.Itoa(h.Count),
				strconv.FormatFloat(h.Fraction, 'f', 6, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCalibrationCSV writes the null quantiles and p-values per
// target × tolerance
func WriteCalibrationCSV(w io.Writer, report audit.CalibrationReport) error {
	cw := csv.NewWriter(w)
	header := []string{"target", "tolerance_pct", "null_hits_p5", "null_hits_p50", "null_hits_p95", "p_hits", "p_best", "trials"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, tc := range report.Targets {
		for i, nh := range tc.NullHits {
			record := []string{
				tc.Target.Key.String(),
				strconv.FormatFloat(nh.TolerancePct, 'g', -1, 64),
				strconv.FormatFloat(nh.Quantiles.P5, 'f', 2, 64),
				strconv.FormatFloat(nh.Quantiles.P50, 'f', 2, 64),
				strconv.FormatFloat(nh.Quantiles.P95, 'f', 2, 64),
				tc.PHits[i].P.Display(),
				tc.PBest.Display(),
				strconv.Itoa(report.TrialCount),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
