package ports

import (
	"context"

	"gqaudit/domain/audit"
)

// ReportSinkPort persists run and calibration artifacts. Writing
// happens only after computation completes; it is never on the hot
// path of the pipeline.
type ReportSinkPort interface {
	// WriteRunReport writes the per-run artifacts (markdown, CSV, JSON)
	// and returns the paths written
	WriteRunReport(ctx context.Context, report audit.RunReport) ([]string, error)

	// WriteCalibrationReport writes the calibration artifacts and
	// returns the paths written
	WriteCalibrationReport(ctx context.Context, report audit.CalibrationReport) ([]string, error)
}
