package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gqaudit/adapters/excel"
	"gqaudit/domain/audit"
	"gqaudit/internal"
	"gqaudit/internal/errors"
	"gqaudit/ports"
)

// FileSink writes run and calibration artifacts under a report
// directory: markdown for reading, CSV/JSON for downstream tooling,
// and optionally an xlsx workbook of the hit-rate tables.
type FileSink struct {
	dir       string
	writeXLSX bool
	log       *internal.Logger
}

// NewFileSink creates a sink rooted at dir
func NewFileSink(dir string, writeXLSX bool, log *internal.Logger) *FileSink {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &FileSink{dir: dir, writeXLSX: writeXLSX, log: log}
}

// WriteRunReport writes the per-run artifacts and returns the paths written
func (s *FileSink) WriteRunReport(ctx context.Context, report audit.RunReport) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errors.StorageError("failed to create report directory", err)
	}
	prefix := filepath.Join(s.dir, fmt.Sprintf("run_%s", report.RunID))
	var paths []string

	mdPath := prefix + ".md"
	if err := os.WriteFile(mdPath, []byte(RenderRunMarkdown(report)), 0o644); err != nil {
		return nil, errors.StorageError("failed to write markdown report", err)
	}
	paths = append(paths, mdPath)

	csvPath := prefix + "_hits.csv"
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, errors.StorageError("failed to create hits CSV", err)
	}
	if err := WriteHitRatesCSV(f, report.Fits); err != nil {
		f.Close()
		return nil, errors.StorageError("failed to write hits CSV", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.StorageError("failed to close hits CSV", err)
	}
	paths = append(paths, csvPath)

	jsonPath := prefix + ".json"
	if err := writeJSON(jsonPath, report); err != nil {
		return nil, err
	}
	paths = append(paths, jsonPath)

	if s.writeXLSX {
		xlsxPath := prefix + ".xlsx"
		if err := excel.WriteRunWorkbook(xlsxPath, report); err != nil {
			return nil, errors.StorageError("failed to write workbook", err)
		}
		paths = append(paths, xlsxPath)
	}

	s.log.Info("run report written: %s", mdPath)
	return paths, nil
}

// WriteCalibrationReport writes the calibration artifacts and returns
// the paths written
func (s *FileSink) WriteCalibrationReport(ctx context.Context, report audit.CalibrationReport) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errors.StorageError("failed to create report directory", err)
	}
	prefix := filepath.Join(s.dir, fmt.Sprintf("calibration_%s", report.RunID))
	var paths []string

	mdPath := prefix + ".md"
	if err := os.WriteFile(mdPath, []byte(RenderCalibrationMarkdown(report)), 0o644); err != nil {
		return nil, errors.StorageError("failed to write markdown report", err)
	}
	paths = append(paths, mdPath)

	csvPath := prefix + ".csv"
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, errors.StorageError("failed to create calibration CSV", err)
	}
	if err := WriteCalibrationCSV(f, report); err != nil {
		f.Close()
		return nil, errors.StorageError("failed to write calibration CSV", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.StorageError("failed to close calibration CSV", err)
	}
	paths = append(paths, csvPath)

	jsonPath := prefix + ".json"
	if err := writeJSON(jsonPath, report); err != nil {
		return nil, err
	}
	paths = append(paths, jsonPath)

	s.log.Info("calibration report written: %s", mdPath)
	return paths, nil
}

func writeJSON(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.StorageError("failed to write JSON report", err)
	}
	return nil
}

var _ ports.ReportSinkPort = (*FileSink)(nil)
