package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gqaudit/domain/audit"
)

// WriteRunWorkbook writes an xlsx workbook with one summary sheet and
// one hit-rate sheet per target. Sheet names are truncated to the xlsx
// 31-character limit.
func WriteRunWorkbook(path string, report audit.RunReport) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)

	headers := []interface{}{"Target", "Expression", "Value", "Error (%)", "Complexity"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(summary, cell, h)
	}
	for row, fit := range report.Fits {
		values := make([]interface{}, 0, 5)
		if fit.Defined && fit.Best != nil {
			values = append(values, fit.Target.Name, fit.Best.ExpressionText, fit.Best.Value, fit.Best.PercentError, fit.Best.Complexity)
		} else {
			values = append(values, fit.Target.Name, "undefined (empty pool)", "", "", "")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(summary, cell, v)
		}
	}

	for _, fit := range report.Fits {
		sheet := sheetName(fit.Target.Key.String())
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		f.SetCellValue(sheet, "A1", "Tolerance (%)")
		f.SetCellValue(sheet, "B1", "Count")
		f.SetCellValue(sheet, "C1", "Fraction")
		for row, h := range fit.Hits {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), h.TolerancePct)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), h.Count)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), h.Fraction)
		}
	}

	return f.SaveAs(path)
}

func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
