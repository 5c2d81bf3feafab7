package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/blogem/time-tracker/models"
)

const xlsxSheet = "Attendance"

// WriteXLSX writes the report as an Excel workbook and returns the number of data rows
func (s *reportService) WriteXLSX(ctx context.Context, filter models.ReportFilter, w io.Writer) (int, error) {
	report, err := s.GetReport(ctx, filter)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, models.CSVHeader); err != nil {
		return 0, err
	}
	for i, row := range report.Rows {
		if err := setRow(f, i+2, row.CSVRecord(report.EmployeeName)); err != nil {
			return 0, err
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "H", 18); err != nil {
		return 0, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write xlsx: %w", err)
	}

	return len(report.Rows), nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
