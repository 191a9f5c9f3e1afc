package exporter

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesinsight/internal/analytics"
)

// WriteWorkbook writes every table to its own sheet, named after the table.
// Money cells are stored as numbers, an undefined growth rate as an empty
// cell.
func WriteWorkbook(w io.Writer, tables []analytics.ResultTable) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}

		if err := writeSheet(f, t); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t analytics.ResultTable) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", t.Name, err)
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = workbookCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r, t.Name, err)
		}
	}
	return nil
}

func workbookCell(v any) any {
	switch c := v.(type) {
	case decimal.Decimal:
		return c.Round(2).InexactFloat64()
	case analytics.GrowthRate:
		pct, err := c.Value()
		if err != nil {
			return nil
		}
		return pct.InexactFloat64()
	default:
		return v
	}
}
