package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"salesinsight/internal/analytics"
)

// Separator is the field delimiter of exported CSV files
const Separator = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	Separator rune
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes one result table with its header row
func WriteCSV(w io.Writer, table analytics.ResultTable, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator
	if cw.Comma == 0 {
		cw.Comma = Separator
	}

	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		for c := range record {
			record[c] = ""
			if c < len(row) {
				record[c] = formatCell(row[c])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
