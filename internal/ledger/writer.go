package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"salesinsight/internal/cleaning"
	apperrors "salesinsight/internal/errors"
)

// WriteCSV writes t as delimited text in the ledger layout. Dates render as
// 2006-01-02 and missing cells as empty fields.
func WriteCSV(w io.Writer, t *cleaning.Table, separator rune) error {
	if separator == 0 {
		separator = Separator
	}
	cw := csv.NewWriter(w)
	cw.Comma = separator

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for c := range record {
			record[c] = ""
			if c < len(row) {
				record[c] = row[c].String()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Save writes the cleaned ledger to path, creating its directory
func Save(path string, t *cleaning.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("cannot create output directory", err).WithContext("path", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("cannot create cleaned ledger", err).WithContext("path", path)
	}

	if err := WriteCSV(f, t, Separator); err != nil {
		f.Close()
		return apperrors.NewStorageError("cannot write cleaned ledger", err).WithContext("path", path)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorageError("cannot write cleaned ledger", err).WithContext("path", path)
	}
	return nil
}
