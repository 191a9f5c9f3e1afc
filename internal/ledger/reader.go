package ledger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesinsight/internal/cleaning"
	apperrors "salesinsight/internal/errors"
)

// Separator is the field delimiter of ledger text files
const Separator = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader loads ledgers from disk
type Reader struct {
	logger    *slog.Logger
	separator rune
}

// NewReader creates a ledger reader. A zero separator selects Separator.
func NewReader(logger *slog.Logger, separator rune) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if separator == 0 {
		separator = Separator
	}
	return &Reader{
		logger:    logger.With(slog.String("component", "ledger")),
		separator: separator,
	}
}

// Load reads the ledger at path. Files ending in .xlsx are read as
// workbooks, everything else as delimited text.
func (r *Reader) Load(ctx context.Context, path string) (*cleaning.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		table *cleaning.Table
		err   error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		table, err = r.loadWorkbook(path)
	} else {
		table, err = r.loadText(path)
	}
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Ledger loaded",
		slog.String("path", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))
	return table, nil
}

func (r *Reader) loadText(path string) (*cleaning.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot open ledger", err).WithContext("path", path)
	}
	defer f.Close()

	table, err := ReadCSV(f, r.separator)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}
	return table, nil
}

func (r *Reader) loadWorkbook(path string) (*cleaning.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot open ledger", err).WithContext("path", path)
	}
	defer f.Close()

	table, err := ReadWorkbook(f)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}
	return table, nil
}

// ReadCSV parses delimited ledger text. The first record is the header.
// A leading byte order mark is dropped and rows may be shorter or longer
// than the header. Empty lines are skipped; a line of bare separators is a
// row whose every field is missing.
func ReadCSV(src io.Reader, separator rune) (*cleaning.Table, error) {
	br := bufio.NewReader(src)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, apperrors.NewStorageError("cannot read ledger", err)
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError("ledger is empty", err)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("cannot read ledger header", err)
	}

	table := cleaning.NewTable(header)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("cannot read ledger row", err).
				WithContext("row", table.Len()+1)
		}
		table.Rows = append(table.Rows, toRow(record))
	}

	return table, nil
}

// ReadWorkbook parses the first sheet of an Excel workbook. The first row
// is the header and rows without any cell are skipped.
func ReadWorkbook(src io.Reader) (*cleaning.Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.NewParsingError("cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read sheet %q", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("ledger is empty", nil).WithContext("sheet", sheets[0])
	}

	table := cleaning.NewTable(rows[0])
	for _, record := range rows[1:] {
		if len(record) == 0 {
			continue
		}
		table.Rows = append(table.Rows, toRow(record))
	}
	return table, nil
}

// toRow reads every field as text; empty fields are missing
func toRow(record []string) cleaning.Row {
	row := make(cleaning.Row, len(record))
	for i, field := range record {
		if field == "" {
			row[i] = cleaning.Null()
			continue
		}
		row[i] = cleaning.Text(field)
	}
	return row
}
