package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"salesinsight/internal/analytics"
	apperrors "salesinsight/internal/errors"
)

// Supported export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Exporter writes reports to an output directory
type Exporter struct {
	dir     string
	formats []string
	bom     bool
	logger  *slog.Logger
}

// New creates an exporter writing formats into dir
func New(dir string, formats []string, bom bool, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		dir:     dir,
		formats: formats,
		bom:     bom,
		logger:  logger.With(slog.String("component", "exporter")),
	}
}

// Export writes the report in every configured format and returns the
// written paths. CSV produces one file per table, JSON and XLSX one file
// each.
func (e *Exporter) Export(ctx context.Context, report *analytics.Report) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("cannot create report directory", err).WithContext("dir", e.dir)
	}

	var written []string
	for _, format := range e.formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		var (
			paths []string
			err   error
		)
		switch format {
		case FormatCSV:
			paths, err = e.exportCSV(report)
		case FormatJSON:
			paths, err = e.writeFile("report.json", func(w io.Writer) error {
				return WriteJSON(w, report)
			})
		case FormatXLSX:
			paths, err = e.writeFile("report.xlsx", func(w io.Writer) error {
				return WriteWorkbook(w, report.Tables())
			})
		default:
			err = apperrors.NewConfigError(fmt.Sprintf("unsupported export format %q", format), nil)
		}
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}

	e.logger.InfoContext(ctx, "Report exported",
		slog.String("run_id", report.RunID),
		slog.String("dir", e.dir),
		slog.Int("files", len(written)))
	return written, nil
}

func (e *Exporter) exportCSV(report *analytics.Report) ([]string, error) {
	var paths []string
	for _, t := range report.Tables() {
		p, err := e.writeFile(t.Name+".csv", func(w io.Writer) error {
			return WriteCSV(w, t, CSVOptions{BOMPrefix: e.bom})
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, p...)
	}
	return paths, nil
}

// writeFile renders into memory first; a failed render writes nothing
func (e *Exporter) writeFile(name string, render func(io.Writer) error) ([]string, error) {
	path := filepath.Join(e.dir, name)

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, apperrors.NewStorageError("cannot render "+name, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, apperrors.NewStorageError("cannot write "+name, err).WithContext("path", path)
	}
	return []string{path}, nil
}
