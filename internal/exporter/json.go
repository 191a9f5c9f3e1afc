package exporter

import (
	"encoding/json"
	"io"
	"time"

	"salesinsight/internal/analytics"
)

// Document is the JSON form of a report
type Document struct {
	RunID        string      `json:"run_id"`
	GeneratedAt  time.Time   `json:"generated_at"`
	Records      int         `json:"records"`
	DatedRecords int         `json:"dated_records"`
	Periods      int         `json:"periods"`
	Tables       []JSONTable `json:"tables"`
}

// JSONTable is one result table with cells converted for JSON
type JSONTable struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewJSONTable converts a result table
func NewJSONTable(t analytics.ResultTable) JSONTable {
	out := JSONTable{
		Name:    t.Name,
		Columns: t.Columns,
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = jsonCell(v)
		}
		out.Rows[i] = cells
	}
	return out
}

// NewDocument converts a whole report
func NewDocument(report *analytics.Report) Document {
	doc := Document{
		RunID:        report.RunID,
		GeneratedAt:  report.GeneratedAt.UTC(),
		Records:      report.Records,
		DatedRecords: report.DatedRecords,
		Periods:      report.Periods,
	}
	for _, t := range report.Tables() {
		doc.Tables = append(doc.Tables, NewJSONTable(t))
	}
	return doc
}

// WriteJSON writes the report document, indented
func WriteJSON(w io.Writer, report *analytics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(report))
}
