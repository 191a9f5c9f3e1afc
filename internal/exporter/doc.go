// Package exporter writes analytics reports to disk.
//
// Three formats are supported:
//
// CSV: one semicolon separated file per result table, optionally prefixed
// with a UTF-8 BOM for Excel. Money renders with two decimals and an
// undefined growth rate renders as an empty field.
//
// JSON: a single document carrying the run id, the generation time and
// every table. Money renders as numbers and an undefined growth rate as null.
//
// XLSX: a single workbook with one sheet per table.
//
// Example usage:
//
//	exp := exporter.New("data/reports", []string{"csv", "json"}, false, logger)
//	files, err := exp.Export(ctx, report)
package exporter
