package cleaning

import (
	"strings"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// Deduplicate drops every row that is fully equal to an earlier row. The first
// occurrence survives and the order of survivors is kept.
func Deduplicate(t *Table) *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	width := len(t.Columns)
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		k := r.key(width)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, append(Row(nil), r...))
	}
	return out
}

// Defaults holds the fill values of the imputation step.
type Defaults struct {
	UnknownProduct string
	Quantity       int64
	Price          decimal.Decimal
}

// MissingReport counts missing cells per column, taken before filling.
type MissingReport map[string]int

// Total returns the number of missing cells over all columns.
func (m MissingReport) Total() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}

func (m MissingReport) only(columns ...string) MissingReport {
	out := make(MissingReport, len(columns))
	for _, c := range columns {
		out[c] = m[c]
	}
	return out
}

// ImputeMissing fills missing product, quantity and price cells with their
// defaults. The report covers every column of the input, not only the three
// filled ones. Blank text counts as missing.
func ImputeMissing(t *Table, d Defaults) (*Table, MissingReport) {
	if t == nil {
		return &Table{}, MissingReport{}
	}
	report := make(MissingReport, len(t.Columns))
	for c, name := range t.Columns {
		name = strings.TrimSpace(name)
		report[name] = 0
		for _, r := range t.Rows {
			if isMissing(r.at(c)) {
				report[name]++
			}
		}
	}

	out := mapColumn(t, domain.LabelProduct, fillWith(Text(d.UnknownProduct)))
	out = mapColumn(out, domain.LabelQuantitySold, fillWith(Integer(d.Quantity)))
	out = mapColumn(out, domain.LabelUnitPrice, fillWith(Number(d.Price)))
	return out, report
}

func fillWith(def Value) func(Value) Value {
	return func(v Value) Value {
		if isMissing(v) {
			return def
		}
		return v
	}
}

func isMissing(v Value) bool {
	if v.IsNull() {
		return true
	}
	s, ok := v.AsText()
	return ok && strings.TrimSpace(s) == ""
}

// FilterOutliers drops every row whose unit price is numeric and greater than
// ceiling. Text prices that parse as numbers are compared too, so the step
// works on uncoerced input. Missing or unparsable prices are kept.
func FilterOutliers(t *Table, ceiling decimal.Decimal) *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	col := t.ColumnIndex(domain.LabelUnitPrice)
	for _, r := range t.Rows {
		if col >= 0 {
			if price, ok := numericValue(r.at(col)); ok && price.GreaterThan(ceiling) {
				continue
			}
		}
		out.Rows = append(out.Rows, append(Row(nil), r...))
	}
	return out
}

// NormalizeColumns trims surrounding whitespace from the column names.
func NormalizeColumns(t *Table) *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = strings.TrimSpace(c)
	}
	return out
}
