package cleaning

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// Kind tags the content of a raw cell.
type Kind uint8

const (
	// KindNull is the missing marker: an empty source cell or a value that
	// failed to parse.
	KindNull Kind = iota
	KindText
	KindNumber
	KindInteger
	KindDate
	// KindUnknownDate marks a date cell that could not be parsed.
	KindUnknownDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	case KindUnknownDate:
		return "unknown_date"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one cell of a raw table. The zero Value is the missing marker.
type Value struct {
	kind Kind
	text string
	num  decimal.Decimal
	i    int64
	date time.Time
}

// Null returns the missing marker.
func Null() Value { return Value{} }

// Text wraps a string cell as read from the source.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a decimal cell.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// Integer wraps an integer cell.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Date wraps a parsed calendar date. The time of day is dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// UnknownDate returns the unparsable date marker.
func UnknownDate() Value { return Value{kind: KindUnknownDate} }

// Kind returns the tag of the cell.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the missing marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsText returns the string of a text cell.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsDecimal returns the numeric value of number and integer cells.
func (v Value) AsDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindInteger:
		return decimal.NewFromInt(v.i), true
	}
	return decimal.Zero, false
}

// AsInteger returns the value of an integer cell.
func (v Value) AsInteger() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// AsDate returns the date of a date cell.
func (v Value) AsDate() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders the cell the way the cleaned ledger file stores it.
// Missing and unknown-date cells render as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num.String()
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDate:
		return v.date.Format(domain.DateLayout)
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same kind and the same value.
// Numbers compare by value, so 100 and 100.00 are equal.
func (v Value) Equal(o Value) bool {
	return v.key() == o.key()
}

func (v Value) key() string {
	return strconv.Itoa(int(v.kind)) + ":" + v.String()
}

// Row is one raw record, positionally aligned with Table.Columns.
type Row []Value

// Table is the raw, not yet canonical, working dataset of the cleaning steps.
// Steps never modify a Table they receive; they return a new one.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table from column names and rows.
func NewTable(columns []string, rows ...Row) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone returns a deep copy of the table structure. Values are immutable and
// shared.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// ColumnIndex finds a column by name, ignoring surrounding whitespace on both
// sides. It returns -1 when the column is absent.
func (t *Table) ColumnIndex(name string) int {
	want := strings.TrimSpace(name)
	for i, c := range t.Columns {
		if strings.TrimSpace(c) == want {
			return i
		}
	}
	return -1
}

// Cell returns the value of column name in row i. Short rows read as missing.
func (t *Table) Cell(i int, name string) Value {
	col := t.ColumnIndex(name)
	if col < 0 || i < 0 || i >= len(t.Rows) {
		return Null()
	}
	return t.Rows[i].at(col)
}

func (r Row) at(col int) Value {
	if col < 0 || col >= len(r) {
		return Null()
	}
	return r[col]
}

// key identifies a row by the content of every cell.
func (r Row) key(width int) string {
	var b strings.Builder
	for c := 0; c < width; c++ {
		if c > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(r.at(c).key())
	}
	return b.String()
}

// mapColumn returns a copy of t where fn replaced every cell of one column.
// The copy shares nothing mutable with t. A missing column leaves the copy
// unchanged.
func mapColumn(t *Table, name string, fn func(Value) Value) *Table {
	out := t.Clone()
	col := out.ColumnIndex(name)
	if col < 0 {
		return out
	}
	for i, r := range out.Rows {
		for len(r) <= col {
			r = append(r, Null())
		}
		r[col] = fn(r[col])
		out.Rows[i] = r
	}
	return out
}
