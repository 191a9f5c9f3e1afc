package cleaning

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// DefaultDateLayouts are tried in order when parsing sale dates. Ambiguous
// slash dates read month first.
var DefaultDateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// CoerceTypes parses the typed columns of the ledger.
//
//   - sale date: text becomes a date, or the unknown-date marker when no layout
//     matches; a missing date is unknown as well
//   - unit price and revenue: text becomes a number, or the missing marker
//   - quantity sold: text becomes an integer, or the missing marker
//
// Negative quantities and prices are malformed and become missing, as are
// quantities above domain.MaxQuantity. Cells that already carry the target
// kind are left alone, so the step is idempotent. With no layouts
// DefaultDateLayouts is used.
func CoerceTypes(t *Table, layouts ...string) *Table {
	if t == nil {
		return &Table{}
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	out := mapColumn(t, domain.LabelSaleDate, func(v Value) Value {
		switch v.Kind() {
		case KindDate, KindUnknownDate:
			return v
		}
		d, err := toDate(v, layouts)
		if err != nil {
			return UnknownDate()
		}
		return Date(d)
	})
	out = mapColumn(out, domain.LabelUnitPrice, func(v Value) Value {
		if v.Kind() == KindNumber {
			return v
		}
		d, err := toDecimal(v)
		if err != nil || d.IsNegative() {
			return Null()
		}
		return Number(d)
	})
	out = mapColumn(out, domain.LabelRevenue, func(v Value) Value {
		if v.Kind() == KindNumber {
			return v
		}
		d, err := toDecimal(v)
		if err != nil {
			return Null()
		}
		return Number(d)
	})
	out = mapColumn(out, domain.LabelQuantitySold, func(v Value) Value {
		n, err := toInteger(v)
		if err != nil || n < 0 || n > domain.MaxQuantity {
			return Null()
		}
		return Integer(n)
	})
	return out
}

// numericValue is the lenient read used by steps that must work before and
// after coercion.
func numericValue(v Value) (decimal.Decimal, bool) {
	d, err := toDecimal(v)
	return d, err == nil
}

// toDecimal attempts to convert a cell to a decimal
func toDecimal(v Value) (decimal.Decimal, error) {
	switch v.Kind() {
	case KindNumber, KindInteger:
		d, _ := v.AsDecimal()
		return d, nil
	case KindText:
		s, _ := v.AsText()
		cleaned := strings.TrimSpace(s)
		if cleaned == "" {
			return decimal.Zero, errors.New("empty string")
		}
		return decimal.NewFromString(cleaned)
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %s to number", v.Kind())
	}
}

// toInteger attempts to convert a cell to int64. Whole decimals such as "3.0"
// are accepted.
func toInteger(v Value) (int64, error) {
	if n, ok := v.AsInteger(); ok {
		return n, nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("cannot convert %s to integer", d)
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("integer %s out of range", d)
	}
	return d.IntPart(), nil
}

// toDate attempts to convert a cell to a calendar date
func toDate(v Value, layouts []string) (time.Time, error) {
	if d, ok := v.AsDate(); ok {
		return d, nil
	}
	s, ok := v.AsText()
	if !ok {
		return time.Time{}, fmt.Errorf("cannot convert %s to date", v.Kind())
	}
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, errors.New("empty string")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date from '%s'", cleaned)
}
