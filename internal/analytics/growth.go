package analytics

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUndefinedGrowth is returned by GrowthRate.Value when the previous period
// had zero revenue and the current one did not.
var ErrUndefinedGrowth = errors.New("growth rate undefined: previous period total is zero")

var hundred = decimal.NewFromInt(100)

// GrowthRate is a month-over-month percent change, or the undefined marker.
// The zero value is the undefined marker.
type GrowthRate struct {
	value   decimal.Decimal
	defined bool
}

// Growth returns a defined growth rate.
func Growth(pct decimal.Decimal) GrowthRate {
	return GrowthRate{value: pct, defined: true}
}

// UndefinedGrowth returns the marker for a change from zero to non-zero.
func UndefinedGrowth() GrowthRate {
	return GrowthRate{}
}

// Defined reports whether the rate has a value.
func (g GrowthRate) Defined() bool { return g.defined }

// Value returns the percent change, or ErrUndefinedGrowth.
func (g GrowthRate) Value() (decimal.Decimal, error) {
	if !g.defined {
		return decimal.Zero, ErrUndefinedGrowth
	}
	return g.value, nil
}

// String renders the rate with two decimals. The undefined marker renders as "".
func (g GrowthRate) String() string {
	if !g.defined {
		return ""
	}
	return g.value.StringFixed(2)
}

// MarshalJSON encodes the rate as a number, or null when undefined.
func (g GrowthRate) MarshalJSON() ([]byte, error) {
	if !g.defined {
		return []byte("null"), nil
	}
	return []byte(g.value.StringFixed(2)), nil
}

// GrowthPoint is one period of the monthly growth series.
type GrowthPoint struct {
	PeriodRevenue
	Growth GrowthRate `json:"growth"`
}

// MonthlyGrowth computes the percent change of each period against the one
// before it, in input order. Callers pass MonthlyTotals, which is sorted
// chronologically; growth is positional, not calendar arithmetic.
//
// The first period is always 0. When the previous total is zero, two zero
// periods in a row grow by 0 and a change from zero to anything else is
// UndefinedGrowth. Rates are rounded half away from zero to two decimals.
func MonthlyGrowth(totals []PeriodRevenue) []GrowthPoint {
	out := make([]GrowthPoint, len(totals))
	for i, cur := range totals {
		out[i] = GrowthPoint{PeriodRevenue: cur}
		if i == 0 {
			out[i].Growth = Growth(decimal.Zero)
			continue
		}
		out[i].Growth = growthBetween(totals[i-1].Total, cur.Total)
	}
	return out
}

func growthBetween(prev, cur decimal.Decimal) GrowthRate {
	if prev.IsZero() {
		if cur.IsZero() {
			return Growth(decimal.Zero)
		}
		return UndefinedGrowth()
	}
	pct := cur.Sub(prev).Mul(hundred).Div(prev)
	return Growth(pct.Round(2))
}

// MonthlyGrowthTable renders the growth series next to its monthly totals.
func MonthlyGrowthTable(points []GrowthPoint) ResultTable {
	t := ResultTable{
		Name:    TableMonthlyGrowth,
		Columns: []string{LabelPeriod, LabelSalesTotal, LabelGrowthRate},
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []any{p.Period.Label(), p.Total, p.Growth})
	}
	return t
}
