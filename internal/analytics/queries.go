package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// ErrNoData is returned by queries that have no defined answer on an empty
// dataset, such as the peak sales month.
var ErrNoData = errors.New("no data")

// KeyedQuantity is a group key with its total quantity sold.
type KeyedQuantity struct {
	Key      string `json:"key"`
	Quantity int64  `json:"quantity"`
}

// KeyedRevenue is a group key with its total revenue.
type KeyedRevenue struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

// PeriodQuantity is the quantity sold in one (year, month).
type PeriodQuantity struct {
	Period   domain.Period `json:"period"`
	Quantity int64         `json:"quantity"`
}

// MonthQuantity is the quantity sold in one calendar month across all years.
type MonthQuantity struct {
	Month    time.Month `json:"month"`
	Quantity int64      `json:"quantity"`
}

// PeriodRevenue is the revenue of one (year, month).
type PeriodRevenue struct {
	Period domain.Period   `json:"period"`
	Total  decimal.Decimal `json:"total"`
}

// TopProducts sums quantity sold per product, largest first. Ties are ordered
// by product name.
func TopProducts(ds *domain.Dataset) []KeyedQuantity {
	sums := make(map[string]int64)
	ds.Each(func(r domain.SalesRecord) {
		sums[r.Product] += r.QuantitySold
	})
	out := make([]KeyedQuantity, 0, len(sums))
	for k, v := range sums {
		out = append(out, KeyedQuantity{Key: k, Quantity: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// PeakSalesMonth returns the (year, month) with the largest quantity sold.
// Ties go to the earliest period. Records with an unknown sale date belong to
// no period; when no record has a known date the result is ErrNoData.
func PeakSalesMonth(ds *domain.Dataset) (PeriodQuantity, error) {
	periods := quantityByPeriod(ds)
	if len(periods) == 0 {
		return PeriodQuantity{}, ErrNoData
	}
	peak := periods[0]
	for _, p := range periods[1:] {
		if p.Quantity > peak.Quantity {
			peak = p
		}
	}
	return peak, nil
}

func quantityByPeriod(ds *domain.Dataset) []PeriodQuantity {
	sums := make(map[domain.Period]int64)
	ds.Each(func(r domain.SalesRecord) {
		if p, ok := r.SaleDate.Period(); ok {
			sums[p] += r.QuantitySold
		}
	})
	out := make([]PeriodQuantity, 0, len(sums))
	for p, q := range sums {
		out = append(out, PeriodQuantity{Period: p, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

// RevenueByRegion sums revenue per region, largest first. Ties are ordered by
// region name.
func RevenueByRegion(ds *domain.Dataset) []KeyedRevenue {
	return revenueBy(ds, func(r domain.SalesRecord) string { return r.Region })
}

// RevenueByCategory sums revenue per category, largest first. Ties are ordered
// by category name.
func RevenueByCategory(ds *domain.Dataset) []KeyedRevenue {
	return revenueBy(ds, func(r domain.SalesRecord) string { return r.Category })
}

func revenueBy(ds *domain.Dataset, key func(domain.SalesRecord) string) []KeyedRevenue {
	sums := make(map[string]decimal.Decimal)
	ds.Each(func(r domain.SalesRecord) {
		k := key(r)
		sums[k] = sums[k].Add(r.Revenue)
	})
	out := make([]KeyedRevenue, 0, len(sums))
	for k, v := range sums {
		out = append(out, KeyedRevenue{Key: k, Revenue: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Seasonality sums quantity sold per calendar month, collapsing years, in
// month order. Only months that have sales appear.
func Seasonality(ds *domain.Dataset) []MonthQuantity {
	var sums [13]int64
	var seen [13]bool
	ds.Each(func(r domain.SalesRecord) {
		if m := r.SaleDate.Month(); m != 0 {
			sums[m] += r.QuantitySold
			seen[m] = true
		}
	})
	var out []MonthQuantity
	for m := time.January; m <= time.December; m++ {
		if seen[m] {
			out = append(out, MonthQuantity{Month: m, Quantity: sums[m]})
		}
	}
	return out
}

// MonthlyTotals sums revenue per (year, month) in chronological order.
func MonthlyTotals(ds *domain.Dataset) []PeriodRevenue {
	sums := make(map[domain.Period]decimal.Decimal)
	ds.Each(func(r domain.SalesRecord) {
		if p, ok := r.SaleDate.Period(); ok {
			sums[p] = sums[p].Add(r.Revenue)
		}
	})
	out := make([]PeriodRevenue, 0, len(sums))
	for p, v := range sums {
		out = append(out, PeriodRevenue{Period: p, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

// TopProductsTable renders TopProducts as a result table.
func TopProductsTable(rows []KeyedQuantity) ResultTable {
	t := ResultTable{Name: TableTopProducts, Columns: []string{LabelProduct, LabelQuantity}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.Quantity})
	}
	return t
}

// PeakSalesMonthTable renders the peak month. A nil peak gives an empty table.
func PeakSalesMonthTable(peak *PeriodQuantity) ResultTable {
	t := ResultTable{Name: TablePeakSalesMonth, Columns: []string{LabelYear, LabelMonth, LabelQuantity}}
	if peak != nil {
		t.Rows = append(t.Rows, []any{peak.Period.Year, int(peak.Period.Month), peak.Quantity})
	}
	return t
}

// RevenueTable renders a revenue ranking under the given name and key label.
func RevenueTable(name, keyLabel string, rows []KeyedRevenue) ResultTable {
	t := ResultTable{Name: name, Columns: []string{keyLabel, LabelRevenue}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.Revenue})
	}
	return t
}

// SeasonalityTable renders Seasonality with months as "Jan".."Dec".
func SeasonalityTable(rows []MonthQuantity) ResultTable {
	t := ResultTable{Name: TableSeasonality, Columns: []string{LabelMonth, LabelQuantity}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{domain.MonthAbbr(r.Month), r.Quantity})
	}
	return t
}

// MonthlyTotalsTable renders MonthlyTotals with "Mon YYYY" period labels.
func MonthlyTotalsTable(rows []PeriodRevenue) ResultTable {
	t := ResultTable{Name: TableMonthlyTotals, Columns: []string{LabelPeriod, LabelSalesTotal}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Period.Label(), r.Total})
	}
	return t
}
