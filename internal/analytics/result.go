package analytics

import (
	"salesinsight/pkg/contracts/domain"
)

// Names of the result tables.
const (
	TableTopProducts          = "top_products"
	TablePeakSalesMonth       = "peak_sales_month"
	TableRevenueByRegion      = "revenue_by_region"
	TableSeasonality          = "seasonality"
	TableMonthlyTotals        = "monthly_totals"
	TableRevenueByCategory    = "revenue_by_category"
	TableMonthlyGrowth        = "monthly_growth"
	TableCategoryRegionMatrix = "category_region_matrix"
	TableProductMonthMatrix   = "product_month_matrix"
)

// TableNames lists every result table in report order.
var TableNames = []string{
	TableTopProducts,
	TablePeakSalesMonth,
	TableRevenueByRegion,
	TableSeasonality,
	TableMonthlyTotals,
	TableRevenueByCategory,
	TableMonthlyGrowth,
	TableCategoryRegionMatrix,
	TableProductMonthMatrix,
}

// Column labels of the result tables.
const (
	LabelYear       = "Ano"
	LabelMonth      = "Mês"
	LabelPeriod     = "Período"
	LabelSalesTotal = "Total de Vendas"
	LabelGrowthRate = "Crescimento Mensal (%)"
	LabelProduct    = domain.LabelProduct
	LabelCategory   = domain.LabelCategory
	LabelRegion     = domain.LabelRegion
	LabelQuantity   = domain.LabelQuantitySold
	LabelRevenue    = domain.LabelRevenue
)

// ResultTable is the named, ordered output of a query, the shape handed to the
// exporters and the presentation layer.
//
// Cells are string, int, int64, decimal.Decimal or GrowthRate.
type ResultTable struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (t ResultTable) Len() int {
	return len(t.Rows)
}

// Column returns the values of one column, top to bottom.
func (t ResultTable) Column(label string) ([]any, bool) {
	idx := -1
	for i, c := range t.Columns {
		if c == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		if idx < len(r) {
			out = append(out, r[idx])
		} else {
			out = append(out, nil)
		}
	}
	return out, true
}
