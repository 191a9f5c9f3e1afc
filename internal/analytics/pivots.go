package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// Matrix is a two-dimensional revenue pivot, zero-filled for combinations
// with no sales. Row and column keys are sorted.
type Matrix struct {
	Name     string              `json:"name"`
	RowLabel string              `json:"row_label"`
	Rows     []string            `json:"rows"`
	Columns  []string            `json:"columns"`
	Values   [][]decimal.Decimal `json:"values"`
}

// At returns the cell at (row, column), or zero for unknown keys.
func (m Matrix) At(row, column string) decimal.Decimal {
	ri := sort.SearchStrings(m.Rows, row)
	if ri >= len(m.Rows) || m.Rows[ri] != row {
		return decimal.Zero
	}
	for ci, c := range m.Columns {
		if c == column {
			return m.Values[ri][ci]
		}
	}
	return decimal.Zero
}

// Table renders the matrix with the row key as the first column.
func (m Matrix) Table() ResultTable {
	t := ResultTable{Name: m.Name, Columns: append([]string{m.RowLabel}, m.Columns...)}
	for i, r := range m.Rows {
		row := make([]any, 0, len(m.Columns)+1)
		row = append(row, r)
		for _, v := range m.Values[i] {
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// CategoryRegionMatrix sums revenue per category (rows) and region (columns).
func CategoryRegionMatrix(ds *domain.Dataset) Matrix {
	cells := make(map[[2]string]decimal.Decimal)
	rows := make(map[string]struct{})
	cols := make(map[string]struct{})
	ds.Each(func(r domain.SalesRecord) {
		k := [2]string{r.Category, r.Region}
		cells[k] = cells[k].Add(r.Revenue)
		rows[r.Category] = struct{}{}
		cols[r.Region] = struct{}{}
	})
	colKeys := sortedKeys(cols)
	return buildMatrix(TableCategoryRegionMatrix, LabelCategory, sortedKeys(rows), colKeys, cells)
}

// ProductMonthMatrix sums revenue per product (rows) and calendar month number
// (columns, "1".."12"), collapsing years. Records with an unknown sale date are
// left out.
func ProductMonthMatrix(ds *domain.Dataset) Matrix {
	cells := make(map[[2]string]decimal.Decimal)
	rows := make(map[string]struct{})
	var months [13]bool
	ds.Each(func(r domain.SalesRecord) {
		m := r.SaleDate.Month()
		if m == 0 {
			return
		}
		k := [2]string{r.Product, strconv.Itoa(int(m))}
		cells[k] = cells[k].Add(r.Revenue)
		rows[r.Product] = struct{}{}
		months[m] = true
	})
	var colKeys []string
	for m := time.January; m <= time.December; m++ {
		if months[m] {
			colKeys = append(colKeys, strconv.Itoa(int(m)))
		}
	}
	return buildMatrix(TableProductMonthMatrix, LabelProduct, sortedKeys(rows), colKeys, cells)
}

func buildMatrix(name, rowLabel string, rows, cols []string, cells map[[2]string]decimal.Decimal) Matrix {
	m := Matrix{
		Name:     name,
		RowLabel: rowLabel,
		Rows:     rows,
		Columns:  cols,
		Values:   make([][]decimal.Decimal, len(rows)),
	}
	for i, r := range rows {
		m.Values[i] = make([]decimal.Decimal, len(cols))
		for j, c := range cols {
			if v, ok := cells[[2]string{r, c}]; ok {
				m.Values[i][j] = v
			} else {
				m.Values[i][j] = decimal.Zero
			}
		}
	}
	return m
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
