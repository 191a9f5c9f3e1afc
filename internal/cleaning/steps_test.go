package cleaning

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/pkg/contracts/domain"
)

// rawTable builds a table of text cells; "" becomes the missing marker, like
// the ledger reader does.
func rawTable(rows ...[]string) *Table {
	t := &Table{Columns: append([]string(nil), domain.LedgerColumns...)}
	for _, cells := range rows {
		r := make(Row, len(cells))
		for i, c := range cells {
			if c == "" {
				r[i] = Null()
			} else {
				r[i] = Text(c)
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func scenarioRow() []string {
	return []string{"2024-01-15", "ProductA", "Electronics", "2", "100", "North", "200"}
}

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name     string
		input    *Table
		expected int
	}{
		{
			name:     "exact duplicate collapses",
			input:    rawTable(scenarioRow(), scenarioRow()),
			expected: 1,
		},
		{
			name:     "empty table",
			input:    rawTable(),
			expected: 0,
		},
		{
			name:     "nil table",
			input:    nil,
			expected: 0,
		},
		{
			name: "rows differing in one field survive",
			input: rawTable(
				scenarioRow(),
				[]string{"2024-01-15", "ProductA", "Electronics", "2", "100", "South", "200"},
			),
			expected: 2,
		},
		{
			name: "missing marker equals missing marker",
			input: rawTable(
				[]string{"2024-01-15", "", "Electronics", "2", "100", "North", "200"},
				[]string{"2024-01-15", "", "Electronics", "2", "100", "North", "200"},
			),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Deduplicate(tt.input)
			assert.Equal(t, tt.expected, result.Len())
		})
	}
}

func TestDeduplicate_KeepsFirstOccurrenceOrder(t *testing.T) {
	a := scenarioRow()
	b := []string{"2024-02-01", "ProductB", "Home", "1", "50", "South", "50"}
	c := []string{"2024-03-01", "ProductC", "Toys", "4", "10", "East", "40"}
	input := rawTable(a, b, a, c, b)

	result := Deduplicate(input)

	require.Equal(t, 3, result.Len())
	assert.Equal(t, "ProductA", result.Cell(0, domain.LabelProduct).String())
	assert.Equal(t, "ProductB", result.Cell(1, domain.LabelProduct).String())
	assert.Equal(t, "ProductC", result.Cell(2, domain.LabelProduct).String())
	assert.Equal(t, 5, input.Len(), "input must not be modified")
}

func TestDeduplicate_Properties(t *testing.T) {
	inputs := []*Table{
		rawTable(),
		rawTable(scenarioRow()),
		rawTable(scenarioRow(), scenarioRow(), scenarioRow()),
		rawTable(
			scenarioRow(),
			[]string{"", "", "", "", "", "", ""},
			[]string{"", "", "", "", "", "", ""},
			[]string{"bad", "ProductA", "Electronics", "x", "y", "North", "z"},
			scenarioRow(),
		),
	}

	for _, input := range inputs {
		once := Deduplicate(input)
		twice := Deduplicate(once)

		assert.LessOrEqual(t, once.Len(), input.Len())
		assert.Equal(t, once, twice, "deduplicate must be idempotent")

		seen := map[string]bool{}
		for _, r := range once.Rows {
			k := r.key(len(once.Columns))
			assert.False(t, seen[k], "duplicate row survived")
			seen[k] = true
		}
	}
}

func TestImputeMissing(t *testing.T) {
	defaults := DefaultRules().Defaults
	input := rawTable(
		[]string{"2024-01-15", "", "Electronics", "", "", "North", "200"},
		[]string{"2024-01-16", "  ", "", "3", "10", "North", ""},
		scenarioRow(),
	)

	result, report := ImputeMissing(input, defaults)

	assert.Equal(t, 2, report[domain.LabelProduct])
	assert.Equal(t, 1, report[domain.LabelQuantitySold])
	assert.Equal(t, 1, report[domain.LabelUnitPrice])
	assert.Equal(t, 1, report[domain.LabelCategory])
	assert.Equal(t, 1, report[domain.LabelRevenue])
	assert.Equal(t, 0, report[domain.LabelSaleDate])
	assert.Equal(t, 6, report.Total())

	for i := range result.Rows {
		for _, col := range []string{domain.LabelProduct, domain.LabelQuantitySold, domain.LabelUnitPrice} {
			assert.False(t, isMissing(result.Cell(i, col)), "row %d column %s still missing", i, col)
		}
	}
	assert.Equal(t, "Desconhecido", result.Cell(0, domain.LabelProduct).String())
	qty, ok := result.Cell(0, domain.LabelQuantitySold).AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(0), qty)
	price, ok := result.Cell(0, domain.LabelUnitPrice).AsDecimal()
	require.True(t, ok)
	assert.True(t, price.IsZero())

	assert.True(t, result.Cell(1, domain.LabelCategory).IsNull(), "only designated fields are filled")
	assert.True(t, input.Cell(0, domain.LabelProduct).IsNull(), "input must not be modified")

	again, secondReport := ImputeMissing(result, defaults)
	assert.Equal(t, result, again)
	assert.Equal(t, 0, secondReport[domain.LabelProduct])
}

func TestCoerceTypes(t *testing.T) {
	input := rawTable(
		[]string{"2024-01-15", "A", "C", "2", "100.50", "N", "201"},
		[]string{"not a date", "A", "C", "abc", "cheap", "N", "x"},
		[]string{"01/31/2024", "A", "C", "3.0", "-5", "N", "10"},
		[]string{"", "A", "C", "-1", "7", "N", "7"},
	)

	result := CoerceTypes(input)

	d, ok := result.Cell(0, domain.LabelSaleDate).AsDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
	price, ok := result.Cell(0, domain.LabelUnitPrice).AsDecimal()
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("100.5").Equal(price))
	assert.Equal(t, KindInteger, result.Cell(0, domain.LabelQuantitySold).Kind())
	assert.Equal(t, KindNumber, result.Cell(0, domain.LabelRevenue).Kind())

	assert.Equal(t, KindUnknownDate, result.Cell(1, domain.LabelSaleDate).Kind())
	assert.True(t, result.Cell(1, domain.LabelQuantitySold).IsNull())
	assert.True(t, result.Cell(1, domain.LabelUnitPrice).IsNull())
	assert.True(t, result.Cell(1, domain.LabelRevenue).IsNull())

	d, ok = result.Cell(2, domain.LabelSaleDate).AsDate()
	require.True(t, ok)
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 31, d.Day())
	qty, ok := result.Cell(2, domain.LabelQuantitySold).AsInteger()
	require.True(t, ok)
	assert.Equal(t, int64(3), qty)
	assert.True(t, result.Cell(2, domain.LabelUnitPrice).IsNull(), "negative price is malformed")

	assert.Equal(t, KindUnknownDate, result.Cell(3, domain.LabelSaleDate).Kind())
	assert.True(t, result.Cell(3, domain.LabelQuantitySold).IsNull(), "negative quantity is malformed")

	assert.Equal(t, result, CoerceTypes(result), "coercion must be idempotent")
	assert.Equal(t, KindText, input.Cell(0, domain.LabelSaleDate).Kind(), "input must not be modified")
}

func TestCoerceTypes_QuantityRange(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		want     int64
		wantNull bool
	}{
		{name: "exponent beyond int64", quantity: "1e30", wantNull: true},
		{name: "one past int64 max", quantity: "9223372036854775808", wantNull: true},
		{name: "int64 max above bound", quantity: "9223372036854775807", wantNull: true},
		{name: "just above bound", quantity: "1000000001", wantNull: true},
		{name: "at bound", quantity: "1000000000", want: domain.MaxQuantity},
		{name: "whole exponent", quantity: "1e3", want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := rawTable([]string{"2024-01-15", "A", "C", tt.quantity, "1", "N", "1"})

			cell := CoerceTypes(input).Cell(0, domain.LabelQuantitySold)

			if tt.wantNull {
				assert.Equal(t, KindNull, cell.Kind())
				return
			}
			n, ok := cell.AsInteger()
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestCoerceTypes_CustomLayouts(t *testing.T) {
	input := rawTable([]string{"15/01/2024", "A", "C", "1", "1", "N", "1"})

	result := CoerceTypes(input, "02/01/2006")

	d, ok := result.Cell(0, domain.LabelSaleDate).AsDate()
	require.True(t, ok)
	assert.Equal(t, 15, d.Day())
}

func TestFilterOutliers(t *testing.T) {
	ceiling := decimal.NewFromInt(10000)
	tests := []struct {
		name     string
		input    *Table
		expected int
	}{
		{
			name: "price above ceiling removed",
			input: rawTable(
				scenarioRow(),
				[]string{"2024-01-15", "ProductB", "Electronics", "1", "15000", "North", "15000"},
			),
			expected: 1,
		},
		{
			name:     "price equal to ceiling kept",
			input:    rawTable([]string{"2024-01-15", "ProductB", "Electronics", "1", "10000", "North", "10000"}),
			expected: 1,
		},
		{
			name:     "unparsable and missing prices kept",
			input:    rawTable([]string{"2024-01-15", "B", "E", "1", "n/a", "N", "1"}, []string{"2024-01-15", "B", "E", "1", "", "N", "1"}),
			expected: 2,
		},
		{
			name:     "empty table",
			input:    rawTable(),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterOutliers(tt.input, ceiling)
			assert.Equal(t, tt.expected, result.Len())
			for i := range result.Rows {
				if p, ok := numericValue(result.Cell(i, domain.LabelUnitPrice)); ok {
					assert.True(t, p.LessThanOrEqual(ceiling))
				}
			}
		})
	}
}

func TestFilterOutliers_CoercedInput(t *testing.T) {
	input := CoerceTypes(rawTable(
		scenarioRow(),
		[]string{"2024-01-15", "ProductB", "Electronics", "1", "15000", "North", "15000"},
	))

	result := FilterOutliers(input, decimal.NewFromInt(10000))

	assert.Equal(t, input.Len()-1, result.Len())
}

func TestNormalizeColumns(t *testing.T) {
	input := &Table{Columns: []string{" Produto ", "Receita\t", "Categoria"}}

	result := NormalizeColumns(input)

	assert.Equal(t, []string{"Produto", "Receita", "Categoria"}, result.Columns)
	assert.Equal(t, " Produto ", input.Columns[0], "input must not be modified")
	assert.Equal(t, result, NormalizeColumns(result))
}

func TestSteps_FindUntrimmedColumns(t *testing.T) {
	input := rawTable([]string{"2024-01-15", "", "Electronics", "", "", "North", "200"})
	input.Columns[1] = "  " + domain.LabelProduct + " "

	result, report := ImputeMissing(input, DefaultRules().Defaults)

	assert.Equal(t, 1, report[domain.LabelProduct])
	assert.Equal(t, "Desconhecido", result.Cell(0, domain.LabelProduct).String())
}
