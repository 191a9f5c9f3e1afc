package analytics

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// money encodes an amount as a JSON number with two decimals, the same form
// growth rates and exported tables use.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// MarshalJSON writes the revenue as a number.
func (k KeyedRevenue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key     string `json:"key"`
		Revenue money  `json:"revenue"`
	}{k.Key, money(k.Revenue)})
}

// MarshalJSON writes the total as a number.
func (p PeriodRevenue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period domain.Period `json:"period"`
		Total  money         `json:"total"`
	}{p.Period, money(p.Total)})
}

// MarshalJSON writes period, total and growth. It shadows the encoder
// promoted from PeriodRevenue.
func (g GrowthPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period domain.Period `json:"period"`
		Total  money         `json:"total"`
		Growth GrowthRate    `json:"growth"`
	}{g.Period, money(g.Total), g.Growth})
}

// MarshalJSON writes every cell as a number.
func (m Matrix) MarshalJSON() ([]byte, error) {
	var values [][]money
	if m.Values != nil {
		values = make([][]money, len(m.Values))
	}
	for i, row := range m.Values {
		values[i] = make([]money, len(row))
		for j, v := range row {
			values[i][j] = money(v)
		}
	}
	return json.Marshal(struct {
		Name     string    `json:"name"`
		RowLabel string    `json:"row_label"`
		Rows     []string  `json:"rows"`
		Columns  []string  `json:"columns"`
		Values   [][]money `json:"values"`
	}{m.Name, m.RowLabel, m.Rows, m.Columns, values})
}
