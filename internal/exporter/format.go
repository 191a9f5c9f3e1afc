package exporter

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"salesinsight/internal/analytics"
)

// formatDecimal renders money with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatCell renders one result cell as CSV text
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case decimal.Decimal:
		return formatDecimal(c)
	case analytics.GrowthRate:
		return c.String()
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// jsonCell converts one result cell to a JSON value. Money becomes a number
// with two decimals rather than decimal's default quoted string.
func jsonCell(v any) any {
	switch c := v.(type) {
	case decimal.Decimal:
		return json.Number(formatDecimal(c))
	default:
		return c
	}
}
