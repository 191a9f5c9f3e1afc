package printer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/analytics"
	"salesinsight/internal/cleaning"
	"salesinsight/pkg/contracts/domain"
)

func plain(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestError(t *testing.T) {
	p, out, errOut := plain(t)

	err := p.Error("Ledger unreadable", "file does not exist", []string{"check --input"})
	require.Error(t, err)
	assert.Equal(t, "Ledger unreadable", err.Error())
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Ledger unreadable")
	assert.Contains(t, errOut.String(), "1. check --input")
}

func TestMessages(t *testing.T) {
	p, out, _ := plain(t)

	p.Success("saved %d rows", 4)
	p.Warning("growth undefined")
	p.Step("cleaning")

	assert.Equal(t, "✓ saved 4 rows\n⚠️  growth undefined\n→ cleaning\n", out.String())
}

func TestHead(t *testing.T) {
	table := cleaning.NewTable([]string{"Produto", "Quantidade Vendida"},
		cleaning.Row{cleaning.Text("Mesa"), cleaning.Integer(2)},
		cleaning.Row{cleaning.Text("Cadeira")},
		cleaning.Row{cleaning.Text("Sofá"), cleaning.Integer(1)},
	)

	tests := []struct {
		name  string
		n     int
		lines int
	}{
		{name: "fewer than available", n: 2, lines: 3},
		{name: "more than available", n: 10, lines: 4},
		{name: "zero", n: 0, lines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out, _ := plain(t)
			p.Head(table, tt.n)

			text := strings.TrimSpace(out.String())
			if tt.lines == 0 {
				assert.Empty(t, text)
				return
			}
			lines := strings.Split(text, "\n")
			assert.Len(t, lines, tt.lines)
			assert.True(t, strings.HasPrefix(lines[0], "Produto"))
			assert.True(t, strings.HasPrefix(lines[1], "Mesa"))
		})
	}
}

func TestMissing(t *testing.T) {
	p, out, _ := plain(t)
	p.Missing("Missing values", cleaning.MissingReport{"Produto": 2, "Receita": 0, "Categoria": 1})
	assert.Equal(t, "Missing values\n  Produto: 2\n  Categoria: 1\n", out.String())

	p, out, _ = plain(t)
	p.Missing("Missing values", cleaning.MissingReport{})
	assert.Contains(t, out.String(), "none")
}

func TestTable(t *testing.T) {
	p, out, _ := plain(t)
	p.Table(analytics.MonthlyGrowthTable([]analytics.GrowthPoint{
		{PeriodRevenue: analytics.PeriodRevenue{Period: domain.Period{Year: 2024, Month: time.January}, Total: decimal.Zero}, Growth: analytics.Growth(decimal.Zero)},
		{PeriodRevenue: analytics.PeriodRevenue{Period: domain.Period{Year: 2024, Month: time.February}, Total: decimal.NewFromInt(5)}, Growth: analytics.UndefinedGrowth()},
	}))

	text := out.String()
	assert.Contains(t, text, analytics.TableMonthlyGrowth)
	assert.Contains(t, text, "Feb 2024")
	assert.Contains(t, text, "5.00")
	assert.Contains(t, text, "n/a")

	p, out, _ = plain(t)
	p.Table(analytics.TopProductsTable(nil))
	assert.Contains(t, out.String(), "(no rows)")
}
