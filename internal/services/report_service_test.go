package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/analytics"
	"salesinsight/internal/cleaning"
	"salesinsight/internal/config"
	apperrors "salesinsight/internal/errors"
	"salesinsight/internal/ledger"
	"salesinsight/pkg/contracts/domain"
)

type fakeLoader struct {
	mu    sync.Mutex
	calls int
	table *cleaning.Table
	err   error
}

func (f *fakeLoader) Load(ctx context.Context, path string) (*cleaning.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.table.Clone(), nil
}

func textRow(cells ...string) cleaning.Row {
	row := make(cleaning.Row, len(cells))
	for i, c := range cells {
		if c == "" {
			row[i] = cleaning.Null()
			continue
		}
		row[i] = cleaning.Text(c)
	}
	return row
}

func rawLedger(rows ...cleaning.Row) *cleaning.Table {
	return cleaning.NewTable(append([]string(nil), domain.LedgerColumns...), rows...)
}

func sampleLedger() *cleaning.Table {
	return rawLedger(
		textRow("2024-01-05", "Mesa", "Casa", "2", "100", "Sul", "200"),
		textRow("2024-02-10", "Notebook", "Eletrônicos", "1", "3000", "Norte", "3000"),
		textRow("2024-01-05", "Mesa", "Casa", "2", "100", "Sul", "200"),
	)
}

func newService(t *testing.T, loader LedgerLoader) *ReportService {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.InputFile = "ledger.csv"
	return NewReportService(cfg, loader, nil, nil)
}

func TestRulesFromConfig(t *testing.T) {
	cfg := config.Default().Cleaning
	cfg.PriceCeiling = 2500
	cfg.UnknownProduct = "Unknown"
	cfg.DefaultQuantity = 1
	cfg.DefaultPrice = 9.5

	rules := RulesFromConfig(cfg)
	assert.True(t, decimal.NewFromInt(2500).Equal(rules.PriceCeiling))
	assert.Equal(t, "Unknown", rules.Defaults.UnknownProduct)
	assert.Equal(t, int64(1), rules.Defaults.Quantity)
	assert.True(t, decimal.RequireFromString("9.5").Equal(rules.Defaults.Price))
	assert.Equal(t, cleaning.DefaultDateLayouts, rules.DateLayouts)

	cfg.DateLayouts = []string{"02/01/2006"}
	assert.Equal(t, []string{"02/01/2006"}, RulesFromConfig(cfg).DateLayouts)
}

func TestReportService_Generate(t *testing.T) {
	loader := &fakeLoader{table: sampleLedger()}
	svc := newService(t, loader)

	snap, err := svc.Generate(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "ledger.csv", snap.Source)
	assert.NotEmpty(t, snap.RunID)
	assert.Equal(t, snap.RunID, snap.Report.RunID)
	assert.Equal(t, 2, snap.Cleaning.Dataset.Len())
	assert.Equal(t, 2, snap.Report.Records)

	growth, err := svc.Growth(context.Background())
	require.NoError(t, err)
	require.Len(t, growth, 2)
	first, err := growth[0].Growth.Value()
	require.NoError(t, err)
	assert.True(t, first.IsZero())
	second, err := growth[1].Growth.Value()
	require.NoError(t, err)
	assert.Equal(t, "1400.00", second.StringFixed(2))

	peak, err := svc.PeakMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2024, Month: 1}, peak.Period)
	assert.Equal(t, int64(2), peak.Quantity)
}

func TestReportService_LatestCaches(t *testing.T) {
	loader := &fakeLoader{table: sampleLedger()}
	svc := newService(t, loader)

	_, ok := svc.Cached()
	assert.False(t, ok)

	first, err := svc.Latest(context.Background())
	require.NoError(t, err)
	second, err := svc.Latest(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.calls)

	refreshed, err := svc.Generate(context.Background(), "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, refreshed.RunID)
	assert.Equal(t, 2, loader.calls)

	cached, ok := svc.Cached()
	require.True(t, ok)
	assert.Same(t, refreshed, cached)
}

func TestReportService_Table(t *testing.T) {
	svc := newService(t, &fakeLoader{table: sampleLedger()})

	table, err := svc.Table(context.Background(), analytics.TableTopProducts)
	require.NoError(t, err)
	products, ok := table.Column(analytics.LabelProduct)
	require.True(t, ok)
	assert.Equal(t, []any{"Mesa", "Notebook"}, products)

	_, err = svc.Table(context.Background(), "bogus")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestReportService_Errors(t *testing.T) {
	t.Run("loader failure", func(t *testing.T) {
		loadErr := apperrors.NewStorageError("cannot open ledger", os.ErrNotExist)
		svc := newService(t, &fakeLoader{err: loadErr})

		_, err := svc.Latest(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
		assert.ErrorIs(t, err, os.ErrNotExist)

		_, ok := svc.Cached()
		assert.False(t, ok)
	})

	t.Run("missing columns", func(t *testing.T) {
		table := cleaning.NewTable([]string{domain.LabelProduct}, textRow("Mesa"))
		svc := newService(t, &fakeLoader{table: table})

		_, err := svc.Generate(context.Background(), "")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("no dated records", func(t *testing.T) {
		table := rawLedger(textRow("not a date", "Mesa", "Casa", "2", "100", "Sul", "200"))
		svc := newService(t, &fakeLoader{table: table})

		_, err := svc.PeakMonth(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))
		assert.True(t, errors.Is(err, analytics.ErrNoData))
	})
}

func TestReportService_WithLedgerReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendas.csv")
	content := "Data da Venda;Produto;Categoria;Quantidade Vendida;Preço por Unidade;Região de Venda;Receita\n" +
		"2024-03-01;Mesa;Casa;1;800;Sul;800\n" +
		"2024-03-02;;Casa;;50000;Sul;\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc := newService(t, ledger.NewReader(nil, 0))
	result, err := svc.Clean(context.Background(), path)
	require.NoError(t, err)

	// the second row exceeds the price ceiling
	assert.Equal(t, 1, result.Dataset.Len())
	assert.Equal(t, 1, result.Missing[domain.LabelProduct])
}
