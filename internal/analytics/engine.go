package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"salesinsight/pkg/contracts/domain"
)

const tracerName = "salesinsight/analytics"

// QueryRecorder receives query timings.
type QueryRecorder interface {
	RecordQuery(ctx context.Context, query string, elapsed time.Duration)
}

// Report holds every query result of one dataset.
type Report struct {
	RunID        string    `json:"run_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	Records      int       `json:"records"`
	DatedRecords int       `json:"dated_records"`
	Periods      int       `json:"periods"`

	TopProducts       []KeyedQuantity `json:"top_products"`
	PeakMonth         *PeriodQuantity `json:"peak_month"`
	RevenueByRegion   []KeyedRevenue  `json:"revenue_by_region"`
	Seasonality       []MonthQuantity `json:"seasonality"`
	MonthlyTotals     []PeriodRevenue `json:"monthly_totals"`
	RevenueByCategory []KeyedRevenue  `json:"revenue_by_category"`
	MonthlyGrowth     []GrowthPoint   `json:"monthly_growth"`
	CategoryRegion    Matrix          `json:"category_region"`
	ProductMonth      Matrix          `json:"product_month"`
}

// Tables renders the report as result tables, in TableNames order.
func (r *Report) Tables() []ResultTable {
	return []ResultTable{
		TopProductsTable(r.TopProducts),
		PeakSalesMonthTable(r.PeakMonth),
		RevenueTable(TableRevenueByRegion, LabelRegion, r.RevenueByRegion),
		SeasonalityTable(r.Seasonality),
		MonthlyTotalsTable(r.MonthlyTotals),
		RevenueTable(TableRevenueByCategory, LabelCategory, r.RevenueByCategory),
		MonthlyGrowthTable(r.MonthlyGrowth),
		r.CategoryRegion.Table(),
		r.ProductMonth.Table(),
	}
}

// Table returns one result table by name.
func (r *Report) Table(name string) (ResultTable, bool) {
	for _, t := range r.Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return ResultTable{}, false
}

// Engine runs every query over a canonical dataset. Independent queries run
// in parallel; growth waits for the monthly totals it is derived from.
type Engine struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder QueryRecorder
	now      func() time.Time
}

// NewEngine creates an engine. A nil logger falls back to slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger.With("component", "analytics"),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// WithRecorder attaches a query timing recorder.
func (e *Engine) WithRecorder(r QueryRecorder) *Engine {
	e.recorder = r
	return e
}

// Run computes the report. The dataset is only read. An empty dataset is not
// an error: PeakMonth stays nil and the other results are empty.
func (e *Engine) Run(ctx context.Context, ds *domain.Dataset) (*Report, error) {
	ctx, span := e.tracer.Start(ctx, "analytics.Run",
		trace.WithAttributes(attribute.Int("records", ds.Len())))
	defer span.End()

	report := &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: e.now().UTC(),
		Records:     ds.Len(),
	}
	ds.Each(func(r domain.SalesRecord) {
		if r.SaleDate.Known() {
			report.DatedRecords++
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return e.query(gctx, name, fn)
		})
	}

	run(TableTopProducts, func() error {
		report.TopProducts = TopProducts(ds)
		return nil
	})
	run(TablePeakSalesMonth, func() error {
		peak, err := PeakSalesMonth(ds)
		if errors.Is(err, ErrNoData) {
			e.logger.WarnContext(gctx, "No dated records, peak sales month is undefined")
			return nil
		}
		if err != nil {
			return err
		}
		report.PeakMonth = &peak
		return nil
	})
	run(TableRevenueByRegion, func() error {
		report.RevenueByRegion = RevenueByRegion(ds)
		return nil
	})
	run(TableSeasonality, func() error {
		report.Seasonality = Seasonality(ds)
		return nil
	})
	run(TableMonthlyTotals, func() error {
		report.MonthlyTotals = MonthlyTotals(ds)
		return e.query(gctx, TableMonthlyGrowth, func() error {
			report.MonthlyGrowth = MonthlyGrowth(report.MonthlyTotals)
			return nil
		})
	})
	run(TableRevenueByCategory, func() error {
		report.RevenueByCategory = RevenueByCategory(ds)
		return nil
	})
	run(TableCategoryRegionMatrix, func() error {
		report.CategoryRegion = CategoryRegionMatrix(ds)
		return nil
	})
	run(TableProductMonthMatrix, func() error {
		report.ProductMonth = ProductMonthMatrix(ds)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	report.Periods = len(report.MonthlyTotals)

	undefined := 0
	for _, p := range report.MonthlyGrowth {
		if !p.Growth.Defined() {
			undefined++
		}
	}
	if undefined > 0 {
		e.logger.WarnContext(ctx, "Growth undefined after zero-revenue periods",
			slog.Int("periods", undefined))
	}

	e.logger.InfoContext(ctx, "Report generated",
		slog.String("run_id", report.RunID),
		slog.Int("records", report.Records),
		slog.Int("dated_records", report.DatedRecords),
		slog.Int("periods", report.Periods))
	return report, nil
}

func (e *Engine) query(ctx context.Context, name string, fn func() error) error {
	ctx, span := e.tracer.Start(ctx, "analytics."+name)
	defer span.End()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
	}
	if e.recorder != nil {
		e.recorder.RecordQuery(ctx, name, elapsed)
	}
	e.logger.DebugContext(ctx, "Query done",
		slog.String("query", name),
		slog.Duration("duration", elapsed))
	return err
}
