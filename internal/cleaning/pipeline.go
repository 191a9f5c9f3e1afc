package cleaning

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salesinsight/pkg/contracts/domain"
)

const tracerName = "salesinsight/cleaning"

// Step names as they appear in logs, spans and StepStat.
const (
	StepDeduplicate        = "deduplicate"
	StepImpute             = "impute_missing"
	StepCoerce             = "coerce_types"
	StepImputeMalformed    = "impute_malformed"
	StepDeduplicateCoerced = "deduplicate_coerced"
	StepFilterOutliers     = "filter_outliers"
	StepNormalizeColumns   = "normalize_columns"
)

// Rules are the thresholds and sentinels of a pipeline run.
type Rules struct {
	PriceCeiling decimal.Decimal
	Defaults     Defaults
	DateLayouts  []string
}

// DefaultRules returns the stock rules: a 10000 price ceiling, "Desconhecido"
// for a missing product and zero for missing quantity and price.
func DefaultRules() Rules {
	return Rules{
		PriceCeiling: decimal.NewFromInt(10000),
		Defaults: Defaults{
			UnknownProduct: "Desconhecido",
			Quantity:       0,
			Price:          decimal.Zero,
		},
		DateLayouts: DefaultDateLayouts,
	}
}

// Recorder receives pipeline measurements. infrastructure.Metrics implements
// it on top of the OpenTelemetry meter.
type Recorder interface {
	RecordCleaningStep(ctx context.Context, step string, rowsIn, rowsOut int, elapsed time.Duration)
	RecordImputed(ctx context.Context, column string, count int)
}

// StepStat describes one executed step.
type StepStat struct {
	Step     string        `json:"step"`
	RowsIn   int           `json:"rows_in"`
	RowsOut  int           `json:"rows_out"`
	Duration time.Duration `json:"duration_ns"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Table is the cleaned raw table, as written back to disk.
	Table *Table
	// Dataset is the canonical view handed to the aggregation queries.
	Dataset *domain.Dataset
	// Missing counts cells that were absent in the source, per column.
	Missing MissingReport
	// Malformed counts quantity and price cells that failed to parse and were
	// filled afterwards.
	Malformed MissingReport
	Steps     []StepStat
}

// Pipeline runs the cleaning steps in their documented order. It holds no
// state between runs and is safe for concurrent use.
type Pipeline struct {
	rules    Rules
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// NewPipeline creates a pipeline. A nil logger falls back to slog.Default().
func NewPipeline(logger *slog.Logger, rules Rules) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rules.DateLayouts) == 0 {
		rules.DateLayouts = DefaultDateLayouts
	}
	return &Pipeline{
		rules:  rules,
		logger: logger.With("component", "cleaning"),
		tracer: otel.Tracer(tracerName),
	}
}

// WithRecorder attaches a metrics recorder.
func (p *Pipeline) WithRecorder(r Recorder) *Pipeline {
	p.recorder = r
	return p
}

// Rules returns the rules the pipeline applies.
func (p *Pipeline) Rules() Rules {
	return p.rules
}

// Run cleans raw into a canonical dataset:
// dedupe, impute, coerce, outlier filter and column normalization.
//
// Coercion turns unparsable quantities and prices into the missing marker,
// so imputation runs again right after it, followed by a second dedupe pass
// for rows that only became equal once parsed or filled. Both repeats are
// no-ops on clean data. raw is never modified.
func (p *Pipeline) Run(ctx context.Context, raw *Table) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "cleaning.Run",
		trace.WithAttributes(attribute.Int("rows.in", raw.Len())))
	defer span.End()

	res := &Result{}
	var missing, malformed MissingReport

	steps := []struct {
		name string
		fn   func(*Table) *Table
	}{
		{StepDeduplicate, Deduplicate},
		{StepImpute, func(t *Table) *Table {
			out, report := ImputeMissing(t, p.rules.Defaults)
			missing = report
			return out
		}},
		{StepCoerce, func(t *Table) *Table { return CoerceTypes(t, p.rules.DateLayouts...) }},
		{StepImputeMalformed, func(t *Table) *Table {
			out, report := ImputeMissing(t, p.rules.Defaults)
			malformed = report.only(domain.LabelProduct, domain.LabelQuantitySold, domain.LabelUnitPrice)
			return out
		}},
		{StepDeduplicateCoerced, Deduplicate},
		{StepFilterOutliers, func(t *Table) *Table { return FilterOutliers(t, p.rules.PriceCeiling) }},
		{StepNormalizeColumns, NormalizeColumns},
	}

	current := raw
	if current == nil {
		current = &Table{}
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}
		next, stat := p.runStep(ctx, step.name, current, step.fn)
		res.Steps = append(res.Steps, stat)
		current = next
	}

	res.Table = current
	res.Missing = missing
	res.Malformed = malformed
	p.recordImputed(ctx, missing, malformed)

	p.logger.InfoContext(ctx, "Missing values before imputation",
		slog.Any("missing", missing),
		slog.Int("total", missing.Total()))
	if n := malformed.Total(); n > 0 {
		p.logger.WarnContext(ctx, "Malformed values replaced by defaults",
			slog.Any("malformed", malformed),
			slog.Int("total", n))
	}

	ds, err := Canonicalize(current, p.rules.PriceCeiling)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canonicalize failed")
		p.logger.ErrorContext(ctx, "Cleaned table is not canonical", slog.String("error", err.Error()))
		return nil, err
	}
	res.Dataset = ds

	span.SetAttributes(attribute.Int("rows.out", ds.Len()))
	p.logger.InfoContext(ctx, "Cleaning complete",
		slog.Int("rows_in", raw.Len()),
		slog.Int("rows_out", ds.Len()))
	return res, nil
}

func (p *Pipeline) runStep(ctx context.Context, name string, in *Table, fn func(*Table) *Table) (*Table, StepStat) {
	ctx, span := p.tracer.Start(ctx, "cleaning."+name)
	defer span.End()

	start := time.Now()
	out := fn(in)
	stat := StepStat{
		Step:     name,
		RowsIn:   in.Len(),
		RowsOut:  out.Len(),
		Duration: time.Since(start),
	}

	span.SetAttributes(
		attribute.Int("rows.in", stat.RowsIn),
		attribute.Int("rows.out", stat.RowsOut),
	)
	if p.recorder != nil {
		p.recorder.RecordCleaningStep(ctx, name, stat.RowsIn, stat.RowsOut, stat.Duration)
	}
	p.logger.DebugContext(ctx, "Cleaning step done",
		slog.String("step", name),
		slog.Int("rows_in", stat.RowsIn),
		slog.Int("rows_out", stat.RowsOut),
		slog.Duration("duration", stat.Duration))
	return out, stat
}

func (p *Pipeline) recordImputed(ctx context.Context, reports ...MissingReport) {
	if p.recorder == nil {
		return
	}
	for _, report := range reports {
		for _, column := range []string{domain.LabelProduct, domain.LabelQuantitySold, domain.LabelUnitPrice} {
			if n := report[column]; n > 0 {
				p.recorder.RecordImputed(ctx, column, n)
			}
		}
	}
}
