package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/internal/analytics"
	"salesinsight/internal/cleaning"
	"salesinsight/internal/config"
	apperrors "salesinsight/internal/errors"
	"salesinsight/internal/infrastructure"
)

// LedgerLoader reads a raw ledger
type LedgerLoader interface {
	Load(ctx context.Context, path string) (*cleaning.Table, error)
}

// Snapshot is one complete load, clean and analyze run
type Snapshot struct {
	RunID    string
	Source   string
	Cleaning *cleaning.Result
	Report   *analytics.Report
	Elapsed  time.Duration
}

// ReportService runs the ledger through cleaning and analytics and keeps the
// latest snapshot
type ReportService struct {
	loader   LedgerLoader
	pipeline *cleaning.Pipeline
	engine   *analytics.Engine
	input    string
	logger   *slog.Logger

	mu     sync.RWMutex
	latest *Snapshot
}

// RulesFromConfig converts the cleaning configuration to pipeline rules
func RulesFromConfig(cfg config.CleaningConfig) cleaning.Rules {
	rules := cleaning.DefaultRules()
	rules.PriceCeiling = decimal.NewFromFloat(cfg.PriceCeiling)
	rules.Defaults = cleaning.Defaults{
		UnknownProduct: cfg.UnknownProduct,
		Quantity:       cfg.DefaultQuantity,
		Price:          decimal.NewFromFloat(cfg.DefaultPrice),
	}
	if len(cfg.DateLayouts) > 0 {
		rules.DateLayouts = cfg.DateLayouts
	}
	return rules
}

// NewReportService wires a report service from configuration. metrics may
// be nil.
func NewReportService(cfg *config.Config, loader LedgerLoader, metrics *infrastructure.Metrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}

	pipeline := cleaning.NewPipeline(logger, RulesFromConfig(cfg.Cleaning))
	engine := analytics.NewEngine(logger)
	if metrics != nil {
		pipeline.WithRecorder(metrics)
		engine.WithRecorder(metrics)
	}

	logger.Info("ReportService initialized",
		slog.String("input", cfg.Paths.InputFile),
		slog.Float64("price_ceiling", cfg.Cleaning.PriceCeiling))

	return &ReportService{
		loader:   loader,
		pipeline: pipeline,
		engine:   engine,
		input:    cfg.Paths.InputFile,
		logger:   logger.With(slog.String("service", "report")),
	}
}

// Input returns the configured ledger path
func (s *ReportService) Input() string {
	return s.input
}

// Clean loads and cleans the ledger at path without running the queries.
// An empty path selects the configured ledger.
func (s *ReportService) Clean(ctx context.Context, path string) (*cleaning.Result, error) {
	if path == "" {
		path = s.input
	}
	ctx = infrastructure.EnsureTraceID(ctx)

	raw, err := s.loader.Load(ctx, path)
	if err != nil {
		s.logger.ErrorContext(ctx, "Ledger load failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	result, err := s.pipeline.Run(ctx, raw)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("cleaning %s: %w", path, err)
	}
	return result, nil
}

// Generate runs load, clean and analyze on the ledger at path and caches the
// snapshot. An empty path selects the configured ledger.
func (s *ReportService) Generate(ctx context.Context, path string) (*Snapshot, error) {
	if path == "" {
		path = s.input
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	start := time.Now()

	result, err := s.Clean(ctx, path)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.Run(ctx, result.Dataset)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("analyzing %s: %w", path, err)
	}
	report.RunID = runID

	snap := &Snapshot{
		RunID:    runID,
		Source:   path,
		Cleaning: result,
		Report:   report,
		Elapsed:  time.Since(start),
	}

	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Snapshot generated",
		slog.String("run_id", runID),
		slog.String("source", path),
		slog.Int("records", report.Records),
		slog.Duration("elapsed", snap.Elapsed))
	return snap, nil
}

// Latest returns the cached snapshot, generating one from the configured
// ledger on first use
func (s *ReportService) Latest(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.latest
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return s.Generate(ctx, "")
}

// Cached returns the cached snapshot without generating one
func (s *ReportService) Cached() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Table returns one result table of the latest snapshot
func (s *ReportService) Table(ctx context.Context, name string) (analytics.ResultTable, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return analytics.ResultTable{}, err
	}
	table, ok := snap.Report.Table(name)
	if !ok {
		return analytics.ResultTable{}, apperrors.NewNotFoundError("report table "+name).
			WithContext("available", analytics.TableNames)
	}
	return table, nil
}

// Growth returns the monthly growth series of the latest snapshot
func (s *ReportService) Growth(ctx context.Context) ([]analytics.GrowthPoint, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Report.MonthlyGrowth, nil
}

// PeakMonth returns the peak sales month of the latest snapshot. A ledger
// without dated records yields a NO_DATA error.
func (s *ReportService) PeakMonth(ctx context.Context) (analytics.PeriodQuantity, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return analytics.PeriodQuantity{}, err
	}
	if snap.Report.PeakMonth == nil {
		return analytics.PeriodQuantity{}, apperrors.NewNoDataError("no dated records", analytics.ErrNoData)
	}
	return *snap.Report.PeakMonth, nil
}
