package http

import (
	"context"

	"salesinsight/internal/analytics"
	"salesinsight/internal/services"
)

// ReportServiceInterface is the part of services.ReportService the report
// handler uses
type ReportServiceInterface interface {
	Latest(ctx context.Context) (*services.Snapshot, error)
	Generate(ctx context.Context, path string) (*services.Snapshot, error)
	Table(ctx context.Context, name string) (analytics.ResultTable, error)
	Growth(ctx context.Context) ([]analytics.GrowthPoint, error)
	PeakMonth(ctx context.Context) (analytics.PeriodQuantity, error)
}

// HealthServiceInterface is the part of services.HealthService the health
// handler uses
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
}

var (
	_ ReportServiceInterface = (*services.ReportService)(nil)
	_ HealthServiceInterface = (*services.HealthService)(nil)
)
