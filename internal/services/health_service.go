package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"salesinsight/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	input     string
	reports   *ReportService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. reports may be nil.
func NewHealthService(version string, reports *ReportService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	hs := &HealthService{
		version:   version,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
	if reports != nil {
		hs.input = reports.Input()
	}
	return hs
}

// HealthCheck reports liveness
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	build := contracts.GetVersionInfo()
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"goroutines":     runtime.NumGoroutine(),
			"go_version":     build.GoVersion,
			"git_commit":     build.GitCommit,
			"build_time":     build.BuildTime,
		},
	}
}

// ReadinessCheck reports whether the ledger is readable and whether a
// report has been generated
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]ServiceHealth{},
	}

	if hs.input != "" {
		if _, err := os.Stat(hs.input); err != nil {
			status.Status = "not_ready"
			status.Services["ledger"] = ServiceHealth{Status: "unavailable", Message: err.Error()}
		} else {
			status.Services["ledger"] = ServiceHealth{Status: "ok"}
		}
	}

	if hs.reports != nil {
		if snap, ok := hs.reports.Cached(); ok {
			status.Services["report"] = ServiceHealth{Status: "ok", Message: "run " + snap.RunID}
		} else {
			status.Services["report"] = ServiceHealth{Status: "pending", Message: "no report generated yet"}
		}
	}

	if status.Status != "ready" {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}
	return status
}
