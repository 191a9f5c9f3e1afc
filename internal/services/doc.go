// Package services implements the business logic layer of salesinsight. It
// sits between the outer surfaces (CLI and HTTP handlers) and the cleaning
// and analytics packages.
//
// # Available Services
//
//	- ReportService: loads the ledger, cleans it and computes the report,
//	  caching the latest result
//	- HealthService: liveness and readiness checks
//
// Services take their dependencies through constructors and accept a
// *slog.Logger; a nil logger falls back to slog.Default().
package services
