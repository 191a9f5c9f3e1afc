// Package app wires the sales report service together and manages its
// lifecycle.
//
// NewApplication builds every component from a loaded configuration:
//
//	1. Structured logging and OpenTelemetry providers
//	2. Ledger reader, report and health services
//	3. Chi router with middleware and the HTTP handlers
//	4. The HTTP server
//
// Run serves until the context is cancelled or SIGINT/SIGTERM arrives and
// then shuts the server and telemetry down within the configured timeout.
package app
