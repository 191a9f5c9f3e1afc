// Package http implements the HTTP handlers of the sales report API.
//
// Handlers stay thin: they read path parameters, call the report or health
// service and render the result as JSON. Failures are rendered as RFC 7807
// problem details through the shared errors.ErrorHandler.
//
// Routes:
//
//	GET  /api/health
//	GET  /api/health/ready
//	GET  /api/reports
//	POST /api/reports/refresh
//	GET  /api/reports/cleaning
//	GET  /api/reports/growth
//	GET  /api/reports/peak-month
//	GET  /api/reports/{name}
package http
