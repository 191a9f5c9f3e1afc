// Package analytics computes the summary tables of a canonical sales dataset.
//
// Every query is a pure function of *domain.Dataset:
//
//	TopProducts        quantity per product, descending
//	PeakSalesMonth     (year, month) with the largest quantity
//	RevenueByRegion    revenue per region, descending
//	Seasonality        quantity per calendar month, Jan..Dec
//	MonthlyTotals      revenue per (year, month), chronological
//	RevenueByCategory  revenue per category, descending
//
// MonthlyGrowth derives the month-over-month percent change from
// MonthlyTotals. CategoryRegionMatrix and ProductMonthMatrix are the
// zero-filled revenue pivots behind the heatmaps.
//
// Records with an unknown sale date have no period. They count in the
// product, region and category queries and are left out of every
// period or month keyed one.
//
// Engine runs all of them for one dataset and collects a Report. Each result
// renders as a ResultTable for the exporters.
package analytics
