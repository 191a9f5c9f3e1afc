package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salesinsight/internal/analytics"
	"salesinsight/internal/cleaning"
	apierrors "salesinsight/internal/errors"
	"salesinsight/internal/exporter"
)

// ReportHandler serves the aggregated sales report
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetReport)
	r.Post("/refresh", h.Refresh)
	r.Get("/cleaning", h.GetCleaning)
	r.Get("/growth", h.GetGrowth)
	r.Get("/peak-month", h.GetPeakMonth)
	r.Get("/{name}", h.GetTable)

	return r
}

// GetReport handles GET /api/reports
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Latest(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, exporter.NewDocument(snap.Report))
}

// RefreshResponse summarizes a regenerated report
type RefreshResponse struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	Periods   int       `json:"periods"`
	Generated time.Time `json:"generated_at"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

// Refresh handles POST /api/reports/refresh by re-reading the configured
// ledger
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Generate(r.Context(), "")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "report refreshed",
		slog.String("run_id", snap.RunID),
		slog.Int("records", snap.Report.Records))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RefreshResponse{
		RunID:     snap.RunID,
		Source:    snap.Source,
		Records:   snap.Report.Records,
		Periods:   snap.Report.Periods,
		Generated: snap.Report.GeneratedAt,
		ElapsedMS: snap.Elapsed.Milliseconds(),
	})
}

// CleaningResponse describes what the cleaning pipeline did to the ledger
type CleaningResponse struct {
	RunID     string              `json:"run_id"`
	Rows      int                 `json:"rows"`
	Missing   []ColumnCount       `json:"missing"`
	Malformed []ColumnCount       `json:"malformed"`
	Steps     []cleaning.StepStat `json:"steps"`
}

// ColumnCount is the number of affected cells in one column
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// GetCleaning handles GET /api/reports/cleaning
func (h *ReportHandler) GetCleaning(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Latest(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, CleaningResponse{
		RunID:     snap.RunID,
		Rows:      snap.Report.Records,
		Missing:   columnCounts(snap.Cleaning.Missing),
		Malformed: columnCounts(snap.Cleaning.Malformed),
		Steps:     snap.Cleaning.Steps,
	})
}

// GetGrowth handles GET /api/reports/growth. Undefined growth renders as null.
func (h *ReportHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Growth(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if points == nil {
		points = []analytics.GrowthPoint{}
	}
	render.JSON(w, r, points)
}

// GetPeakMonth handles GET /api/reports/peak-month
func (h *ReportHandler) GetPeakMonth(w http.ResponseWriter, r *http.Request) {
	peak, err := h.service.PeakMonth(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, peak)
}

// GetTable handles GET /api/reports/{name}
func (h *ReportHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	table, err := h.service.Table(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, exporter.NewJSONTable(table))
}

func columnCounts(m cleaning.MissingReport) []ColumnCount {
	out := make([]ColumnCount, 0, len(m))
	for column, count := range m {
		out = append(out, ColumnCount{Column: column, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Column < out[j].Column })
	return out
}
