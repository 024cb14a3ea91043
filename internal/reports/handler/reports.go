package handler

import (
	"net/http"
	"strconv"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/reports/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// SalesTrend returns daily sales totals for the trailing window
func (h *ReportHandler) SalesTrend(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	trend, err := h.service.Trend(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, trend)
}

// CategorySales returns per-category sales totals
func (h *ReportHandler) CategorySales(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	totals, err := h.service.CategorySales(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, totals)
}

// Wastage returns projected per-category losses
func (h *ReportHandler) Wastage(w http.ResponseWriter, r *http.Request) {
	wastage, err := h.service.Wastage(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, wastage)
}
