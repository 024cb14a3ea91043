package handler

import (
	"net/http"
	"strconv"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.InventoryService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  log,
	}
}

// Summary returns the headline dashboard counts
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}

// KPIs returns the aggregate inventory metrics
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	kpi, err := h.service.KPIs(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, kpi)
}

// StatusDistribution returns the status breakdown for charting
func (h *DashboardHandler) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.StatusDistribution(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, dist)
}

// DerivedAlerts returns alert candidates recomputed from current inventory
func (h *DashboardHandler) DerivedAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.DeriveAlerts(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 0 && limit < len(alerts) {
		alerts = alerts[:limit]
	}

	httputil.JSON(w, http.StatusOK, alerts)
}
