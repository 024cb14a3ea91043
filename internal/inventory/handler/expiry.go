package handler

import (
	"net/http"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// ExpiryHandler serves the expiry-risk table view
type ExpiryHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewExpiryHandler creates a new expiry handler
func NewExpiryHandler(svc *service.InventoryService, log *logger.Logger) *ExpiryHandler {
	return &ExpiryHandler{
		service: svc,
		logger:  log,
	}
}

// expiryRow is one row of the expiry-risk table
type expiryRow struct {
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Quantity        int             `json:"quantity"`
	DaysToExpiry    int             `json:"days_to_expiry"`
	Status          engine.Status   `json:"status"`
	RiskTier        engine.RiskTier `json:"risk_tier"`
	RiskProbability int             `json:"risk_probability"`
	Discount        int             `json:"discount"`
	Impact          float64         `json:"impact"`
	Reason          string          `json:"reason"`
}

// Table returns the full expiry-risk table, soonest expiry first
func (h *ExpiryHandler) Table(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	rows := make([]expiryRow, len(products))
	for i, p := range products {
		eval := p.Evaluation
		reason := eval.Discount.Reason
		if reason == "" {
			reason = eval.Risk.Reason
		}
		rows[i] = expiryRow{
			ProductID:       p.ID,
			SKU:             p.SKU,
			Name:            p.Name,
			Category:        p.Category,
			Quantity:        p.Quantity,
			DaysToExpiry:    eval.DaysToExpiry,
			Status:          eval.Status,
			RiskTier:        eval.Risk.Tier,
			RiskProbability: eval.Risk.Probability,
			Discount:        eval.Discount.Discount,
			Impact:          eval.Discount.Impact,
			Reason:          reason,
		}
	}

	httputil.JSON(w, http.StatusOK, rows)
}
