package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// ProductLister is the product surface the report service reads from.
type ProductLister interface {
	List(ctx context.Context, category string) ([]*repository.Product, error)
}

// SaleReader is the sales surface the report service reads from.
type SaleReader interface {
	DailyTotals(ctx context.Context, days int) ([]*repository.DailySaleTotals, error)
	CategoryTotals(ctx context.Context, days int) ([]*repository.CategorySaleTotals, error)
}

// ReportService computes sales and wastage reports
type ReportService struct {
	products ProductLister
	sales    SaleReader
	logger   *logger.Logger
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(products ProductLister, sales SaleReader, log *logger.Logger) *ReportService {
	return &ReportService{
		products: products,
		sales:    sales,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the evaluation clock. Tests use this to pin time.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// TrendPoint is one day in a sales trend
type TrendPoint struct {
	Day     time.Time       `json:"day"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesTrend summarizes the trailing sales window
type SalesTrend struct {
	Days         int             `json:"days"`
	TotalUnits   int             `json:"total_units"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Points       []TrendPoint    `json:"points"`
}

// CategoryWastage is the projected loss for one product category
type CategoryWastage struct {
	Category      string          `json:"category"`
	Products      int             `json:"products"`
	UnitsAtRisk   int             `json:"units_at_risk"`
	EstimatedLoss decimal.Decimal `json:"estimated_loss"`
}

// Trend computes per-day sales totals over the trailing window. Money is
// summed as decimals so daily figures add up exactly.
func (s *ReportService) Trend(ctx context.Context, days int) (*SalesTrend, error) {
	if days <= 0 {
		days = 7
	}

	totals, err := s.sales.DailyTotals(ctx, days)
	if err != nil {
		return nil, err
	}

	trend := &SalesTrend{
		Days:         days,
		TotalRevenue: decimal.Zero,
		Points:       make([]TrendPoint, len(totals)),
	}
	for i, t := range totals {
		trend.Points[i] = TrendPoint{Day: t.Day, Units: t.Units, Revenue: t.Revenue}
		trend.TotalUnits += t.Units
		trend.TotalRevenue = trend.TotalRevenue.Add(t.Revenue)
	}
	return trend, nil
}

// CategorySales returns per-category sales totals for the trailing window
func (s *ReportService) CategorySales(ctx context.Context, days int) ([]*repository.CategorySaleTotals, error) {
	if days <= 0 {
		days = 7
	}
	return s.sales.CategoryTotals(ctx, days)
}

// Wastage projects per-category losses from stock unlikely to sell before
// expiry. Expired stock counts in full; at-risk stock counts the units the
// current sales rate will not clear.
func (s *ReportService) Wastage(ctx context.Context) ([]*CategoryWastage, error) {
	products, err := s.products.List(ctx, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	byCategory := map[string]*CategoryWastage{}

	for _, p := range products {
		w, ok := byCategory[p.Category]
		if !ok {
			w = &CategoryWastage{Category: p.Category, EstimatedLoss: decimal.Zero}
			byCategory[p.Category] = w
		}
		w.Products++

		days := engine.DaysToExpiry(p.ExpiryDate, now)
		atRisk := 0
		switch {
		case days <= 0:
			atRisk = p.Quantity
		default:
			expected := int(p.SalesVelocity * float64(days))
			if expected < p.Quantity {
				atRisk = p.Quantity - expected
			}
		}
		if atRisk == 0 {
			continue
		}

		w.UnitsAtRisk += atRisk
		cost := decimal.NewFromFloat(p.UnitCost)
		w.EstimatedLoss = w.EstimatedLoss.Add(cost.Mul(decimal.NewFromInt(int64(atRisk))))
	}

	result := make([]*CategoryWastage, 0, len(byCategory))
	for _, w := range byCategory {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EstimatedLoss.GreaterThan(result[j].EstimatedLoss)
	})
	return result, nil
}
