package engine

import (
	"math"
	"time"
)

// KPI is the fleet-level summary over the full inventory.
type KPI struct {
	TotalProducts           int     `json:"total_products"`
	TotalStock              int     `json:"total_stock"`
	ExpiredItems            int     `json:"expired_items"`
	NearExpiryItems         int     `json:"near_expiry_items"`
	EstimatedLoss           float64 `json:"estimated_loss"`
	ProductsNeedingDiscount int     `json:"products_needing_discount"`
}

// Distribution counts products per lifecycle status.
type Distribution struct {
	Safe     int `json:"safe"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
	Expired  int `json:"expired"`
}

// Aggregate folds the scoring pipeline over the full inventory in a single
// pass. Summation is associative, so the result has no ordering dependency.
//
// Expired products contribute their full stock value to the estimated loss;
// critical and warning products contribute the expected unsold units at cost;
// safe products contribute nothing. Near-expiry counts critical plus warning,
// never expired.
func Aggregate(products []Product, now time.Time) KPI {
	kpi := KPI{TotalProducts: len(products)}

	for _, p := range products {
		kpi.TotalStock += p.Quantity

		days, status := Classify(p.ExpiryDate, now)

		switch status {
		case StatusExpired:
			kpi.ExpiredItems++
			kpi.EstimatedLoss += float64(p.Quantity) * p.UnitCost
		case StatusCritical, StatusWarning:
			kpi.NearExpiryItems++
			unsold := math.Max(0, float64(p.Quantity)-p.SalesVelocity*float64(days))
			kpi.EstimatedLoss += unsold * p.UnitCost
		}

		risk := EstimateRisk(p, now)
		if RecommendDiscount(p, status, risk, days).Discount > 0 {
			kpi.ProductsNeedingDiscount++
		}
	}

	return kpi
}

// StatusDistribution counts products in each lifecycle status.
func StatusDistribution(products []Product, now time.Time) Distribution {
	var dist Distribution

	for _, p := range products {
		switch _, status := Classify(p.ExpiryDate, now); status {
		case StatusSafe:
			dist.Safe++
		case StatusWarning:
			dist.Warning++
		case StatusCritical:
			dist.Critical++
		case StatusExpired:
			dist.Expired++
		}
	}

	return dist
}
