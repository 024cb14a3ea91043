// Package engine implements the expiry-risk scoring and discount
// recommendation core. Every function here is pure: the evaluation clock is
// always passed in explicitly, nothing reads the process clock or touches
// storage, and the same inputs always produce the same outputs.
package engine

import "time"

// Status is the coarse lifecycle classification of a product, derived from
// its expiry date and the evaluation clock. It is never persisted.
type Status string

const (
	StatusExpired  Status = "expired"
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusSafe     Status = "safe"
)

// RiskTier classifies the likelihood that stock will not sell through
// before expiry.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Product is the engine's read-only view of an inventory record. The engine
// never mutates quantity or sales velocity; it only derives state from them.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Category      string
	Quantity      int
	ExpiryDate    time.Time
	SalesVelocity float64 // trailing estimate, units sold per day
	UnitCost      float64
	UnitPrice     float64
}

// RiskAssessment is the derived risk classification for a single product.
type RiskAssessment struct {
	Tier        RiskTier `json:"tier"`
	Probability int      `json:"probability"` // [0,100]
	Reason      string   `json:"reason"`
}

// DiscountRecommendation is the derived markdown action for a single product.
type DiscountRecommendation struct {
	Discount int     `json:"discount"` // percentage
	Impact   float64 `json:"impact"`   // estimated monetary recovery
	Reason   string  `json:"reason"`
}

// Evaluation bundles everything derived from one product state.
type Evaluation struct {
	Status       Status                 `json:"status"`
	DaysToExpiry int                    `json:"days_to_expiry"`
	Risk         RiskAssessment         `json:"risk"`
	Discount     DiscountRecommendation `json:"discount"`
}

// Evaluate runs the full scoring pipeline for a single product.
func Evaluate(p Product, now time.Time) Evaluation {
	days, status := Classify(p.ExpiryDate, now)
	risk := EstimateRisk(p, now)
	return Evaluation{
		Status:       status,
		DaysToExpiry: days,
		Risk:         risk,
		Discount:     RecommendDiscount(p, status, risk, days),
	}
}
