package engine

import (
	"fmt"
	"math"
	"time"
)

// Risk thresholds. Expected sales below 30% of stock is high risk, below 70%
// (or 15 days or fewer on the shelf) is medium.
const (
	highRiskSalesRatio   = 0.3
	mediumRiskSalesRatio = 0.7
	mediumRiskDays       = 15
)

// EstimateRisk combines days-to-expiry, on-hand quantity and sales velocity
// into a risk tier and probability. Branches are evaluated top to bottom and
// the first match wins: the day-count check can promote a product with a
// healthy sales ratio to medium.
func EstimateRisk(p Product, now time.Time) RiskAssessment {
	days := DaysToExpiry(p.ExpiryDate, now)

	if days <= 0 {
		return RiskAssessment{
			Tier:        RiskHigh,
			Probability: 100,
			Reason:      "Product has already expired",
		}
	}

	// Zero stock cannot expire unsold, and would divide by zero below.
	if p.Quantity == 0 {
		return RiskAssessment{
			Tier:        RiskLow,
			Probability: 0,
			Reason:      "No stock on hand",
		}
	}

	quantity := float64(p.Quantity)
	expectedSales := p.SalesVelocity * float64(days)
	unsoldRisk := quantity - expectedSales
	unsoldPct := int(math.Round(unsoldRisk / quantity * 100))

	if expectedSales < quantity*highRiskSalesRatio {
		return RiskAssessment{
			Tier:        RiskHigh,
			Probability: min(95, unsoldPct),
			Reason: fmt.Sprintf("Only %d units expected to sell, %d units at risk",
				int(math.Round(expectedSales)), int(math.Round(unsoldRisk))),
		}
	}

	if expectedSales < quantity*mediumRiskSalesRatio || days <= mediumRiskDays {
		return RiskAssessment{
			Tier:        RiskMedium,
			Probability: min(70, unsoldPct),
			Reason: fmt.Sprintf("Moderate risk: %d days left with %g units/day sales rate",
				days, p.SalesVelocity),
		}
	}

	return RiskAssessment{
		Tier:        RiskLow,
		Probability: max(5, unsoldPct),
		Reason:      "Sales rate sufficient to clear stock before expiry",
	}
}
