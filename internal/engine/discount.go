package engine

import (
	"fmt"
	"math"
)

// Discount ladder for high-risk products, keyed by days left on the shelf.
const (
	highRiskDeepDiscount    = 50 // 3 days or fewer
	highRiskSteepDiscount   = 40 // 7 days or fewer
	highRiskDefaultDiscount = 30
	mediumRiskNearDiscount  = 20 // 15 days or fewer
	mediumRiskFarDiscount   = 10
	warningNudgeDiscount    = 5
)

// RecommendDiscount maps a product's status and risk onto a markdown
// percentage and an estimated recovery. A critical product with genuinely
// healthy sell-through falls through every branch to a zero discount; that
// silence is intended policy, not a missed case.
func RecommendDiscount(p Product, status Status, risk RiskAssessment, days int) DiscountRecommendation {
	if status == StatusExpired {
		return DiscountRecommendation{Discount: 0, Impact: 0, Reason: "Product expired - remove from shelf"}
	}

	if status == StatusSafe && risk.Tier == RiskLow {
		return DiscountRecommendation{Discount: 0, Impact: 0, Reason: "No discount needed - healthy sales trajectory"}
	}

	var discount int
	var reason string

	switch {
	case risk.Tier == RiskHigh:
		switch {
		case days <= 3:
			discount = highRiskDeepDiscount
		case days <= 7:
			discount = highRiskSteepDiscount
		default:
			discount = highRiskDefaultDiscount
		}
		reason = fmt.Sprintf("High stock (%d) + low sales (%g/day) + %d days left",
			p.Quantity, p.SalesVelocity, days)

	case risk.Tier == RiskMedium:
		if days <= mediumRiskDays {
			discount = mediumRiskNearDiscount
		} else {
			discount = mediumRiskFarDiscount
		}
		reason = fmt.Sprintf("Moderate risk with %d days remaining", days)

	case status == StatusWarning:
		discount = warningNudgeDiscount
		reason = "Preventive discount to accelerate sales"
	}

	return DiscountRecommendation{
		Discount: discount,
		Impact:   estimateImpact(p, discount, risk.Probability),
		Reason:   reason,
	}
}

// estimateImpact is the fraction of at-risk inventory value expected to be
// recovered by selling through at the discounted price, weighted by the
// probability the risk materializes. Rounded to the nearest whole unit at the
// final step only.
func estimateImpact(p Product, discount, probability int) float64 {
	potentialLoss := float64(p.Quantity) * p.UnitCost
	recoveryRate := float64(100-discount) / 100
	return math.Round(potentialLoss * recoveryRate * float64(probability) / 100)
}
