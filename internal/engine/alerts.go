package engine

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// AlertType identifies a derived alert candidate in batch mode.
type AlertType string

const (
	AlertExpiry AlertType = "expiry"
	AlertRisk   AlertType = "risk"
)

// SyncAlertType identifies the single alert a POS sync evaluation may raise.
type SyncAlertType string

const (
	SyncAlertExpired    SyncAlertType = "EXPIRED"
	SyncAlertNearExpiry SyncAlertType = "NEAR_EXPIRY"
	SyncAlertLowStock   SyncAlertType = "LOW_STOCK"
)

// LowStockThreshold is the on-hand quantity below which a sync raises a
// LOW_STOCK alert.
const LowStockThreshold = 10

// AlertCandidate is a freshly derived alert in batch mode. Candidates carry
// no dedup state; each call recomputes the current truth.
type AlertCandidate struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Message     string    `json:"message"`
	Severity    RiskTier  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// DeriveAlerts derives alert candidates from current inventory state: an
// expiry alert for products inside the critical window, and a risk alert for
// products unlikely to sell through within the warning window. Results are
// sorted newest first.
func DeriveAlerts(products []Product, now time.Time) []AlertCandidate {
	alerts := []AlertCandidate{}

	for _, p := range products {
		days := DaysToExpiry(p.ExpiryDate, now)
		expectedSales := p.SalesVelocity * float64(days)

		if days > 0 && days <= criticalDays {
			severity := RiskMedium
			if days <= 3 {
				severity = RiskHigh
			}
			alerts = append(alerts, AlertCandidate{
				ID:          fmt.Sprintf("alert-%s-expiry", p.ID),
				Type:        AlertExpiry,
				ProductID:   p.ID,
				ProductName: p.Name,
				Message:     fmt.Sprintf("%s expires in %d days", p.Name, days),
				Severity:    severity,
				Timestamp:   now,
			})
		}

		if days > 0 && days <= warningDays && expectedSales < float64(p.Quantity) {
			severity := RiskMedium
			if expectedSales < float64(p.Quantity)*0.5 {
				severity = RiskHigh
			}
			atRisk := p.Quantity - int(math.Floor(expectedSales))
			alerts = append(alerts, AlertCandidate{
				ID:          fmt.Sprintf("alert-%s-risk", p.ID),
				Type:        AlertRisk,
				ProductID:   p.ID,
				ProductName: p.Name,
				Message:     fmt.Sprintf("High risk: %d units may expire unsold", atRisk),
				Severity:    severity,
				Timestamp:   now,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	return alerts
}

// syncAlertRules is the ordered decision list for sync-mode alerts. Rules are
// evaluated in fixed order and the first match wins, so one evaluation pass
// can never raise two alert types.
var syncAlertRules = []struct {
	matches func(days, quantity int) bool
	result  SyncAlertType
}{
	{func(days, _ int) bool { return days <= 0 }, SyncAlertExpired},
	{func(days, _ int) bool { return days <= criticalDays }, SyncAlertNearExpiry},
	{func(_, quantity int) bool { return quantity < LowStockThreshold }, SyncAlertLowStock},
}

// SyncAlertFor determines the single alert type a sync evaluation raises for
// the given state, if any.
func SyncAlertFor(days, quantity int) (SyncAlertType, bool) {
	for _, rule := range syncAlertRules {
		if rule.matches(days, quantity) {
			return rule.result, true
		}
	}
	return "", false
}
