package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
)

func TestDeriveAlerts_ExpiryWindow(t *testing.T) {
	products := []engine.Product{
		{ID: "1", Name: "Croissants", Quantity: 25, ExpiryDate: expiryIn(2), SalesVelocity: 20},
		{ID: "2", Name: "Butter", Quantity: 110, ExpiryDate: expiryIn(6), SalesVelocity: 40},
		{ID: "3", Name: "Canned Beans", Quantity: 220, ExpiryDate: expiryIn(200), SalesVelocity: 30},
	}

	alerts := engine.DeriveAlerts(products, now)

	require.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.Equal(t, engine.AlertExpiry, a.Type)
	}
}

func TestDeriveAlerts_ExpirySeverity(t *testing.T) {
	products := []engine.Product{
		{ID: "1", Name: "Milk", Quantity: 10, ExpiryDate: expiryIn(3), SalesVelocity: 50},
		{ID: "2", Name: "Bread", Quantity: 10, ExpiryDate: expiryIn(4), SalesVelocity: 50},
	}

	alerts := engine.DeriveAlerts(products, now)

	require.Len(t, alerts, 2)
	bySeverity := map[string]engine.RiskTier{}
	for _, a := range alerts {
		bySeverity[a.ProductName] = a.Severity
	}
	assert.Equal(t, engine.RiskHigh, bySeverity["Milk"])
	assert.Equal(t, engine.RiskMedium, bySeverity["Bread"])
}

func TestDeriveAlerts_RiskCandidates(t *testing.T) {
	// 60 units, 2/day, 20 days: 40 expected sales, 20 at risk
	products := []engine.Product{
		{ID: "8", Name: "Trail Mix 300g", Quantity: 60, ExpiryDate: expiryIn(20), SalesVelocity: 2},
	}

	alerts := engine.DeriveAlerts(products, now)

	require.Len(t, alerts, 1)
	assert.Equal(t, engine.AlertRisk, alerts[0].Type)
	assert.Equal(t, "High risk: 20 units may expire unsold", alerts[0].Message)
	// expected sales above half the stock: medium severity
	assert.Equal(t, engine.RiskMedium, alerts[0].Severity)
}

func TestDeriveAlerts_RiskSeverityHighBelowHalfSellThrough(t *testing.T) {
	// 100 units, 2/day, 20 days: 40 expected < 50
	products := []engine.Product{
		{ID: "1", Name: "Almond Milk", Quantity: 100, ExpiryDate: expiryIn(20), SalesVelocity: 2},
	}

	alerts := engine.DeriveAlerts(products, now)

	require.Len(t, alerts, 1)
	assert.Equal(t, engine.RiskHigh, alerts[0].Severity)
}

func TestDeriveAlerts_ExpiredProductsRaiseNoCandidates(t *testing.T) {
	products := []engine.Product{
		{ID: "1", Name: "Old Stock", Quantity: 50, ExpiryDate: expiryIn(-1), SalesVelocity: 0},
	}

	assert.Empty(t, engine.DeriveAlerts(products, now))
}

func TestDeriveAlerts_FreshlyComputedEachCall(t *testing.T) {
	products := []engine.Product{
		{ID: "1", Name: "Yogurt", Quantity: 80, ExpiryDate: expiryIn(5), SalesVelocity: 1},
	}

	first := engine.DeriveAlerts(products, now)
	second := engine.DeriveAlerts(products, now)

	assert.Equal(t, first, second)
}

func TestSyncAlertFor_PriorityOrdering(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		quantity int
		want     engine.SyncAlertType
		fires    bool
	}{
		{"expired wins over low stock", -1, 2, engine.SyncAlertExpired, true},
		{"expired at zero days", 0, 500, engine.SyncAlertExpired, true},
		{"near expiry wins over low stock", 3, 2, engine.SyncAlertNearExpiry, true},
		{"near expiry at exactly seven days", 7, 500, engine.SyncAlertNearExpiry, true},
		{"low stock below threshold", 30, 9, engine.SyncAlertLowStock, true},
		{"no alert at threshold", 30, 10, "", false},
		{"healthy product", 30, 500, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fires := engine.SyncAlertFor(tt.days, tt.quantity)
			assert.Equal(t, tt.fires, fires)
			assert.Equal(t, tt.want, got)
		})
	}
}
