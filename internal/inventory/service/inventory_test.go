package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

func newInventoryService() (*InventoryService, *fakeProductStore, *fakeAlertStore) {
	products := newFakeProductStore()
	alerts := newFakeAlertStore()
	log := logger.New("test", "test")
	svc := NewInventoryService(products, alerts, &recordingPublisher{}, log).
		WithClock(func() time.Time { return syncNow })
	return svc, products, alerts
}

func seedProduct(t *testing.T, products *fakeProductStore, sku string, quantity, daysToExpiry int, velocity float64) *repository.Product {
	t.Helper()
	p := &repository.Product{
		SKU:           sku,
		Name:          sku,
		Category:      "dairy",
		Quantity:      quantity,
		ExpiryDate:    syncNow.AddDate(0, 0, daysToExpiry),
		SalesVelocity: velocity,
		UnitCost:      1,
		UnitPrice:     2,
	}
	require.NoError(t, products.Create(context.Background(), p))
	return p
}

func TestCreateProduct_RejectsInvalidPayload(t *testing.T) {
	svc, _, _ := newInventoryService()

	_, err := svc.CreateProduct(context.Background(), &ProductRequest{
		Name:       "Missing SKU",
		ExpiryDate: "2025-02-01",
	})
	assert.Error(t, err)

	_, err = svc.CreateProduct(context.Background(), &ProductRequest{
		SKU:        "BAD-DATE",
		Name:       "Bad Date",
		ExpiryDate: "01/02/2025",
	})
	assert.Error(t, err)
}

func TestGetProduct_AttachesEvaluation(t *testing.T) {
	svc, products, _ := newInventoryService()
	p := seedProduct(t, products, "MILK-1L", 50, 5, 2)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, engine.StatusCritical, got.Evaluation.Status)
	assert.Equal(t, 5, got.Evaluation.DaysToExpiry)
	assert.Equal(t, engine.RiskHigh, got.Evaluation.Risk.Tier)
}

func TestSummary_CountsByStatus(t *testing.T) {
	svc, products, alerts := newInventoryService()
	expired := seedProduct(t, products, "OLD", 10, -2, 1)
	seedProduct(t, products, "SOON", 10, 4, 1)
	seedProduct(t, products, "FINE", 10, 90, 1)

	_, _, err := alerts.CreateIfAbsent(context.Background(), expired.ID, engine.SyncAlertExpired)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 1, summary.NearExpiry)
	assert.Equal(t, 1, summary.Safe)
	assert.Equal(t, int64(1), summary.OpenAlerts)
}

func TestKPIs_MatchEngineAggregate(t *testing.T) {
	svc, products, _ := newInventoryService()
	seedProduct(t, products, "A", 20, 10, 1)
	seedProduct(t, products, "B", 5, -1, 1)

	kpi, err := svc.KPIs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, kpi.TotalProducts)
	assert.Equal(t, 25, kpi.TotalStock)
	assert.Equal(t, 1, kpi.ExpiredItems)
}

func TestAcknowledgeAlert_RemovesFromOpenSet(t *testing.T) {
	svc, products, alerts := newInventoryService()
	p := seedProduct(t, products, "YOG", 5, 3, 1)

	alert, created, err := alerts.CreateIfAbsent(context.Background(), p.ID, engine.SyncAlertNearExpiry)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, svc.AcknowledgeAlert(context.Background(), alert.ID))

	open, err := svc.ListAlerts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, open)
}
