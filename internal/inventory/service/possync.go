package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// POSSyncService ingests inventory snapshots pushed by point-of-sale systems
type POSSyncService struct {
	productStore ProductStore
	alertStore   AlertStore
	saleStore    SaleStore
	publisher    EventPublisher
	logger       *logger.Logger
	now          func() time.Time
}

// NewPOSSyncService creates a new POS sync service
func NewPOSSyncService(
	productStore ProductStore,
	alertStore AlertStore,
	saleStore SaleStore,
	publisher EventPublisher,
	log *logger.Logger,
) *POSSyncService {
	return &POSSyncService{
		productStore: productStore,
		alertStore:   alertStore,
		saleStore:    saleStore,
		publisher:    publisher,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the evaluation clock. Tests use this to pin time.
func (s *POSSyncService) WithClock(now func() time.Time) *POSSyncService {
	s.now = now
	return s
}

// SyncItem is one product snapshot in a POS sync batch
type SyncItem struct {
	SKU           string  `json:"sku" validate:"required"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	ExpiryDate    string  `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	SalesVelocity float64 `json:"sales_velocity" validate:"gte=0"`
	UnitCost      float64 `json:"unit_cost" validate:"gte=0"`
	UnitPrice     float64 `json:"unit_price" validate:"required,gte=0"`
}

// SyncItemError records why one item in a batch was rejected
type SyncItemError struct {
	SKU     string `json:"sku"`
	Message string `json:"message"`
}

// SyncResult summarizes a processed batch
type SyncResult struct {
	ProcessedCount int             `json:"processed_count"`
	AlertCount     int             `json:"alert_count"`
	Errors         []SyncItemError `json:"errors"`
}

// ProcessSyncBatch upserts each item by SKU, re-evaluates its expiry state
// against the server clock, and raises at most one alert per item. Items are
// independent: a bad item is recorded in the result and the rest of the
// batch continues.
func (s *POSSyncService) ProcessSyncBatch(ctx context.Context, items []SyncItem) (*SyncResult, error) {
	result := &SyncResult{Errors: []SyncItemError{}}
	now := s.now()

	for _, item := range items {
		if err := s.processItem(ctx, item, now, result); err != nil {
			result.Errors = append(result.Errors, SyncItemError{
				SKU:     item.SKU,
				Message: err.Error(),
			})
		}
	}

	s.publisher.PublishSyncCompleted(ctx, result.ProcessedCount, len(result.Errors), result.AlertCount)

	s.logger.Info().
		Int("processed", result.ProcessedCount).
		Int("errors", len(result.Errors)).
		Int("alerts", result.AlertCount).
		Msg("pos sync batch processed")

	return result, nil
}

func (s *POSSyncService) processItem(ctx context.Context, item SyncItem, now time.Time, result *SyncResult) error {
	if err := httputil.Validate(&item); err != nil {
		return err
	}

	expiry, err := time.Parse("2006-01-02", item.ExpiryDate)
	if err != nil {
		return err
	}

	product := &repository.Product{
		SKU:           item.SKU,
		Name:          item.Name,
		Category:      item.Category,
		Quantity:      item.Quantity,
		ExpiryDate:    expiry,
		SalesVelocity: item.SalesVelocity,
		UnitCost:      item.UnitCost,
		UnitPrice:     item.UnitPrice,
	}
	if product.Name == "" {
		product.Name = item.SKU
	}

	created, err := s.productStore.UpsertBySKU(ctx, product)
	if err != nil {
		return err
	}
	s.publisher.PublishProductUpserted(ctx, product, created)

	// Expiry state is always recomputed against the server clock, never
	// trusted from the POS payload.
	days := engine.DaysToExpiry(product.ExpiryDate, now)
	if alertType, ok := engine.SyncAlertFor(days, product.Quantity); ok {
		alert, raised, err := s.alertStore.CreateIfAbsent(ctx, product.ID, alertType)
		if err != nil {
			return err
		}
		if raised {
			result.AlertCount++
			s.publisher.PublishAlertCreated(ctx, alert, product.Name, product.SKU)
		}
	}

	result.ProcessedCount++
	return nil
}

// SaleItem is one sale line reported by a POS terminal
type SaleItem struct {
	SKU       string  `json:"sku" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gte=0"`
}

// RecordSale stores a sale line and draws the sold units down from stock
func (s *POSSyncService) RecordSale(ctx context.Context, item SaleItem) (*repository.Sale, error) {
	if err := httputil.Validate(&item); err != nil {
		return nil, err
	}

	product, err := s.productStore.GetBySKU(ctx, item.SKU)
	if err != nil {
		return nil, err
	}

	sale := &repository.Sale{
		ProductID: product.ID,
		SKU:       product.SKU,
		Quantity:  item.Quantity,
		UnitPrice: decimal.NewFromFloat(item.UnitPrice),
		Timestamp: s.now(),
	}
	if err := s.saleStore.Record(ctx, sale); err != nil {
		return nil, err
	}

	product.Quantity -= item.Quantity
	if product.Quantity < 0 {
		product.Quantity = 0
	}
	if err := s.productStore.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sku", sale.SKU).Int("quantity", sale.Quantity).Msg("sale recorded")
	return sale, nil
}
