package service

import (
	"context"
	"time"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/errors"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// InventoryService handles product lifecycle and expiry evaluation
type InventoryService struct {
	productStore ProductStore
	alertStore   AlertStore
	publisher    EventPublisher
	logger       *logger.Logger
	now          func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	productStore ProductStore,
	alertStore AlertStore,
	publisher EventPublisher,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		productStore: productStore,
		alertStore:   alertStore,
		publisher:    publisher,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the evaluation clock. Tests use this to pin time.
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

// ProductRequest is the payload for creating or updating a product
type ProductRequest struct {
	SKU           string  `json:"sku" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	ExpiryDate    string  `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	SalesVelocity float64 `json:"sales_velocity" validate:"gte=0"`
	UnitCost      float64 `json:"unit_cost" validate:"gte=0"`
	UnitPrice     float64 `json:"unit_price" validate:"gte=0"`
}

func (req *ProductRequest) toProduct() (*repository.Product, error) {
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, errors.Validation(map[string]string{"expiry_date": "must be formatted as YYYY-MM-DD"})
	}

	return &repository.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		ExpiryDate:    expiry,
		SalesVelocity: req.SalesVelocity,
		UnitCost:      req.UnitCost,
		UnitPrice:     req.UnitPrice,
	}, nil
}

// EvaluatedProduct is a product together with its derived expiry evaluation
type EvaluatedProduct struct {
	*repository.Product
	Evaluation engine.Evaluation `json:"evaluation"`
}

// DashboardSummary is the headline card set for the dashboard
type DashboardSummary struct {
	TotalProducts int   `json:"total_products"`
	Expired       int   `json:"expired"`
	NearExpiry    int   `json:"near_expiry"`
	Safe          int   `json:"safe"`
	OpenAlerts    int64 `json:"open_alerts"`
}

// CreateProduct validates and persists a new product
func (s *InventoryService) CreateProduct(ctx context.Context, req *ProductRequest) (*repository.Product, error) {
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	product, err := req.toProduct()
	if err != nil {
		return nil, err
	}

	if err := s.productStore.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sku", product.SKU).Msg("product created")
	return product, nil
}

// GetProduct returns a product with its current evaluation
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*EvaluatedProduct, error) {
	product, err := s.productStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &EvaluatedProduct{
		Product:    product,
		Evaluation: engine.Evaluate(product.Engine(), s.now()),
	}, nil
}

// ListProducts lists products with evaluations, soonest expiry first
func (s *InventoryService) ListProducts(ctx context.Context, category string) ([]*EvaluatedProduct, error) {
	products, err := s.productStore.List(ctx, category)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]*EvaluatedProduct, len(products))
	for i, p := range products {
		result[i] = &EvaluatedProduct{
			Product:    p,
			Evaluation: engine.Evaluate(p.Engine(), now),
		}
	}
	return result, nil
}

// UpdateProduct validates and persists product changes
func (s *InventoryService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*repository.Product, error) {
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	product, err := req.toProduct()
	if err != nil {
		return nil, err
	}
	product.ID = id

	if err := s.productStore.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product and its alerts
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	return s.productStore.Delete(ctx, id)
}

// Summary computes the dashboard headline counts
func (s *InventoryService) Summary(ctx context.Context) (*DashboardSummary, error) {
	products, err := s.productStore.List(ctx, "")
	if err != nil {
		return nil, err
	}

	openAlerts, err := s.alertStore.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &DashboardSummary{
		TotalProducts: len(products),
		OpenAlerts:    openAlerts,
	}
	for _, p := range products {
		switch _, status := engine.Classify(p.ExpiryDate, now); status {
		case engine.StatusExpired:
			summary.Expired++
		case engine.StatusCritical:
			summary.NearExpiry++
		case engine.StatusSafe:
			summary.Safe++
		}
	}
	return summary, nil
}

// KPIs computes the aggregate inventory metrics
func (s *InventoryService) KPIs(ctx context.Context) (engine.KPI, error) {
	products, err := s.productStore.List(ctx, "")
	if err != nil {
		return engine.KPI{}, err
	}
	return engine.Aggregate(engineView(products), s.now()), nil
}

// StatusDistribution computes the status breakdown for charting
func (s *InventoryService) StatusDistribution(ctx context.Context) (engine.Distribution, error) {
	products, err := s.productStore.List(ctx, "")
	if err != nil {
		return engine.Distribution{}, err
	}
	return engine.StatusDistribution(engineView(products), s.now()), nil
}

// DeriveAlerts recomputes alert candidates from current inventory state.
// Nothing is persisted; each call reflects the current truth.
func (s *InventoryService) DeriveAlerts(ctx context.Context) ([]engine.AlertCandidate, error) {
	products, err := s.productStore.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return engine.DeriveAlerts(engineView(products), s.now()), nil
}

// ListAlerts lists open persisted alerts, newest first
func (s *InventoryService) ListAlerts(ctx context.Context, limit int) ([]*repository.Alert, error) {
	return s.alertStore.ListOpen(ctx, limit)
}

// AcknowledgeAlert marks an open alert resolved
func (s *InventoryService) AcknowledgeAlert(ctx context.Context, id string) error {
	if err := s.alertStore.Resolve(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("alert_id", id).Msg("alert acknowledged")
	return nil
}

func engineView(products []*repository.Product) []engine.Product {
	view := make([]engine.Product, len(products))
	for i, p := range products {
		view[i] = p.Engine()
	}
	return view
}
