package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/database"
)

// Sale records a single point-of-sale transaction line
type Sale struct {
	ID        string          `db:"id" json:"id"`
	ProductID string          `db:"product_id" json:"product_id"`
	SKU       string          `db:"sku" json:"sku"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}

// DailySaleTotals aggregates one day of sales
type DailySaleTotals struct {
	Day     time.Time       `db:"day" json:"day"`
	Units   int             `db:"units" json:"units"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}

// SaleRepository handles sale persistence
type SaleRepository struct {
	db *database.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *database.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Record stores a sale line
func (r *SaleRepository) Record(ctx context.Context, s *Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO sales (id, product_id, sku, quantity, unit_price, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProductID, s.SKU, s.Quantity, s.UnitPrice, s.Timestamp,
	)
	return err
}

// CategorySaleTotals aggregates sales for one product category
type CategorySaleTotals struct {
	Category string          `db:"category" json:"category"`
	Units    int             `db:"units" json:"units"`
	Revenue  decimal.Decimal `db:"revenue" json:"revenue"`
}

// DailyTotals returns per-day unit and revenue totals for the trailing window,
// oldest day first
func (r *SaleRepository) DailyTotals(ctx context.Context, days int) ([]*DailySaleTotals, error) {
	if days <= 0 {
		days = 7
	}

	var totals []*DailySaleTotals
	query := `
		SELECT date_trunc('day', timestamp) AS day,
		       COALESCE(SUM(quantity), 0) AS units,
		       COALESCE(SUM(quantity * unit_price), 0) AS revenue
		FROM sales
		WHERE timestamp >= NOW() - ($1 * INTERVAL '1 day')
		GROUP BY day
		ORDER BY day ASC
	`
	if err := r.db.SelectContext(ctx, &totals, query, days); err != nil {
		return nil, err
	}
	return totals, nil
}

// CategoryTotals returns unit and revenue totals per product category for the
// trailing window, highest revenue first
func (r *SaleRepository) CategoryTotals(ctx context.Context, days int) ([]*CategorySaleTotals, error) {
	if days <= 0 {
		days = 7
	}

	var totals []*CategorySaleTotals
	query := `
		SELECT p.category,
		       COALESCE(SUM(s.quantity), 0) AS units,
		       COALESCE(SUM(s.quantity * s.unit_price), 0) AS revenue
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.timestamp >= NOW() - ($1 * INTERVAL '1 day')
		GROUP BY p.category
		ORDER BY revenue DESC
	`
	if err := r.db.SelectContext(ctx, &totals, query, days); err != nil {
		return nil, err
	}
	return totals, nil
}
