package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/database"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/errors"
)

// Product represents a perishable inventory record
type Product struct {
	ID            string    `db:"id" json:"id"`
	SKU           string    `db:"sku" json:"sku"`
	Name          string    `db:"name" json:"name"`
	Category      string    `db:"category" json:"category"`
	Quantity      int       `db:"quantity" json:"quantity"`
	ExpiryDate    time.Time `db:"expiry_date" json:"expiry_date"`
	SalesVelocity float64   `db:"sales_velocity" json:"sales_velocity"`
	UnitCost      float64   `db:"unit_cost" json:"unit_cost"`
	UnitPrice     float64   `db:"unit_price" json:"unit_price"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Engine converts the record into the scoring engine's read-only view.
func (p *Product) Engine() engine.Product {
	return engine.Product{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		Quantity:      p.Quantity,
		ExpiryDate:    p.ExpiryDate,
		SalesVelocity: p.SalesVelocity,
		UnitCost:      p.UnitCost,
		UnitPrice:     p.UnitPrice,
	}
}

// ProductRepository handles product persistence
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Category == "" {
		p.Category = "General"
	}

	query := `
		INSERT INTO products (id, sku, name, category, quantity, expiry_date, sales_velocity, unit_cost, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Quantity, p.ExpiryDate,
		p.SalesVelocity, p.UnitCost, p.UnitPrice,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.Conflict("product with this SKU already exists")
		}
		return err
	}
	return nil
}

// Update updates the mutable fields of a product
func (r *ProductRepository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, quantity = $4, expiry_date = $5,
		    sales_velocity = $6, unit_cost = $7, unit_price = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Category, p.Quantity, p.ExpiryDate,
		p.SalesVelocity, p.UnitCost, p.UnitPrice,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.NotFound("product")
	}
	return err
}

// UpsertBySKU creates the product if the SKU is unknown, otherwise overwrites
// the mutable fields. Returns whether a new row was created.
func (r *ProductRepository) UpsertBySKU(ctx context.Context, p *Product) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Category == "" {
		p.Category = "General"
	}

	// created_at only equals updated_at when the insert branch ran: both
	// default to the same transaction timestamp, and the update branch
	// always advances updated_at.
	query := `
		INSERT INTO products (id, sku, name, category, quantity, expiry_date, sales_velocity, unit_cost, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (sku) DO UPDATE
		SET name = EXCLUDED.name,
		    category = EXCLUDED.category,
		    quantity = EXCLUDED.quantity,
		    expiry_date = EXCLUDED.expiry_date,
		    sales_velocity = EXCLUDED.sales_velocity,
		    unit_cost = EXCLUDED.unit_cost,
		    unit_price = EXCLUDED.unit_price,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Quantity, p.ExpiryDate,
		p.SalesVelocity, p.UnitCost, p.UnitPrice,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return false, err
	}

	return p.CreatedAt.Equal(p.UpdatedAt), nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	query := `SELECT * FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, err
	}
	return &p, nil
}

// GetBySKU gets a product by SKU
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	var p Product
	query := `SELECT * FROM products WHERE sku = $1`
	if err := r.db.GetContext(ctx, &p, query, sku); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, err
	}
	return &p, nil
}

// List lists all products ordered by expiry date ascending, optionally
// filtered by category
func (r *ProductRepository) List(ctx context.Context, category string) ([]*Product, error) {
	var products []*Product

	if category != "" {
		query := `SELECT * FROM products WHERE category = $1 ORDER BY expiry_date ASC`
		if err := r.db.SelectContext(ctx, &products, query, category); err != nil {
			return nil, err
		}
		return products, nil
	}

	query := `SELECT * FROM products ORDER BY expiry_date ASC`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes a product and its alerts
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("product")
	}
	return nil
}
