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

// Alert statuses
const (
	AlertStatusUnread   = "UNREAD"
	AlertStatusResolved = "RESOLVED"
)

// Alert is a persisted notification for a product condition. At most one
// UNREAD alert may exist per (product, type) pair; the partial unique index
// on the alerts table enforces this at the storage boundary.
type Alert struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Type      string    `db:"type" json:"type"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined from products for listings
	ProductName string `db:"product_name" json:"product_name,omitempty"`
	SKU         string `db:"sku" json:"sku,omitempty"`
}

// AlertRepository handles alert persistence
type AlertRepository struct {
	db *database.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// CreateIfAbsent atomically creates an UNREAD alert for (productID, type)
// unless one is already open. Returns the alert and whether a row was
// created. A lost race is not an error: the invariant is already satisfied.
func (r *AlertRepository) CreateIfAbsent(ctx context.Context, productID string, alertType engine.SyncAlertType) (*Alert, bool, error) {
	alert := &Alert{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      string(alertType),
		Status:    AlertStatusUnread,
	}

	query := `
		INSERT INTO alerts (id, product_id, type, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, type) WHERE status = 'UNREAD' DO NOTHING
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		alert.ID, alert.ProductID, alert.Type, alert.Status,
	).Scan(&alert.CreatedAt, &alert.UpdatedAt)
	if err == sql.ErrNoRows {
		// An open alert of this type already exists; leave it untouched.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return alert, true, nil
}

// GetByID gets an alert by ID
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*Alert, error) {
	var alert Alert
	query := `
		SELECT a.id, a.product_id, a.type, a.status, a.created_at, a.updated_at,
		       p.name AS product_name, p.sku
		FROM alerts a
		JOIN products p ON p.id = a.product_id
		WHERE a.id = $1
	`
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("alert")
		}
		return nil, err
	}
	return &alert, nil
}

// ListOpen lists UNREAD alerts newest first, joined with product name and SKU
func (r *AlertRepository) ListOpen(ctx context.Context, limit int) ([]*Alert, error) {
	if limit <= 0 {
		limit = 10
	}

	var alerts []*Alert
	query := `
		SELECT a.id, a.product_id, a.type, a.status, a.created_at, a.updated_at,
		       p.name AS product_name, p.sku
		FROM alerts a
		JOIN products p ON p.id = a.product_id
		WHERE a.status = 'UNREAD'
		ORDER BY a.created_at DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &alerts, query, limit); err != nil {
		return nil, err
	}
	return alerts, nil
}

// OpenExists reports whether an UNREAD alert of the given type exists for the product
func (r *AlertRepository) OpenExists(ctx context.Context, productID string, alertType engine.SyncAlertType) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE product_id = $1 AND type = $2 AND status = 'UNREAD'
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, productID, string(alertType)); err != nil {
		return false, err
	}
	return exists, nil
}

// Resolve marks an alert as resolved. Once resolved, a later sync may open a
// fresh alert of the same type for the product.
func (r *AlertRepository) Resolve(ctx context.Context, id string) error {
	query := `
		UPDATE alerts
		SET status = 'RESOLVED', updated_at = NOW()
		WHERE id = $1 AND status = 'UNREAD'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("alert")
	}
	return nil
}

// CountOpen counts UNREAD alerts
func (r *AlertRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM alerts WHERE status = 'UNREAD'`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteResolvedOlderThan prunes resolved alerts past the retention window
func (r *AlertRepository) DeleteResolvedOlderThan(ctx context.Context, retention time.Duration) error {
	query := `DELETE FROM alerts WHERE status = 'RESOLVED' AND updated_at < $1`
	_, err := r.db.ExecContext(ctx, query, time.Now().Add(-retention))
	return err
}
