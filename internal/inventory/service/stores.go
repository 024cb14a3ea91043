package service

import (
	"context"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
)

// ProductStore is the product persistence surface the services depend on.
// *repository.ProductRepository satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *repository.Product) error
	Update(ctx context.Context, p *repository.Product) error
	UpsertBySKU(ctx context.Context, p *repository.Product) (bool, error)
	GetByID(ctx context.Context, id string) (*repository.Product, error)
	GetBySKU(ctx context.Context, sku string) (*repository.Product, error)
	List(ctx context.Context, category string) ([]*repository.Product, error)
	Delete(ctx context.Context, id string) error
}

// AlertStore is the alert persistence surface the services depend on.
// *repository.AlertRepository satisfies it.
type AlertStore interface {
	CreateIfAbsent(ctx context.Context, productID string, alertType engine.SyncAlertType) (*repository.Alert, bool, error)
	ListOpen(ctx context.Context, limit int) ([]*repository.Alert, error)
	Resolve(ctx context.Context, id string) error
	CountOpen(ctx context.Context) (int64, error)
}

// SaleStore is the sale persistence surface the services depend on.
// *repository.SaleRepository satisfies it.
type SaleStore interface {
	Record(ctx context.Context, s *repository.Sale) error
}

// EventPublisher is the event surface the services depend on. A nil
// *events.InventoryEventPublisher degrades to no-ops, so messaging stays
// optional in development.
type EventPublisher interface {
	PublishAlertCreated(ctx context.Context, alert *repository.Alert, productName, sku string)
	PublishProductUpserted(ctx context.Context, product *repository.Product, created bool)
	PublishSyncCompleted(ctx context.Context, processed, errored, alerts int)
}
