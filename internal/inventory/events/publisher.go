package events

import (
	"context"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeExpiryEvents, "expiry-service", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishAlertCreated publishes an alert created event
func (p *InventoryEventPublisher) PublishAlertCreated(ctx context.Context, alert *repository.Alert, productName, sku string) {
	if p == nil {
		return
	}

	data := messaging.AlertCreatedEvent{
		AlertID:     alert.ID,
		ProductID:   alert.ProductID,
		SKU:         sku,
		ProductName: productName,
		AlertType:   alert.Type,
		Severity:    severityFor(alert.Type),
		Message:     alert.Type + " alert for " + productName,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAlertCreated, data); err != nil {
		p.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("failed to publish alert created event")
	}
}

// PublishProductUpserted publishes a product upserted event
func (p *InventoryEventPublisher) PublishProductUpserted(ctx context.Context, product *repository.Product, created bool) {
	if p == nil {
		return
	}

	data := messaging.ProductUpsertedEvent{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Quantity:  product.Quantity,
		Created:   created,
	}

	if err := p.publisher.Publish(ctx, messaging.EventProductUpserted, data); err != nil {
		p.logger.Error().Err(err).Str("sku", product.SKU).Msg("failed to publish product upserted event")
	}
}

// PublishSyncCompleted publishes a sync completed event
func (p *InventoryEventPublisher) PublishSyncCompleted(ctx context.Context, processed, errored, alerts int) {
	if p == nil {
		return
	}

	data := messaging.SyncCompletedEvent{
		ProcessedCount: processed,
		ErrorCount:     errored,
		AlertCount:     alerts,
	}

	if err := p.publisher.Publish(ctx, messaging.EventSyncCompleted, data); err != nil {
		p.logger.Error().Err(err).Msg("failed to publish sync completed event")
	}
}

func severityFor(alertType string) string {
	if alertType == "EXPIRED" {
		return "high"
	}
	return "medium"
}
