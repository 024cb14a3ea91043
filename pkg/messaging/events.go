package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Alert events
	EventAlertCreated = "inventory.alert.created"

	// Product events
	EventProductUpserted = "inventory.product.upserted"

	// POS sync events
	EventSyncCompleted = "pos.sync.completed"
)

// Exchange names
const (
	ExchangeExpiryEvents = "expiry.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// AlertCreatedEvent is published when a new open alert is created for a product
type AlertCreatedEvent struct {
	AlertID     string `json:"alert_id"`
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
}

// ProductUpsertedEvent is published when a POS sync creates or updates a product
type ProductUpsertedEvent struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Created   bool   `json:"created"`
}

// SyncCompletedEvent is published after a POS sync batch has been processed
type SyncCompletedEvent struct {
	ProcessedCount int `json:"processed_count"`
	ErrorCount     int `json:"error_count"`
	AlertCount     int `json:"alert_count"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}
