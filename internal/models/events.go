package models

import "time"

// Event types
const (
	EventTypeProductIntakeCreated = "PRODUCT_INTAKE_CREATED"
	EventTypeProductsImported     = "PRODUCTS_IMPORTED"
	EventTypeBulkRepriceRequested = "BULK_REPRICE_REQUESTED"
	EventTypeProductRepriced      = "PRODUCT_REPRICED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductIntakeCreatedEvent published when a seller's item enters review
type ProductIntakeCreatedEvent struct {
	BaseEvent
	ProductID      int64   `json:"product_id"`
	SellerID       int64   `json:"seller_id"`
	Condition      string  `json:"condition"`
	OriginalPrice  float64 `json:"original_price"`
	EstimatedPrice float64 `json:"estimated_price"`
}

// ProductsImportedEvent published after an import batch is persisted
type ProductsImportedEvent struct {
	BaseEvent
	JobID    string `json:"job_id"`
	Imported int    `json:"imported"`
	Failed   int    `json:"failed"`
}

// BulkRepriceRequestedEvent published when an admin triggers a bulk action
type BulkRepriceRequestedEvent struct {
	BaseEvent
	RequestID  string  `json:"request_id"`
	Action     string  `json:"action"`
	Percentage float64 `json:"percentage,omitempty"`
	ProductIDs []int64 `json:"product_ids"`
}

// ProductRepricedEvent published for every applied price change
type ProductRepricedEvent struct {
	BaseEvent
	ProductID int64   `json:"product_id"`
	OldPrice  float64 `json:"old_price"`
	NewPrice  float64 `json:"new_price"`
	Tier      string  `json:"tier"`
	Reason    string  `json:"reason"`
}
