package models

import "time"

// Product represents a second-hand item in the catalog
type Product struct {
	ID            int64     `db:"id" json:"id"`
	SKU           string    `db:"sku" json:"sku"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description,omitempty"`
	Condition     string    `db:"condition" json:"condition"`
	Category      string    `db:"category" json:"category"`
	Brand         string    `db:"brand" json:"brand,omitempty"`
	Status        string    `db:"status" json:"status"`
	OriginalPrice float64   `db:"original_price" json:"original_price"`
	Price         float64   `db:"price" json:"price"`
	SellerID      int64     `db:"seller_id" json:"seller_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// MarketSignals represents live stock and demand levels for a product
type MarketSignals struct {
	ProductID   int64     `db:"product_id" json:"product_id"`
	StockLevel  float64   `db:"stock_level" json:"stock_level"`
	DemandLevel float64   `db:"demand_level" json:"demand_level"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PriceHistory records every price change with its origin
type PriceHistory struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	OldPrice  float64   `db:"old_price" json:"old_price"`
	NewPrice  float64   `db:"new_price" json:"new_price"`
	Tier      string    `db:"tier" json:"tier"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product statuses
const (
	ProductStatusUnderReview = "in_pruefung"
	ProductStatusActive      = "aktiv"
	ProductStatusSold        = "verkauft"
	ProductStatusRejected    = "abgelehnt"
)

// Pricing tiers
const (
	TierBase     = "base"
	TierAdvanced = "advanced"
	TierExtended = "extended"
)

// Bulk price actions
const (
	BulkActionRecalculate = "recalculate"
	BulkActionDiscount    = "discount"
	BulkActionMarkup      = "markup"
)

// Reprice reasons recorded in price history
const (
	RepriceReasonIntake      = "intake"
	RepriceReasonImport      = "bulk_import"
	RepriceReasonRecalculate = "recalculate"
	RepriceReasonDiscount    = "bulk_discount"
	RepriceReasonMarkup      = "bulk_markup"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
