package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput is wrapped by all validation failures. Callers can map it
// to a client error at the transport layer.
var ErrInvalidInput = errors.New("invalid pricing input")

// PriceFactors is the input record for the base tier.
type PriceFactors struct {
	BasePrice   float64 `json:"base_price"`
	Condition   string  `json:"condition"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	Seasonality float64 `json:"seasonality"`

	// Optional market context.
	CompetitorPrice *float64 `json:"competitor_price,omitempty"`
	StockLevel      *float64 `json:"stock_level,omitempty"`
	DemandLevel     *float64 `json:"demand_level,omitempty"`
}

// AdvancedPriceFactors extends the base factors with brand, age and
// operational context for the advanced tier.
type AdvancedPriceFactors struct {
	PriceFactors

	Brand             string  `json:"brand"`
	AgeMonths         float64 `json:"age_months"`
	TrendFactor       float64 `json:"trend_factor"`
	MarketPosition    string  `json:"market_position"`
	ShippingCost      float64 `json:"shipping_cost"`
	ReturnRate        float64 `json:"return_rate"`
	PromotionalPeriod bool    `json:"promotional_period"`

	// Optional sales-velocity context.
	LastSaleDate         *time.Time `json:"last_sale_date,omitempty"`
	AverageSalesVelocity *float64   `json:"average_sales_velocity,omitempty"`
}

// MarketData carries the extended tier's market context.
type MarketData struct {
	CompetitorPrices []float64 `json:"competitor_prices"`
	MarketShare      float64   `json:"market_share"`
	DemandTrend      float64   `json:"demand_trend"`
	SeasonalityIndex float64   `json:"seasonality_index"`
}

// ProductData carries the extended tier's product context. Brand, category
// and age come from the embedded advanced factors.
type ProductData struct {
	UniqueSellingPoints []string `json:"unique_selling_points"`
	SustainabilityScore float64  `json:"sustainability_score"`
	QualityRating       float64  `json:"quality_rating"`
}

// OperationalData carries the extended tier's cost and stock context.
type OperationalData struct {
	StockLevel     float64 `json:"stock_level"`
	WarehouseCosts float64 `json:"warehouse_costs"`
	ShippingCosts  float64 `json:"shipping_costs"`
	ReturnRate     float64 `json:"return_rate"`
	HandlingCosts  float64 `json:"handling_costs"`
}

// ExtendedPriceFactors is the input record for the extended tier.
type ExtendedPriceFactors struct {
	AdvancedPriceFactors

	Market      MarketData      `json:"market"`
	Product     ProductData     `json:"product"`
	Operational OperationalData `json:"operational"`
}

// Validate rejects inputs that would corrupt the pipeline. Unknown table keys
// are deliberately not errors; they fall back to defaults.
func (f PriceFactors) Validate() error {
	if !isFinite(f.BasePrice) || f.BasePrice <= 0 {
		return fmt.Errorf("%w: base price must be positive, got %v", ErrInvalidInput, f.BasePrice)
	}
	if f.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, f.Quantity)
	}
	if !isFinite(f.Seasonality) {
		return fmt.Errorf("%w: seasonality must be finite", ErrInvalidInput)
	}
	// Seasonality at or below -1 would zero or negate the price and breaks
	// the purchase-price back-calculation.
	if f.Seasonality <= -1 {
		return fmt.Errorf("%w: seasonality must be greater than -1, got %v", ErrInvalidInput, f.Seasonality)
	}
	if f.CompetitorPrice != nil && !isFinite(*f.CompetitorPrice) {
		return fmt.Errorf("%w: competitor price must be finite", ErrInvalidInput)
	}
	if f.StockLevel != nil && f.DemandLevel != nil && *f.DemandLevel == 0 {
		return fmt.Errorf("%w: demand level must be non-zero when stock level is set", ErrInvalidInput)
	}
	return nil
}

// Validate checks the advanced fields on top of the base validation.
func (f AdvancedPriceFactors) Validate() error {
	if err := f.PriceFactors.Validate(); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"age_months":    f.AgeMonths,
		"trend_factor":  f.TrendFactor,
		"shipping_cost": f.ShippingCost,
		"return_rate":   f.ReturnRate,
	} {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, name)
		}
	}
	return nil
}

// Validate checks the extended fields on top of the advanced validation.
func (f ExtendedPriceFactors) Validate() error {
	if err := f.AdvancedPriceFactors.Validate(); err != nil {
		return err
	}
	for _, p := range f.Market.CompetitorPrices {
		if !isFinite(p) {
			return fmt.Errorf("%w: competitor prices must be finite", ErrInvalidInput)
		}
	}
	if !isFinite(f.Market.SeasonalityIndex) {
		return fmt.Errorf("%w: seasonality index must be finite", ErrInvalidInput)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round2 rounds to two decimal places. Applied exactly once per tier, as the
// final step; intermediate stages run on unrounded values.
func round2(price float64) float64 {
	return math.Round(price*100) / 100
}
