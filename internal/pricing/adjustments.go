package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MarketConditions is the market input for the adjustment breakdown.
type MarketConditions struct {
	CompetitorPrices  []float64 `json:"competitor_prices"`
	MarketShare       float64   `json:"market_share"`
	DemandTrend       float64   `json:"demand_trend"`
	SeasonalityIndex  float64   `json:"seasonality_index"`
	MarketSaturation  float64   `json:"market_saturation"`
	PriceElasticity   float64   `json:"price_elasticity"`
	PromotionalPeriod bool      `json:"promotional_period"`
}

// ProductAttributes is the product input for the adjustment breakdown.
type ProductAttributes struct {
	AgeMonths           float64   `json:"age_months"`
	Condition           string    `json:"condition"`
	Brand               string    `json:"brand"`
	Category            string    `json:"category"`
	UniqueSellingPoints []string  `json:"unique_selling_points"`
	SustainabilityScore float64   `json:"sustainability_score"`
	QualityRating       float64   `json:"quality_rating"`
	Popularity          float64   `json:"popularity"`
	StockRotation       float64   `json:"stock_rotation"`
	LastSaleDate        time.Time `json:"last_sale_date"`
	WarrantyPeriod      float64   `json:"warranty_period"`
}

// VolumeDiscount is a supplier volume tier.
type VolumeDiscount struct {
	Quantity int     `json:"quantity"`
	Discount float64 `json:"discount"`
}

// SupplierTerms carries the negotiated supplier conditions.
type SupplierTerms struct {
	MinimumMargin   float64          `json:"minimum_margin"`
	VolumeDiscounts []VolumeDiscount `json:"volume_discounts"`
}

// OperationalFactors is the operational input for the adjustment breakdown.
type OperationalFactors struct {
	StockLevel         float64       `json:"stock_level"`
	WarehouseCosts     float64       `json:"warehouse_costs"`
	ShippingCosts      float64       `json:"shipping_costs"`
	ReturnRate         float64       `json:"return_rate"`
	HandlingCosts      float64       `json:"handling_costs"`
	MarketingCosts     float64       `json:"marketing_costs"`
	OverheadAllocation float64       `json:"overhead_allocation"`
	SupplierTerms      SupplierTerms `json:"supplier_terms"`
}

// Adjustments holds the four fractional adjustments in computation order.
type Adjustments struct {
	Market      float64 `json:"market"`
	Product     float64 `json:"product"`
	Operational float64 `json:"operational"`
	Dynamic     float64 `json:"dynamic"`
}

// PriceBreakdown is the explainability result: the final price plus every
// fraction that was applied to reach it.
type PriceBreakdown struct {
	FinalPrice  float64     `json:"final_price"`
	Adjustments Adjustments `json:"adjustments"`
}

// AdjustmentCalculator computes a structured breakdown of market, product,
// operational and dynamic adjustments instead of a single chained price.
// Each fraction is computed from the running price at its stage and the four
// are applied multiplicatively in order.
type AdjustmentCalculator struct {
	now func() time.Time
}

// NewAdjustmentCalculator creates an adjustment calculator.
func NewAdjustmentCalculator() *AdjustmentCalculator {
	return &AdjustmentCalculator{now: time.Now}
}

// NewAdjustmentCalculatorAt creates an adjustment calculator with a fixed
// clock for the staleness term.
func NewAdjustmentCalculatorAt(now func() time.Time) *AdjustmentCalculator {
	return &AdjustmentCalculator{now: now}
}

// CalculatePriceAdjustments applies the four adjustment groups in the order
// market, product, operational, dynamic.
func (c *AdjustmentCalculator) CalculatePriceAdjustments(
	basePrice float64,
	market MarketConditions,
	product ProductAttributes,
	operations OperationalFactors,
) (PriceBreakdown, error) {
	if !isFinite(basePrice) || basePrice <= 0 {
		return PriceBreakdown{}, fmt.Errorf("%w: base price must be positive, got %v", ErrInvalidInput, basePrice)
	}

	var adj Adjustments
	price := basePrice

	adj.Market = marketConditionsAdjustment(price, market)
	price *= 1 + adj.Market

	adj.Product = productAdjustment(product)
	price *= 1 + adj.Product

	adj.Operational = operationalAdjustment(price, operations)
	price *= 1 + adj.Operational

	adj.Dynamic = c.dynamicAdjustment(product, market, operations)
	price *= 1 + adj.Dynamic

	return PriceBreakdown{
		FinalPrice:  round2(price),
		Adjustments: adj,
	}, nil
}

// marketConditionsAdjustment weighs the competitor gap at 50% and folds in
// market share, price elasticity and saturation. An empty competitor list
// skips the gap term.
func marketConditionsAdjustment(price float64, market MarketConditions) float64 {
	adjustment := 0.0

	if len(market.CompetitorPrices) > 0 {
		adjustment += (competitorAverage(market.CompetitorPrices) - price) / price * 0.5
	}
	if market.MarketShare > 0.3 {
		adjustment += 0.05
	}
	adjustment += (1 - market.PriceElasticity) * 0.1
	adjustment -= market.MarketSaturation * 0.1

	return adjustment
}

func productAdjustment(product ProductAttributes) float64 {
	adjustment := popularityMultiplier(product.Popularity) - 1

	adjustment += product.WarrantyPeriod * 0.02
	adjustment -= math.Max(0, (product.StockRotation-30)*0.001)

	if product.AgeMonths > 12 {
		adjustment -= math.Min(0.3, (product.AgeMonths-12)*0.02)
	}

	return adjustment
}

func popularityMultiplier(popularity float64) float64 {
	switch {
	case popularity > 0.7:
		return 1.15
	case popularity > 0.3:
		return 1.0
	default:
		return 0.9
	}
}

// operationalAdjustment raises the price when total costs eat more than 40%
// of it and subtracts the first matching supplier volume discount, scanned
// by descending quantity threshold.
func operationalAdjustment(price float64, operations OperationalFactors) float64 {
	totalCosts := operations.WarehouseCosts +
		operations.ShippingCosts +
		operations.HandlingCosts +
		operations.MarketingCosts +
		operations.OverheadAllocation

	adjustment := math.Max(0, totalCosts/price-0.4) * 0.5

	tiers := make([]VolumeDiscount, len(operations.SupplierTerms.VolumeDiscounts))
	copy(tiers, operations.SupplierTerms.VolumeDiscounts)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Quantity > tiers[j].Quantity })

	for _, tier := range tiers {
		if operations.StockLevel >= float64(tier.Quantity) {
			adjustment -= tier.Discount
			break
		}
	}

	return adjustment
}

// dynamicAdjustment discounts stale stock, corrects for stock extremes and
// folds in the seasonality index.
func (c *AdjustmentCalculator) dynamicAdjustment(
	product ProductAttributes,
	market MarketConditions,
	operations OperationalFactors,
) float64 {
	adjustment := 0.0

	daysSinceLastSale := c.now().Sub(product.LastSaleDate).Hours() / 24
	if daysSinceLastSale > 30 {
		adjustment -= math.Min(0.2, daysSinceLastSale*0.005)
	}

	if operations.StockLevel > 100 {
		adjustment -= 0.1
	} else if operations.StockLevel < 10 {
		adjustment += 0.1
	}

	adjustment += (market.SeasonalityIndex - 1) * 0.2

	return adjustment
}
