package pricing

import (
	"math"
	"time"
)

// ExtendedEngine runs the advanced chain and then a second market/product
// adjustment pass with an operational-cost floor and a stricter margin
// re-check.
type ExtendedEngine struct {
	advanced *AdvancedEngine
}

// NewExtendedEngine creates the extended pricing tier.
func NewExtendedEngine() *ExtendedEngine {
	return &ExtendedEngine{advanced: NewAdvancedEngine()}
}

// NewExtendedEngineAt creates an extended tier with a fixed clock.
func NewExtendedEngineAt(now func() time.Time) *ExtendedEngine {
	return &ExtendedEngine{advanced: NewAdvancedEngineAt(now)}
}

// CalculateExtendedPrice computes the extended-tier selling price.
func (e *ExtendedEngine) CalculateExtendedPrice(f ExtendedPriceFactors) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	price, err := e.advanced.CalculateAdvancedPrice(f.AdvancedPriceFactors)
	if err != nil {
		return 0, err
	}

	price *= 1 + marketAdjustment(price, f.Market)

	// Note: the product multiplier applies brand and category effects a
	// second time on top of the base/advanced stages. The compounding is
	// intentional behavior of this tier.
	price *= productMultiplier(f)

	if f.Product.SustainabilityScore > 0.7 {
		price *= 1 + sustainabilityPremium
	}

	price *= qualityMultiplierFor(int(math.Round(f.Product.QualityRating)))

	price = adjustForOperationalCosts(price, f.Operational)

	price *= 1 + (f.Market.SeasonalityIndex-1)*0.2

	minMargin := minimumMargin(f.BasePrice, f.Operational.HandlingCosts, f.Operational.WarehouseCosts)
	if price-f.BasePrice < minMargin {
		price = f.BasePrice + minMargin
	}

	return round2(price), nil
}

// marketAdjustment combines competitiveness against the competitor average,
// a market-share bonus and the demand trend. With no competitor data the
// competitiveness term is skipped.
func marketAdjustment(price float64, m MarketData) float64 {
	adjustment := 0.0

	if len(m.CompetitorPrices) > 0 {
		adjustment += (competitorAverage(m.CompetitorPrices) - price) / price
	}
	if m.MarketShare > 0.3 {
		adjustment += 0.1
	}
	adjustment += m.DemandTrend * 0.2

	return adjustment
}

func competitorAverage(prices []float64) float64 {
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// productMultiplier rewards unique selling points and re-applies brand and
// category effects when those keys are known. Unknown keys contribute
// nothing here (no defaults).
func productMultiplier(f ExtendedPriceFactors) float64 {
	multiplier := 1.0 + float64(len(f.Product.UniqueSellingPoints))*0.05

	if m, ok := brandMultipliers[f.Brand]; ok {
		multiplier *= m
	}
	if margin, ok := categoryMargins[f.Category]; ok {
		multiplier *= 1 + margin
	}

	return multiplier
}

// adjustForOperationalCosts enforces a 20% margin over total handling costs,
// then applies stock-level and return-rate corrections.
func adjustForOperationalCosts(price float64, op OperationalData) float64 {
	totalCosts := op.WarehouseCosts + op.ShippingCosts + op.HandlingCosts

	if minPrice := totalCosts * 1.2; price < minPrice {
		price = minPrice
	}

	if op.StockLevel > 100 {
		price *= 0.95
	} else if op.StockLevel < 10 {
		price *= 1.1
	}

	if op.ReturnRate > 0.1 {
		price *= 1 + op.ReturnRate
	}

	return price
}

// minimumMargin is the stricter extended-tier floor: at least 20% of the base
// price, or 150% of handling plus warehouse costs.
func minimumMargin(basePrice, handlingCosts, warehouseCosts float64) float64 {
	return math.Max(basePrice*0.2, (handlingCosts+warehouseCosts)*1.5)
}
