package pricing

import (
	"math"
	"time"
)

// AdvancedEngine layers brand, age, trend, market-position and operational
// adjustments on top of the base tier.
type AdvancedEngine struct {
	base *BaseEngine
	now  func() time.Time
}

// NewAdvancedEngine creates the advanced pricing tier.
func NewAdvancedEngine() *AdvancedEngine {
	return &AdvancedEngine{base: NewBaseEngine(), now: time.Now}
}

// NewAdvancedEngineAt creates an advanced tier with a fixed clock. The clock
// only affects the sales-velocity stage.
func NewAdvancedEngineAt(now func() time.Time) *AdvancedEngine {
	return &AdvancedEngine{base: NewBaseEngine(), now: now}
}

// CalculateAdvancedPrice runs the full base chain and then the advanced
// stages. The result is re-rounded on top of the base tier's rounding; that
// double rounding is part of the published behavior.
func (e *AdvancedEngine) CalculateAdvancedPrice(f AdvancedPriceFactors) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	price, err := e.base.CalculateSellingPrice(f.PriceFactors)
	if err != nil {
		return 0, err
	}

	return round2(e.advancedStages(price, f)), nil
}

func (e *AdvancedEngine) advancedStages(price float64, f AdvancedPriceFactors) float64 {
	price *= brandMultiplierFor(f.Brand)

	// Age decay floors at 30% depreciation.
	if f.AgeMonths > 12 {
		price *= math.Max(0.7, 1-(f.AgeMonths-12)*0.02)
	}

	price *= 1 + f.TrendFactor*0.2
	price *= 1 + marketPositionMarginFor(f.MarketPosition)

	// High shipping relative to the current price carries a surcharge.
	if f.ShippingCost > price*0.1 {
		price *= 1.05
	}

	if f.ReturnRate > 0.1 {
		price *= 1 + f.ReturnRate*0.5
	}

	if f.PromotionalPeriod {
		price *= 0.9
	}

	if f.AverageSalesVelocity != nil && f.LastSaleDate != nil {
		days := e.now().Sub(*f.LastSaleDate).Hours() / 24
		if days > *f.AverageSalesVelocity*2 {
			price *= 0.95
		}
	}

	return price
}
