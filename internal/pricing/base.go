package pricing

// BaseEngine is the foundational pricing tier. It is stateless and safe for
// concurrent use.
type BaseEngine struct{}

// NewBaseEngine creates the base pricing tier.
func NewBaseEngine() *BaseEngine {
	return &BaseEngine{}
}

// CalculateSellingPrice runs the base adjustment chain over the running price:
// category margin, condition multiplier, quantity discount, seasonality,
// competitor nudge, stock/demand ratio, minimum-margin floor, rounding.
func (e *BaseEngine) CalculateSellingPrice(f PriceFactors) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	return round2(e.sellingPrice(f)), nil
}

// sellingPrice computes the unrounded base-tier price. Higher tiers chain on
// this so that rounding happens once per tier, at the end.
func (e *BaseEngine) sellingPrice(f PriceFactors) float64 {
	price := f.BasePrice

	price *= 1 + categoryMarginFor(f.Category)
	price *= conditionMultiplierFor(f.Condition)

	// Only the first matching quantity tier applies, never stacked.
	for _, tier := range quantityDiscounts {
		if f.Quantity >= tier.Threshold {
			price *= 1 - tier.Discount
			break
		}
	}

	price *= 1 + f.Seasonality

	// Asymmetric competitor nudge: follow a higher competitor price faster
	// than a lower one.
	if f.CompetitorPrice != nil {
		diff := *f.CompetitorPrice - price
		if diff > 0 {
			price += diff * 0.5
		} else if diff < 0 {
			price += diff * 0.3
		}
	}

	if f.StockLevel != nil && f.DemandLevel != nil {
		ratio := *f.StockLevel / *f.DemandLevel
		if ratio > 1.5 {
			price *= 0.9
		} else if ratio < 0.5 {
			price *= 1.1
		}
	}

	if minMargin := f.BasePrice * 0.2; price-f.BasePrice < minMargin {
		price = f.BasePrice + minMargin
	}

	return price
}

// CalculatePurchasePrice back-solves the maximum intake price for an item by
// inverting the base margin chain. This is a ceiling on what to pay a seller,
// so no minimum-margin floor applies.
func (e *BaseEngine) CalculatePurchasePrice(f PriceFactors) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	price := f.BasePrice / (1 + categoryMarginFor(f.Category))
	price /= conditionMultiplierFor(f.Condition)

	for _, tier := range quantityDiscounts {
		if f.Quantity >= tier.Threshold {
			price *= 1 + tier.Discount
			break
		}
	}

	price /= 1 + f.Seasonality

	return round2(price), nil
}
