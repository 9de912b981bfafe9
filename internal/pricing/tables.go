package pricing

// Constant tables for the pricing tiers. All of them are read-only after
// package initialization; lookups fall back to documented defaults instead of
// failing on unknown keys.

// Product conditions used by the selling-price tiers.
const (
	ConditionNew       = "new"
	ConditionLikeNew   = "like-new"
	ConditionVeryGood  = "very-good"
	ConditionGood      = "good"
	ConditionAcceptable = "acceptable"
)

// Market positions used by the Advanced tier.
const (
	MarketPositionPremium  = "premium"
	MarketPositionStandard = "standard"
	MarketPositionBudget   = "budget"
)

var conditionMultipliers = map[string]float64{
	ConditionNew:        2.0,
	ConditionLikeNew:    1.8,
	ConditionVeryGood:   1.6,
	ConditionGood:       1.4,
	ConditionAcceptable: 1.2,
}

const defaultConditionMultiplier = 1.0

var categoryMargins = map[string]float64{
	"electronics": 0.3,
	"clothing":    0.5,
	"books":       0.4,
	"furniture":   0.6,
	"toys":        0.45,
}

const defaultCategoryMargin = 0.4

// quantityDiscounts is scanned highest threshold first; only the first
// matching tier applies.
var quantityDiscounts = []struct {
	Threshold int
	Discount  float64
}{
	{Threshold: 50, Discount: 0.15},
	{Threshold: 20, Discount: 0.10},
	{Threshold: 10, Discount: 0.05},
}

var brandMultipliers = map[string]float64{
	"premium":  1.4,
	"standard": 1.2,
	"budget":   1.0,
}

const defaultBrandMultiplier = 1.1

var marketPositionMargins = map[string]float64{
	MarketPositionPremium:  0.5,
	MarketPositionStandard: 0.35,
	MarketPositionBudget:   0.25,
}

const defaultMarketPositionMargin = 0.35

const sustainabilityPremium = 0.15

// qualityMultipliers maps a 1-5 star rating to a price multiplier.
var qualityMultipliers = map[int]float64{
	5: 1.3,
	4: 1.15,
	3: 1.0,
	2: 0.9,
	1: 0.8,
}

const defaultQualityMultiplier = 1.0

// categoryMarginFor returns the margin fraction for a category.
func categoryMarginFor(category string) float64 {
	if margin, ok := categoryMargins[category]; ok {
		return margin
	}
	return defaultCategoryMargin
}

// conditionMultiplierFor returns the multiplier for a product condition.
func conditionMultiplierFor(condition string) float64 {
	if m, ok := conditionMultipliers[condition]; ok {
		return m
	}
	return defaultConditionMultiplier
}

func brandMultiplierFor(brand string) float64 {
	if m, ok := brandMultipliers[brand]; ok {
		return m
	}
	return defaultBrandMultiplier
}

func marketPositionMarginFor(position string) float64 {
	if m, ok := marketPositionMargins[position]; ok {
		return m
	}
	return defaultMarketPositionMargin
}

func qualityMultiplierFor(rating int) float64 {
	if m, ok := qualityMultipliers[rating]; ok {
		return m
	}
	return defaultQualityMultiplier
}
