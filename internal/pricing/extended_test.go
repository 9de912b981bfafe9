package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralExtendedFactors() ExtendedPriceFactors {
	return ExtendedPriceFactors{
		AdvancedPriceFactors: AdvancedPriceFactors{
			PriceFactors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0,
			},
		},
		Market: MarketData{
			SeasonalityIndex: 1.0,
		},
		Product: ProductData{
			QualityRating: 3,
		},
		Operational: OperationalData{
			StockLevel: 50,
		},
	}
}

func TestCalculateExtendedPriceReappliesCategoryEffect(t *testing.T) {
	engine := NewExtendedEngine()

	// Advanced chain gives 270.27. The product multiplier applies the
	// electronics margin a second time: 270.27 * 1.3 = 351.35. Everything
	// else in the neutral fixture is a no-op.
	price, err := engine.CalculateExtendedPrice(neutralExtendedFactors())
	require.NoError(t, err)
	assert.Equal(t, 351.35, price)
}

func TestCalculateExtendedPriceCompetitorAverage(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Category = "unknown-category" // keep the product multiplier at 1
	f.Market.CompetitorPrices = []float64{300, 320}

	// Advanced price with the default category margin 0.4:
	// 100 * 1.4 * 1.4 * 1.1 * 1.35 = 291.06. Competitor average 310 gives
	// adjustment (310-291.06)/291.06; price lands on the average.
	price, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)
	assert.InDelta(t, 310.0, price, 0.01)
}

func TestCalculateExtendedPriceEmptyCompetitorListSkipsGapTerm(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Market.CompetitorPrices = nil
	f.Market.DemandTrend = 0.5

	// Only the trend term applies: 270.27 * (1 + 0.1) * 1.3 = 386.49.
	price, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)
	assert.InDelta(t, 270.27*1.1*1.3, price, 0.01)
}

func TestCalculateExtendedPriceMarketShareBonus(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Market.MarketShare = 0.4

	base, err := engine.CalculateExtendedPrice(neutralExtendedFactors())
	require.NoError(t, err)
	boosted, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)

	assert.InDelta(t, base*1.1, boosted, 0.01)
}

func TestCalculateExtendedPriceUniqueSellingPoints(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Product.UniqueSellingPoints = []string{"original packaging", "invoice included"}

	plain, err := engine.CalculateExtendedPrice(neutralExtendedFactors())
	require.NoError(t, err)
	withUSPs, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)

	// Two USPs raise the product multiplier from 1.0 to 1.1.
	assert.InDelta(t, plain*1.1, withUSPs, 0.01)
}

func TestCalculateExtendedPriceSustainabilityPremium(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Product.SustainabilityScore = 0.8

	plain, err := engine.CalculateExtendedPrice(neutralExtendedFactors())
	require.NoError(t, err)
	premium, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)

	assert.InDelta(t, plain*1.15, premium, 0.01)
}

func TestCalculateExtendedPriceQualityMultiplier(t *testing.T) {
	engine := NewExtendedEngine()

	tests := []struct {
		rating     float64
		multiplier float64
	}{
		{5, 1.3},
		{4.4, 1.15}, // rounds to 4
		{3, 1.0},
		{1, 0.8},
		{9, 1.0}, // out of range falls back to neutral
	}

	neutral, err := engine.CalculateExtendedPrice(neutralExtendedFactors())
	require.NoError(t, err)

	for _, tt := range tests {
		f := neutralExtendedFactors()
		f.Product.QualityRating = tt.rating

		price, err := engine.CalculateExtendedPrice(f)
		require.NoError(t, err)
		assert.InDelta(t, neutral*tt.multiplier, price, 0.01,
			"rating %v should scale by %v", tt.rating, tt.multiplier)
	}
}

func TestCalculateExtendedPriceOperationalFloor(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Operational.WarehouseCosts = 200
	f.Operational.ShippingCosts = 100
	f.Operational.HandlingCosts = 100

	// Total costs 400 force a floor of 480, above the adjusted price of
	// 351.35. The margin re-check then demands
	// max(20, (100+200)*1.5) = 450 over the base price of 100.
	price, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)
	assert.Equal(t, 550.00, price)
}

func TestCalculateExtendedPriceStockBands(t *testing.T) {
	engine := NewExtendedEngine()

	high := neutralExtendedFactors()
	high.Operational.StockLevel = 150

	low := neutralExtendedFactors()
	low.Operational.StockLevel = 5

	neutral, err := engine.CalculateExtendedPrice(neutralExtendedFactors())
	require.NoError(t, err)
	highPrice, err := engine.CalculateExtendedPrice(high)
	require.NoError(t, err)
	lowPrice, err := engine.CalculateExtendedPrice(low)
	require.NoError(t, err)

	assert.InDelta(t, neutral*0.95, highPrice, 0.01)
	assert.InDelta(t, neutral*1.1, lowPrice, 0.01)
}

func TestCalculateExtendedPriceMinimumMarginFloor(t *testing.T) {
	engine := NewExtendedEngine()

	// A heavy promotional discount with strong negative trend still cannot
	// undercut base price + 20%.
	f := neutralExtendedFactors()
	f.Category = "unknown-category"
	f.Brand = "unknown-brand"
	f.PromotionalPeriod = true
	f.Market.DemandTrend = -1
	f.Market.SeasonalityIndex = 0.5
	f.Product.QualityRating = 1

	price, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, price, f.BasePrice+f.BasePrice*0.2-0.005)
}

func TestCalculateExtendedPriceDeterminism(t *testing.T) {
	engine := NewExtendedEngine()

	f := neutralExtendedFactors()
	f.Market.CompetitorPrices = []float64{280, 350, 310}
	f.Product.UniqueSellingPoints = []string{"limited edition"}

	first, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)
	second, err := engine.CalculateExtendedPrice(f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
