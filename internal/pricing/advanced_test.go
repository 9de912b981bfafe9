package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func baseAdvancedFactors() AdvancedPriceFactors {
	return AdvancedPriceFactors{
		PriceFactors: PriceFactors{
			BasePrice: 100, Condition: ConditionGood, Category: "electronics",
			Quantity: 1, Seasonality: 0,
		},
	}
}

func TestCalculateAdvancedPriceDefaults(t *testing.T) {
	engine := NewAdvancedEngine()

	// Base chain gives 182. Unknown brand falls back to 1.1, unknown market
	// position to 0.35: 182 * 1.1 * 1.35 = 270.27.
	price, err := engine.CalculateAdvancedPrice(baseAdvancedFactors())
	require.NoError(t, err)
	assert.Equal(t, 270.27, price)
}

func TestCalculateAdvancedPriceBrandAndPosition(t *testing.T) {
	engine := NewAdvancedEngine()

	f := baseAdvancedFactors()
	f.Brand = "premium"
	f.MarketPosition = MarketPositionBudget

	// 182 * 1.4 * 1.25 = 318.5
	price, err := engine.CalculateAdvancedPrice(f)
	require.NoError(t, err)
	assert.Equal(t, 318.50, price)
}

func TestCalculateAdvancedPriceAgeDecay(t *testing.T) {
	engine := NewAdvancedEngine()

	fresh := baseAdvancedFactors()
	fresh.AgeMonths = 12

	aged := baseAdvancedFactors()
	aged.AgeMonths = 24

	ancient := baseAdvancedFactors()
	ancient.AgeMonths = 120

	freshPrice, err := engine.CalculateAdvancedPrice(fresh)
	require.NoError(t, err)
	agedPrice, err := engine.CalculateAdvancedPrice(aged)
	require.NoError(t, err)
	ancientPrice, err := engine.CalculateAdvancedPrice(ancient)
	require.NoError(t, err)

	// 24 months: 1 - 12*0.02 = 0.76
	assert.InDelta(t, freshPrice*0.76, agedPrice, 0.01)
	// Decay floors at 30% depreciation no matter the age.
	assert.InDelta(t, freshPrice*0.7, ancientPrice, 0.01)
}

func TestCalculateAdvancedPricePromotionalDiscount(t *testing.T) {
	engine := NewAdvancedEngine()

	f := baseAdvancedFactors()
	f.PromotionalPeriod = true

	regular, err := engine.CalculateAdvancedPrice(baseAdvancedFactors())
	require.NoError(t, err)
	promo, err := engine.CalculateAdvancedPrice(f)
	require.NoError(t, err)

	assert.InDelta(t, regular*0.9, promo, 0.01)
}

func TestCalculateAdvancedPriceReturnRateSurcharge(t *testing.T) {
	engine := NewAdvancedEngine()

	low := baseAdvancedFactors()
	low.ReturnRate = 0.1

	high := baseAdvancedFactors()
	high.ReturnRate = 0.2

	lowPrice, err := engine.CalculateAdvancedPrice(low)
	require.NoError(t, err)
	highPrice, err := engine.CalculateAdvancedPrice(high)
	require.NoError(t, err)

	// At exactly 0.1 no surcharge applies; above it the price carries
	// 1 + rate*0.5.
	assert.Equal(t, 270.27, lowPrice)
	assert.InDelta(t, lowPrice*1.1, highPrice, 0.01)
}

func TestCalculateAdvancedPriceSalesVelocityDiscount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewAdvancedEngineAt(fixedClock(now))

	lastSale := now.AddDate(0, 0, -30)
	velocity := 10.0

	stale := baseAdvancedFactors()
	stale.LastSaleDate = &lastSale
	stale.AverageSalesVelocity = &velocity

	// 30 days since last sale > 2 * 10 day velocity: 5% discount.
	price, err := engine.CalculateAdvancedPrice(stale)
	require.NoError(t, err)
	assert.InDelta(t, 270.27*0.95, price, 0.01)

	recentSale := now.AddDate(0, 0, -5)
	active := baseAdvancedFactors()
	active.LastSaleDate = &recentSale
	active.AverageSalesVelocity = &velocity

	price, err = engine.CalculateAdvancedPrice(active)
	require.NoError(t, err)
	assert.Equal(t, 270.27, price)
}

func TestCalculateAdvancedPriceShippingSurcharge(t *testing.T) {
	engine := NewAdvancedEngine()

	f := baseAdvancedFactors()
	f.ShippingCost = 50 // more than 10% of the running price

	price, err := engine.CalculateAdvancedPrice(f)
	require.NoError(t, err)
	assert.InDelta(t, 270.27*1.05, price, 0.01)
}

func TestCalculateAdvancedPriceNeutralImportDefaults(t *testing.T) {
	engine := NewAdvancedEngine()

	// Bulk imports zero out the advanced-only inputs; every advanced stage
	// except brand and market position degenerates to a no-op.
	f := AdvancedPriceFactors{
		PriceFactors: PriceFactors{
			BasePrice: 100, Condition: ConditionGood, Category: "electronics",
			Quantity: 1, Seasonality: 0,
		},
		Brand:          "budget",
		MarketPosition: MarketPositionStandard,
	}

	// 182 * 1.0 * 1.35 = 245.7
	price, err := engine.CalculateAdvancedPrice(f)
	require.NoError(t, err)
	assert.Equal(t, 245.70, price)
}

func TestCalculateAdvancedPriceValidation(t *testing.T) {
	engine := NewAdvancedEngine()

	f := baseAdvancedFactors()
	f.BasePrice = -1

	_, err := engine.CalculateAdvancedPrice(f)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
