package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCalculateSellingPrice(t *testing.T) {
	engine := NewBaseEngine()

	tests := []struct {
		name    string
		factors PriceFactors
		want    float64
	}{
		{
			name: "electronics in good condition",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0,
			},
			// 100 * 1.3 * 1.4 = 182
			want: 182.00,
		},
		{
			name: "unknown category and condition fall back to defaults",
			factors: PriceFactors{
				BasePrice: 50, Condition: "unknown", Category: "unknown",
				Quantity: 1, Seasonality: 0,
			},
			// 50 * 1.4 (default margin) * 1.0 = 70, floor passes
			want: 70.00,
		},
		{
			name: "quantity discount applies highest matching tier only",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 50, Seasonality: 0,
			},
			// 182 * 0.85 = 154.7
			want: 154.70,
		},
		{
			name: "seasonality scales the running price",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0.1,
			},
			// 182 * 1.1 = 200.2
			want: 200.20,
		},
		{
			name: "higher competitor price pulls the price up by half the gap",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0, CompetitorPrice: floatPtr(200),
			},
			// 182 + (200-182)*0.5 = 191
			want: 191.00,
		},
		{
			name: "lower competitor price pulls the price down by a third of the gap",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0, CompetitorPrice: floatPtr(150),
			},
			// 182 + (150-182)*0.3 = 172.4
			want: 172.40,
		},
		{
			name: "overstock discounts the price",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0,
				StockLevel: floatPtr(200), DemandLevel: floatPtr(100),
			},
			// 182 * 0.9 = 163.8
			want: 163.80,
		},
		{
			name: "scarcity raises the price",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0,
				StockLevel: floatPtr(40), DemandLevel: floatPtr(100),
			},
			// 182 * 1.1 = 200.2
			want: 200.20,
		},
		{
			name: "balanced stock and demand leave the price unchanged",
			factors: PriceFactors{
				BasePrice: 100, Condition: ConditionGood, Category: "electronics",
				Quantity: 1, Seasonality: 0,
				StockLevel: floatPtr(100), DemandLevel: floatPtr(100),
			},
			want: 182.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CalculateSellingPrice(tt.factors)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSellingPriceMinimumMarginFloor(t *testing.T) {
	engine := NewBaseEngine()

	// Strong negative seasonality drives the price below base + 20%; the
	// floor lifts it back to exactly 1.2x base.
	price, err := engine.CalculateSellingPrice(PriceFactors{
		BasePrice: 100, Condition: "unknown", Category: "unknown",
		Quantity: 1, Seasonality: -0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.00, price)
}

func TestSellingPriceFloorInvariant(t *testing.T) {
	engine := NewBaseEngine()

	factors := []PriceFactors{
		{BasePrice: 100, Condition: ConditionAcceptable, Category: "books", Quantity: 60, Seasonality: -0.8},
		{BasePrice: 9.99, Condition: "unknown", Category: "unknown", Quantity: 1, Seasonality: -0.9},
		{BasePrice: 250, Condition: ConditionGood, Category: "clothing", Quantity: 25, Seasonality: -0.6, CompetitorPrice: floatPtr(10)},
	}

	for _, f := range factors {
		price, err := engine.CalculateSellingPrice(f)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, price, f.BasePrice+f.BasePrice*0.2-0.005,
			"floor invariant violated for base price %v", f.BasePrice)
	}
}

func TestSellingPriceQuantityDiscountMonotonicity(t *testing.T) {
	engine := NewBaseEngine()

	base := PriceFactors{
		BasePrice: 100, Condition: ConditionGood, Category: "electronics", Seasonality: 0,
	}

	prev := math.Inf(1)
	for _, quantity := range []int{1, 9, 10, 11, 19, 20, 21, 49, 50, 100} {
		f := base
		f.Quantity = quantity
		price, err := engine.CalculateSellingPrice(f)
		require.NoError(t, err)
		assert.LessOrEqual(t, price, prev, "price increased at quantity %d", quantity)
		prev = price
	}
}

func TestSellingPriceRoundsToTwoDecimals(t *testing.T) {
	engine := NewBaseEngine()

	price, err := engine.CalculateSellingPrice(PriceFactors{
		BasePrice: 33.33, Condition: ConditionVeryGood, Category: "toys",
		Quantity: 3, Seasonality: 0.123,
	})
	require.NoError(t, err)
	assert.InDelta(t, price, math.Round(price*100)/100, 1e-9)
}

func TestSellingPriceDeterminism(t *testing.T) {
	engine := NewBaseEngine()

	f := PriceFactors{
		BasePrice: 79.5, Condition: ConditionLikeNew, Category: "furniture",
		Quantity: 12, Seasonality: 0.05,
		CompetitorPrice: floatPtr(180), StockLevel: floatPtr(30), DemandLevel: floatPtr(90),
	}

	first, err := engine.CalculateSellingPrice(f)
	require.NoError(t, err)
	second, err := engine.CalculateSellingPrice(f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSellingPriceUnknownKeysMatchAbsentKeys(t *testing.T) {
	engine := NewBaseEngine()

	unknown, err := engine.CalculateSellingPrice(PriceFactors{
		BasePrice: 100, Condition: "kaput", Category: "vinyl", Quantity: 1, Seasonality: 0,
	})
	require.NoError(t, err)

	absent, err := engine.CalculateSellingPrice(PriceFactors{
		BasePrice: 100, Quantity: 1, Seasonality: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, absent, unknown)
}

func TestSellingPriceValidation(t *testing.T) {
	engine := NewBaseEngine()

	tests := []struct {
		name    string
		factors PriceFactors
	}{
		{"zero base price", PriceFactors{BasePrice: 0, Quantity: 1}},
		{"negative base price", PriceFactors{BasePrice: -10, Quantity: 1}},
		{"zero quantity", PriceFactors{BasePrice: 100, Quantity: 0}},
		{"NaN seasonality", PriceFactors{BasePrice: 100, Quantity: 1, Seasonality: math.NaN()}},
		{"seasonality at -1", PriceFactors{BasePrice: 100, Quantity: 1, Seasonality: -1}},
		{"seasonality below -1", PriceFactors{BasePrice: 100, Quantity: 1, Seasonality: -1.5}},
		{"zero demand with stock set", PriceFactors{BasePrice: 100, Quantity: 1, StockLevel: floatPtr(10), DemandLevel: floatPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.CalculateSellingPrice(tt.factors)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCalculatePurchasePrice(t *testing.T) {
	engine := NewBaseEngine()

	// 140 / 1.3 (electronics margin) / 1.4 (good condition) = 76.92
	price, err := engine.CalculatePurchasePrice(PriceFactors{
		BasePrice: 140, Condition: ConditionGood, Category: "electronics",
		Quantity: 1, Seasonality: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 76.92, price)
}

func TestCalculatePurchasePriceQuantityInflation(t *testing.T) {
	engine := NewBaseEngine()

	single, err := engine.CalculatePurchasePrice(PriceFactors{
		BasePrice: 100, Condition: ConditionGood, Category: "books", Quantity: 1, Seasonality: 0,
	})
	require.NoError(t, err)

	bulk, err := engine.CalculatePurchasePrice(PriceFactors{
		BasePrice: 100, Condition: ConditionGood, Category: "books", Quantity: 25, Seasonality: 0,
	})
	require.NoError(t, err)

	// Larger intake lots may be bought at a higher per-unit ceiling.
	assert.Greater(t, bulk, single)
}
