package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBuyPrice(t *testing.T) {
	tests := []struct {
		name          string
		originalPrice float64
		condition     string
		want          float64
	}{
		{"sehr gut", 200, IntakeConditionSehrGut, 120.00},
		{"neu", 100, IntakeConditionNeu, 70.00},
		{"gut", 90, IntakeConditionGut, 45.00},
		{"akzeptabel", 50, IntakeConditionAkzeptabel, 20.00},
		{"unknown condition pays the conservative factor", 100, "defekt", 40.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateBuyPrice(tt.originalPrice, tt.condition)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateBuyPriceRejectsInvalidPrice(t *testing.T) {
	_, err := CalculateBuyPrice(0, IntakeConditionGut)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculateBuyPrice(-5, IntakeConditionGut)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateSupplierPrice(t *testing.T) {
	tests := []struct {
		name          string
		supplierPrice float64
		condition     string
		quantity      int
		want          float64
	}{
		// 50 * 1.4 = 70
		{"good condition single unit", 50, ConditionGood, 1, 70.00},
		// 50 * 2.0 * 0.95 = 95
		{"new condition bulk discount", 50, ConditionNew, 11, 95.00},
		// 100 * 1.0 = 100 is below the 20% margin; floor lifts to 120
		{"unknown condition hits margin floor", 100, "unbekannt", 1, 120.00},
		// exactly ten units: no bulk discount yet
		{"quantity boundary", 50, ConditionNew, 10, 100.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSupplierPrice(tt.supplierPrice, tt.condition, tt.quantity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateSupplierPriceValidation(t *testing.T) {
	_, err := CalculateSupplierPrice(0, ConditionGood, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculateSupplierPrice(100, ConditionGood, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTableDefaults(t *testing.T) {
	assert.Equal(t, 0.4, categoryMarginFor("does-not-exist"))
	assert.Equal(t, 1.0, conditionMultiplierFor("does-not-exist"))
	assert.Equal(t, 1.1, brandMultiplierFor("does-not-exist"))
	assert.Equal(t, 0.35, marketPositionMarginFor("does-not-exist"))
	assert.Equal(t, 1.0, qualityMultiplierFor(0))
}
