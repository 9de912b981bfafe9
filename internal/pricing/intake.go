package pricing

import "fmt"

// Intake (Ankauf) conditions use the German vocabulary of the seller-facing
// flow. This table is independent of the selling-tier condition multipliers
// and must stay that way.
const (
	IntakeConditionNeu        = "neu"
	IntakeConditionSehrGut    = "sehr_gut"
	IntakeConditionGut        = "gut"
	IntakeConditionAkzeptabel = "akzeptabel"
)

var intakeConditionFactors = map[string]float64{
	IntakeConditionNeu:        0.7,
	IntakeConditionSehrGut:    0.6,
	IntakeConditionGut:        0.5,
	IntakeConditionAkzeptabel: 0.4,
}

// Unknown intake conditions pay out at the most conservative factor.
const defaultIntakeConditionFactor = 0.4

// CalculateBuyPrice computes the offer made to a seller during intake:
// the item's original price scaled by its condition factor.
func CalculateBuyPrice(originalPrice float64, condition string) (float64, error) {
	if !isFinite(originalPrice) || originalPrice <= 0 {
		return 0, fmt.Errorf("%w: original price must be positive, got %v", ErrInvalidInput, originalPrice)
	}

	factor, ok := intakeConditionFactors[condition]
	if !ok {
		factor = defaultIntakeConditionFactor
	}

	return round2(originalPrice * factor), nil
}

// supplierConditionMultipliers backs the admin-side purchase calculation.
// The values match the base tier's condition table but the two are kept as
// separate tables on purpose; they belong to different flows.
var supplierConditionMultipliers = map[string]float64{
	ConditionNew:        2.0,
	ConditionLikeNew:    1.8,
	ConditionVeryGood:   1.6,
	ConditionGood:       1.4,
	ConditionAcceptable: 1.2,
}

// CalculateSupplierPrice prices a purchased lot for resale from the supplier
// price: condition markup, a flat 5% discount above ten units, and a 20%
// minimum margin over the supplier price.
func CalculateSupplierPrice(supplierPrice float64, condition string, quantity int) (float64, error) {
	if !isFinite(supplierPrice) || supplierPrice <= 0 {
		return 0, fmt.Errorf("%w: supplier price must be positive, got %v", ErrInvalidInput, supplierPrice)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}

	multiplier, ok := supplierConditionMultipliers[condition]
	if !ok {
		multiplier = 1.0
	}

	price := supplierPrice * multiplier

	if quantity > 10 {
		price *= 0.95
	}

	if minMargin := supplierPrice * 0.2; price-supplierPrice < minMargin {
		price = supplierPrice + minMargin
	}

	return round2(price), nil
}
