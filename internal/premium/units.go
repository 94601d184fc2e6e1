package premium

import (
	"premium-calc/internal/model"

	"github.com/shopspring/decimal"
)

var (
	tenThousand = decimal.NewFromInt(10_000)
	oneThousand = decimal.NewFromInt(1_000)
)

// UnitToRateUnits converts a face amount into the number of rate-table units it represents.
func UnitToRateUnits(unit model.Unit, faceAmount decimal.Decimal) (decimal.Decimal, error) {
	switch unit {
	case model.UnitPer10K:
		return faceAmount.Div(tenThousand), nil
	case model.UnitPer1K:
		return faceAmount.Div(oneThousand), nil
	case model.UnitPer1:
		return faceAmount, nil
	default:
		return decimal.Zero, &UnsupportedUnitError{Unit: unit}
	}
}

// RoundWhole rounds to whole currency units, half away from zero. Display only; totals keep full precision.
func RoundWhole(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
