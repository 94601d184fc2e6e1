package premium

import (
	"fmt"
	"strings"

	"premium-calc/internal/model"

	"github.com/shopspring/decimal"
)

// UnsupportedUnitError is returned for a unit outside per_10k, per_1k and per_1.
// Product is filled in when the unit came from a rate table.
type UnsupportedUnitError struct {
	Unit    model.Unit
	Product string
}

func (e *UnsupportedUnitError) Error() string {
	msg := fmt.Sprintf("unsupported unit %q (supported: %s, %s, %s)", e.Unit, model.UnitPer10K, model.UnitPer1K, model.UnitPer1)
	if e.Product != "" {
		return "product " + e.Product + ": " + msg
	}
	return msg
}

func (e *UnsupportedUnitError) Code() string { return "UNSUPPORTED_UNIT" }

type InvalidRangeError struct {
	StartAge int
	EndAge   int
}

func (e *InvalidRangeError) Error() string {
	if e.StartAge < 0 {
		return fmt.Sprintf("start age must be >= 0, got %d", e.StartAge)
	}
	if e.EndAge > model.MaxAge {
		return fmt.Sprintf("end age must be <= %d, got %d", model.MaxAge, e.EndAge)
	}
	return fmt.Sprintf("end age %d must be >= start age %d", e.EndAge, e.StartAge)
}

func (e *InvalidRangeError) Code() string { return "INVALID_RANGE" }

type InvalidItemError struct {
	Product    string
	FaceAmount decimal.Decimal
	Quantity   int
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("product %s: face amount (%s) and quantity (%d) must be positive",
		e.Product, e.FaceAmount, e.Quantity)
}

func (e *InvalidItemError) Code() string { return "INVALID_ITEM" }

type ProductNotFoundError struct {
	Product string
	Sex     model.Sex
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("no rates for product %s with sex %s", e.Product, e.Sex)
}

func (e *ProductNotFoundError) Code() string { return "PRODUCT_NOT_FOUND" }

type InconsistentUnitError struct {
	Product string
	Units   []model.Unit
}

func (e *InconsistentUnitError) Error() string {
	units := make([]string, len(e.Units))
	for i, u := range e.Units {
		units[i] = string(u)
	}
	return fmt.Sprintf("product %s mixes units: %s", e.Product, strings.Join(units, ", "))
}

func (e *InconsistentUnitError) Code() string { return "INCONSISTENT_UNIT" }

// MissingAgeCoverageError lists every requested age the product's rate table lacks.
type MissingAgeCoverageError struct {
	Product string
	Sex     model.Sex
	Ages    []int
}

func (e *MissingAgeCoverageError) Error() string {
	ages := make([]string, len(e.Ages))
	for i, a := range e.Ages {
		ages[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("product %s (sex %s) has no rate for ages: %s", e.Product, e.Sex, strings.Join(ages, ", "))
}

func (e *MissingAgeCoverageError) Code() string { return "MISSING_AGE_COVERAGE" }
