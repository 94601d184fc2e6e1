// Package premium prices a basket of products over a policy window against a rate table.
package premium

import (
	"errors"
	"fmt"
	"sort"

	"premium-calc/internal/model"

	"github.com/shopspring/decimal"
)

// RateLookup is the read side of a rate repository.
type RateLookup interface {
	Query(productCode string, sex model.Sex) []model.RateRecord
}

type Calculator struct {
	rates RateLookup
}

func New(rates RateLookup) *Calculator { return &Calculator{rates: rates} }

// Calculate prices every item at every age of the window.
//
// Detail rows are ordered by (age, product code) and year rows by age. Any validation failure aborts the
// whole calculation and no partial result is returned.
func (c *Calculator) Calculate(items []model.RequestedItem, window model.PolicyWindow) (*Result, error) {
	if c.rates == nil {
		return nil, fmt.Errorf("rate lookup is nil")
	}
	if window.StartAge < 0 || window.EndAge < window.StartAge || window.EndAge > model.MaxAge {
		return nil, &InvalidRangeError{StartAge: window.StartAge, EndAge: window.EndAge}
	}
	ages := window.Ages()

	detail := make([]DetailRow, 0, len(ages)*len(items))
	for _, item := range items {
		rows, err := c.priceItem(item, window.Sex, ages)
		if err != nil {
			return nil, err
		}
		detail = append(detail, rows...)
	}

	sort.SliceStable(detail, func(i, j int) bool {
		if detail[i].Age != detail[j].Age {
			return detail[i].Age < detail[j].Age
		}
		return detail[i].ProductCode < detail[j].ProductCode
	})

	summary, total := summarize(detail)
	return &Result{
		Total:       total,
		Detail:      detail,
		YearSummary: summary,
	}, nil
}

func (c *Calculator) priceItem(item model.RequestedItem, sex model.Sex, ages []int) ([]DetailRow, error) {
	if !item.FaceAmount.IsPositive() || item.Quantity <= 0 {
		return nil, &InvalidItemError{Product: item.ProductCode, FaceAmount: item.FaceAmount, Quantity: item.Quantity}
	}

	recs := c.rates.Query(item.ProductCode, sex)
	if len(recs) == 0 {
		return nil, &ProductNotFoundError{Product: item.ProductCode, Sex: sex}
	}

	unit, err := singleUnit(item.ProductCode, recs)
	if err != nil {
		return nil, err
	}
	units, err := UnitToRateUnits(unit, item.FaceAmount)
	if err != nil {
		var unitErr *UnsupportedUnitError
		if errors.As(err, &unitErr) {
			unitErr.Product = item.ProductCode
		}
		return nil, err
	}
	multiplier := units.Mul(decimal.NewFromInt(int64(item.Quantity)))

	rateByAge := make(map[int]decimal.Decimal, len(recs))
	for _, r := range recs {
		rateByAge[r.Age] = r.Rate
	}
	var missing []int
	for _, age := range ages {
		if _, ok := rateByAge[age]; !ok {
			missing = append(missing, age)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingAgeCoverageError{Product: item.ProductCode, Sex: sex, Ages: missing}
	}

	rows := make([]DetailRow, 0, len(ages))
	for _, age := range ages {
		rate := rateByAge[age]
		rows = append(rows, DetailRow{
			Age:         age,
			ProductCode: item.ProductCode,
			ProductName: recs[0].ProductName,
			Unit:        unit,
			FaceAmount:  item.FaceAmount,
			Quantity:    item.Quantity,
			UnitRate:    rate,
			YearPremium: rate.Mul(multiplier),
		})
	}
	return rows, nil
}

// singleUnit returns the product's unit, failing when its rows disagree.
func singleUnit(product string, recs []model.RateRecord) (model.Unit, error) {
	seen := map[model.Unit]bool{}
	var units []model.Unit
	for _, r := range recs {
		if !seen[r.Unit] {
			seen[r.Unit] = true
			units = append(units, r.Unit)
		}
	}
	if len(units) != 1 {
		sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
		return "", &InconsistentUnitError{Product: product, Units: units}
	}
	return units[0], nil
}
