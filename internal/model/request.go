package model

import "github.com/shopspring/decimal"

// RequestedItem is one basket entry: a product priced at a face amount, Quantity times.
type RequestedItem struct {
	ProductCode string
	FaceAmount  decimal.Decimal
	Quantity    int
}

// MaxAge is the highest age a policy window or rate row may name.
const MaxAge = 150

// PolicyWindow is the sex and age range to price.
type PolicyWindow struct {
	Sex           Sex
	StartAge      int
	EndAge        int
	IncludeEndAge bool
}

// Ages returns StartAge..EndAge in ascending order, including EndAge only when IncludeEndAge is set.
// A window with EndAge < StartAge yields no ages.
func (w PolicyWindow) Ages() []int {
	var ages []int
	if n := w.EndAge - w.StartAge; n >= 0 && n <= MaxAge {
		ages = make([]int, 0, n+1)
	} else {
		ages = []int{}
	}
	for a := w.StartAge; a < w.EndAge; a++ {
		ages = append(ages, a)
	}
	if w.IncludeEndAge && w.EndAge >= w.StartAge {
		ages = append(ages, w.EndAge)
	}
	return ages
}
