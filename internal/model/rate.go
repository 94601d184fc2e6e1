package model

import "github.com/shopspring/decimal"

// RateRecord is one normalized row of a rate table.
//
// Rate is the premium per rate-table unit (see Unit) at the given age and sex.
// Source and Line locate the row in its originating file and are used only for diagnostics.
type RateRecord struct {
	ProductCode string
	ProductName string
	Unit        Unit
	Age         int
	Sex         Sex
	Rate        decimal.Decimal

	Source string
	Line   int
}

// Product is one entry of the product catalogue.
type Product struct {
	Code string `json:"product_code"`
	Name string `json:"product_name"`
}
