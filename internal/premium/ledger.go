package premium

import (
	"sort"

	"premium-calc/internal/model"

	"github.com/shopspring/decimal"
)

// DetailRow is one (age, item) premium. Field order matches the detail export columns.
type DetailRow struct {
	Age         int             `json:"age"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Unit        model.Unit      `json:"unit"`
	FaceAmount  decimal.Decimal `json:"face_amount"`
	Quantity    int             `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	YearPremium decimal.Decimal `json:"year_premium"`
}

// YearRow is the all-product premium for one age plus the running total through that age.
type YearRow struct {
	Age        int             `json:"age"`
	Total      decimal.Decimal `json:"total_premium"`
	Cumulative decimal.Decimal `json:"cumulative_premium"`
}

type Result struct {
	Total       decimal.Decimal
	Detail      []DetailRow
	YearSummary []YearRow
}

// ProductTotal is one product's contribution across all ages.
type ProductTotal struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Total       decimal.Decimal `json:"total"`
}

// ProductTotals sums the detail rows per product code, sorted by code.
func (r *Result) ProductTotals() []ProductTotal {
	byCode := map[string]*ProductTotal{}
	var order []string
	for _, row := range r.Detail {
		pt, ok := byCode[row.ProductCode]
		if !ok {
			pt = &ProductTotal{ProductCode: row.ProductCode, ProductName: row.ProductName, Total: decimal.Zero}
			byCode[row.ProductCode] = pt
			order = append(order, row.ProductCode)
		}
		pt.Total = pt.Total.Add(row.YearPremium)
	}
	sort.Strings(order)

	out := make([]ProductTotal, 0, len(order))
	for _, code := range order {
		out = append(out, *byCode[code])
	}
	return out
}

// summarize expects detail sorted by age.
func summarize(detail []DetailRow) ([]YearRow, decimal.Decimal) {
	summary := []YearRow{}
	cum := decimal.Zero
	for _, row := range detail {
		n := len(summary)
		if n == 0 || summary[n-1].Age != row.Age {
			summary = append(summary, YearRow{Age: row.Age, Total: decimal.Zero})
			n++
		}
		summary[n-1].Total = summary[n-1].Total.Add(row.YearPremium)
	}
	for i := range summary {
		cum = cum.Add(summary[i].Total)
		summary[i].Cumulative = cum
	}
	return summary, cum
}
