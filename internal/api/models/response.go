package models

import (
	"time"

	"premium-calc/internal/model"
	"premium-calc/internal/premium"

	"github.com/shopspring/decimal"
)

// CalculateResponse represents the response from a premium calculation
type CalculateResponse struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	Summary     CalculationSummary  `json:"summary"`
	YearSummary []premium.YearRow   `json:"year_summary"`
	Detail      []premium.DetailRow `json:"detail,omitempty"`
}

// CalculationSummary contains aggregated results
type CalculationSummary struct {
	Total         decimal.Decimal        `json:"total"`
	TotalRounded  decimal.Decimal        `json:"total_rounded"`
	Years         int                    `json:"years"`
	ProductTotals []premium.ProductTotal `json:"product_totals"`
}

// ProductsResponse lists the product catalogue
type ProductsResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

// RatesStatus describes the active rate repository
type RatesStatus struct {
	Dir      string    `json:"dir"`
	Sources  []string  `json:"sources"`
	Records  int       `json:"records"`
	Products int       `json:"products"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
