package models

import "github.com/shopspring/decimal"

// CalculateRequest is the body for POST /api/v1/premiums and /api/v1/premiums/export.
type CalculateRequest struct {
	Sex      string `json:"sex" binding:"required"` // "M" or "F", case-insensitive
	// Age bounds mirror model.MaxAge.
	StartAge int    `json:"start_age" binding:"min=0,max=150"`
	EndAge   int    `json:"end_age" binding:"min=0,max=150"`
	// IncludeEndAge defaults to true when omitted.
	IncludeEndAge *bool         `json:"include_end_age,omitempty"`
	Items         []ItemRequest `json:"items" binding:"required,min=1,dive"`
	IncludeDetail bool          `json:"include_detail,omitempty"`
}

// ItemRequest is one basket entry. FaceAmount accepts a JSON number or string.
type ItemRequest struct {
	ProductCode string          `json:"product_code" binding:"required"`
	FaceAmount  decimal.Decimal `json:"face_amount"`
	Quantity    *int            `json:"quantity,omitempty"` // default: 1
}
