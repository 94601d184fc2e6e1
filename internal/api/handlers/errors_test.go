package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"premium-calc/internal/api/models"
	"premium-calc/internal/model"
	"premium-calc/internal/premium"
	"premium-calc/internal/rates"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
		{"wrapped not found", fmt.Errorf("pricing: %w", &premium.ProductNotFoundError{Product: "A001", Sex: model.SexMale}),
			http.StatusNotFound, "PRODUCT_NOT_FOUND", "product_code"},
		{"unit", &premium.UnsupportedUnitError{Unit: "per_100", Product: "B002"},
			http.StatusUnprocessableEntity, "UNSUPPORTED_UNIT", "unit"},
		{"duplicate", &rates.DuplicateRateError{ProductCode: "A001", Sex: model.SexMale, Age: 17, First: "a.csv:3", Second: "b.csv:2"},
			http.StatusUnprocessableEntity, "DUPLICATE_RATE", "rows"},
		{"data type", &rates.DataTypeError{Column: "rate", Reason: "negative", Rows: []string{"a.csv:2"}},
			http.StatusUnprocessableEntity, "DATA_TYPE_ERROR", "reason"},
		{"several data type problems", errors.Join(
			&rates.DataTypeError{Column: "rate", Reason: "non-numeric", Rows: []string{"a.csv:2"}},
			&rates.DataTypeError{Column: "sex", Reason: "unknown", Rows: []string{"a.csv:5"}},
		), http.StatusUnprocessableEntity, "DATA_TYPE_ERROR", "problems"},
		{"csv syntax", &rates.ParseError{Source: "a.csv", Encoding: "utf-8", Err: errors.New("bare quote")},
			http.StatusUnprocessableEntity, "PARSE_ERROR", "source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.err.Error(), resp.Error.Message)
			if tt.detail != "" {
				assert.Contains(t, resp.Error.Details, tt.detail)
			} else {
				assert.Empty(t, resp.Error.Details)
			}
		})
	}
}

func TestDataTypeDetailsListEveryProblem(t *testing.T) {
	details := dataTypeDetails([]*rates.DataTypeError{
		{Column: "rate", Reason: "non-numeric", Rows: []string{"a.csv:2"}},
		{Column: "age", Reason: "non-integer or out-of-range", Rows: []string{"a.csv:3"}},
	})
	assert.Equal(t, "rate", details["column"])
	assert.Equal(t, "non-numeric", details["reason"])
	problems, ok := details["problems"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, problems, 2)
	assert.Equal(t, "age", problems[1]["column"])
}

func TestToDomainDefaults(t *testing.T) {
	items, window, err := toDomain(models.CalculateRequest{
		Sex:      "f",
		StartAge: 20,
		EndAge:   25,
		Items:    []models.ItemRequest{{ProductCode: "A001"}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SexFemale, window.Sex)
	assert.True(t, window.IncludeEndAge)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	no := false
	three := 3
	items, window, err = toDomain(models.CalculateRequest{
		Sex:           "M",
		IncludeEndAge: &no,
		Items:         []models.ItemRequest{{ProductCode: "A001", Quantity: &three}},
	})
	require.NoError(t, err)
	assert.False(t, window.IncludeEndAge)
	assert.Equal(t, 3, items[0].Quantity)

	_, _, err = toDomain(models.CalculateRequest{Sex: "U"})
	assert.Error(t, err)
}
