package api_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"premium-calc/internal/api"
	"premium-calc/internal/api/models"
	"premium-calc/internal/config"
	"premium-calc/internal/logging"
	"premium-calc/internal/rates"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func lifeTable(from, to int) string {
	var b strings.Builder
	b.WriteString("product_code,product_name,unit,age,sex,rate\n")
	for age := from; age <= to; age++ {
		fmt.Fprintf(&b, "A001,TestLife,per_10k,%d,M,5\n", age)
	}
	return b.String()
}

func setup(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A001.csv"), []byte(lifeTable(16, 40)), 0o644))

	store, err := rates.NewStore(dir)
	require.NoError(t, err)
	return api.NewRouter(config.Default(), store), dir
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func basket(start, end int, items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"sex":       "m",
		"start_age": start,
		"end_age":   end,
		"items":     items,
	}
}

func item(code string, amount interface{}) map[string]interface{} {
	return map[string]interface{}{"product_code": code, "face_amount": amount}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	router, _ := setup(t)
	w := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListProducts(t *testing.T) {
	router, _ := setup(t)
	w := do(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"products":[{"product_code":"A001","product_name":"TestLife"}],"count":1}`, w.Body.String())
}

func TestCalculate(t *testing.T) {
	router, _ := setup(t)

	body := basket(16, 18, item("A001", "1000000"))
	body["include_detail"] = true
	w := do(t, router, http.MethodPost, "/api/v1/premiums", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "1500", resp.Summary.Total.String())
	assert.Equal(t, 3, resp.Summary.Years)
	require.Len(t, resp.YearSummary, 3)
	assert.Equal(t, "1000", resp.YearSummary[1].Cumulative.String())
	require.Len(t, resp.Detail, 3)
	assert.Equal(t, 1, resp.Detail[0].Quantity)
	require.Len(t, resp.Summary.ProductTotals, 1)
	assert.Equal(t, "TestLife", resp.Summary.ProductTotals[0].ProductName)
}

func TestCalculate_LogsWithCalculationID(t *testing.T) {
	router, _ := setup(t)

	core, logs := observer.New(zap.InfoLevel)
	prev := logging.Logger
	logging.Logger = zap.New(core)
	t.Cleanup(func() { logging.Logger = prev })

	w := do(t, router, http.MethodPost, "/api/v1/premiums", basket(16, 18, item("A001", 10000)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	entries := logs.FilterMessage("premium calculated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, resp.ID, entries[0].ContextMap()["id"])
}

func TestCalculate_ExcludeEndAgeAndNoDetail(t *testing.T) {
	router, _ := setup(t)

	body := basket(16, 18, item("A001", 1000000))
	body["include_end_age"] = false
	w := do(t, router, http.MethodPost, "/api/v1/premiums", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Years)
	assert.Empty(t, resp.Detail)
}

func TestCalculate_Errors(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"malformed", "not an object", http.StatusBadRequest, "INVALID_REQUEST"},
		{"no items", basket(16, 18), http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad sex", map[string]interface{}{"sex": "X", "start_age": 16, "end_age": 18, "items": []interface{}{item("A001", 1)}}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"reversed range", basket(30, 20, item("A001", 1000)), http.StatusBadRequest, "INVALID_RANGE"},
		{"end age above limit", basket(16, 151, item("A001", 1000)), http.StatusBadRequest, "INVALID_REQUEST"},
		{"zero face amount", basket(16, 18, item("A001", 0)), http.StatusBadRequest, "INVALID_ITEM"},
		{"unknown product", basket(16, 18, item("NOPE", 1000)), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"age gap", basket(39, 42, item("A001", 1000)), http.StatusUnprocessableEntity, "MISSING_AGE_COVERAGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/premiums", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}

	t.Run("missing ages are listed", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/premiums", basket(39, 42, item("A001", 1000)))
		detail := decodeError(t, w)
		assert.Equal(t, []interface{}{41.0, 42.0}, detail.Details["missing_ages"])
	})
}

func TestExport(t *testing.T) {
	router, _ := setup(t)

	t.Run("year summary", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/premiums/export?table=year", basket(16, 17, item("A001", 10000)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "year_sum.csv")
		assert.True(t, strings.HasPrefix(w.Body.String(), "\ufeff"))

		rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(w.Body.String(), "\ufeff"))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"age", "total_premium", "cumulative_premium"},
			{"16", "5", "5"},
			{"17", "5", "10"},
		}, rows)
	})

	t.Run("detail", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/premiums/export?table=detail", basket(16, 16, item("A001", 10000)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "detail_by_product.csv")
		assert.Contains(t, w.Body.String(), "16,A001,TestLife,per_10k,10000,1,5,5")
	})

	t.Run("unknown table", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/premiums/export?table=weekly", basket(16, 16, item("A001", 10000)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReload(t *testing.T) {
	router, dir := setup(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "A001.csv"), []byte(lifeTable(16, 50)), 0o644))
	w := do(t, router, http.MethodPost, "/api/v1/rates/reload", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var st models.RatesStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 35, st.Records)
	assert.Equal(t, []string{"A001.csv"}, st.Sources)
	assert.Equal(t, dir, st.Dir)

	w = do(t, router, http.MethodPost, "/api/v1/premiums", basket(45, 50, item("A001", 10000)))
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("failed reload keeps previous tables", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "A001.csv"), []byte("product_code\nA001\n"), 0o644))
		w := do(t, router, http.MethodPost, "/api/v1/rates/reload", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "SCHEMA_ERROR", decodeError(t, w).Code)

		w = do(t, router, http.MethodGet, "/api/v1/rates", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
		assert.Equal(t, 35, st.Records)
	})
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/premiums", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
