package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"premium-calc/internal/api/models"
	"premium-calc/internal/logging"
	"premium-calc/internal/model"
	"premium-calc/internal/premium"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Export tables selectable with ?table=
const (
	TableYear   = "year"
	TableDetail = "detail"
)

var exportFilenames = map[string]string{
	TableYear:   "year_sum.csv",
	TableDetail: "detail_by_product.csv",
}

// PremiumHandler prices baskets against the active rate repository
type PremiumHandler struct {
	store RateStore
}

func NewPremiumHandler(store RateStore) *PremiumHandler {
	return &PremiumHandler{store: store}
}

// Calculate handles POST /api/v1/premiums
func (h *PremiumHandler) Calculate(c *gin.Context) {
	calc, ok := h.run(c)
	if !ok {
		return
	}
	res := calc.result

	resp := models.CalculateResponse{
		ID:     calc.id,
		Status: "completed",
		Summary: models.CalculationSummary{
			Total:         res.Total,
			TotalRounded:  premium.RoundWhole(res.Total),
			Years:         len(res.YearSummary),
			ProductTotals: res.ProductTotals(),
		},
		YearSummary: res.YearSummary,
	}
	if calc.includeDetail {
		resp.Detail = res.Detail
	}
	c.JSON(http.StatusOK, resp)
}

// Export handles POST /api/v1/premiums/export?table=year|detail
func (h *PremiumHandler) Export(c *gin.Context) {
	table := c.DefaultQuery("table", TableYear)
	filename, known := exportFilenames[table]
	if !known {
		badRequest(c, fmt.Sprintf("table must be %q or %q, got %q", TableYear, TableDetail, table))
		return
	}

	calc, ok := h.run(c)
	if !ok {
		return
	}
	res := calc.result

	// Buffer so a write failure can still be reported as JSON.
	var buf bytes.Buffer
	var err error
	if table == TableDetail {
		err = premium.WriteDetailCSV(&buf, res.Detail)
	} else {
		err = premium.WriteYearSummaryCSV(&buf, res.YearSummary)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type calculation struct {
	id            string
	includeDetail bool
	result        *premium.Result
}

// run binds the request and calculates. On failure the response has been written and ok is false.
func (h *PremiumHandler) run(c *gin.Context) (*calculation, bool) {
	var req models.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return nil, false
	}

	items, window, err := toDomain(req)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}

	id := uuid.New().String()
	log := logging.With(zap.String("id", id))
	start := time.Now()
	res, err := premium.New(h.store.Current()).Calculate(items, window)
	if err != nil {
		log.Warn("premium calculation rejected", zap.Error(err))
		respondError(c, err)
		return nil, false
	}

	log.Info("premium calculated",
		zap.String("sex", string(window.Sex)),
		zap.Int("start_age", window.StartAge),
		zap.Int("end_age", window.EndAge),
		zap.Int("items", len(items)),
		zap.String("total", res.Total.String()),
		zap.Duration("elapsed", time.Since(start)))
	return &calculation{id: id, includeDetail: req.IncludeDetail, result: res}, true
}

func toDomain(req models.CalculateRequest) ([]model.RequestedItem, model.PolicyWindow, error) {
	sex, err := model.ParseSex(req.Sex)
	if err != nil {
		return nil, model.PolicyWindow{}, err
	}
	window := model.PolicyWindow{
		Sex:           sex,
		StartAge:      req.StartAge,
		EndAge:        req.EndAge,
		IncludeEndAge: true,
	}
	if req.IncludeEndAge != nil {
		window.IncludeEndAge = *req.IncludeEndAge
	}

	items := make([]model.RequestedItem, 0, len(req.Items))
	for _, it := range req.Items {
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items = append(items, model.RequestedItem{
			ProductCode: it.ProductCode,
			FaceAmount:  it.FaceAmount,
			Quantity:    qty,
		})
	}
	return items, window, nil
}
