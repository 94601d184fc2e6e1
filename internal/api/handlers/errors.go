package handlers

import (
	"errors"
	"net/http"

	"premium-calc/internal/api/models"
	"premium-calc/internal/logging"
	"premium-calc/internal/premium"
	"premium-calc/internal/rates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type coded interface {
	error
	Code() string
}

// statusByCode maps typed-error codes to HTTP statuses. Unknown codes are 500.
var statusByCode = map[string]int{
	"INVALID_REQUEST":      http.StatusBadRequest,
	"INVALID_RANGE":        http.StatusBadRequest,
	"INVALID_ITEM":         http.StatusBadRequest,
	"PRODUCT_NOT_FOUND":    http.StatusNotFound,
	"UNSUPPORTED_UNIT":     http.StatusUnprocessableEntity,
	"INCONSISTENT_UNIT":    http.StatusUnprocessableEntity,
	"MISSING_AGE_COVERAGE": http.StatusUnprocessableEntity,
	"ENCODING_ERROR":       http.StatusUnprocessableEntity,
	"PARSE_ERROR":          http.StatusUnprocessableEntity,
	"SCHEMA_ERROR":         http.StatusUnprocessableEntity,
	"DATA_TYPE_ERROR":      http.StatusUnprocessableEntity,
	"DUPLICATE_RATE":       http.StatusUnprocessableEntity,
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: msg,
		},
	})
}

// respondError writes err as an ErrorResponse, carrying the identifiers of typed errors in Details.
func respondError(c *gin.Context, err error) {
	var ce coded
	if !errors.As(err, &ce) {
		logging.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	status, ok := statusByCode[ce.Code()]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    ce.Code(),
			Message: err.Error(),
			Details: errorDetails(err),
		},
	})
}

func errorDetails(err error) map[string]interface{} {
	var (
		notFound *premium.ProductNotFoundError
		mixed    *premium.InconsistentUnitError
		gaps     *premium.MissingAgeCoverageError
		unit     *premium.UnsupportedUnitError
		rng      *premium.InvalidRangeError
		schema   *rates.SchemaError
		parse    *rates.ParseError
		encoding *rates.EncodingError
		dup      *rates.DuplicateRateError
	)
	switch {
	case errors.As(err, &notFound):
		return map[string]interface{}{"product_code": notFound.Product, "sex": notFound.Sex}
	case errors.As(err, &mixed):
		return map[string]interface{}{"product_code": mixed.Product, "units": mixed.Units}
	case errors.As(err, &gaps):
		return map[string]interface{}{"product_code": gaps.Product, "sex": gaps.Sex, "missing_ages": gaps.Ages}
	case errors.As(err, &unit):
		return map[string]interface{}{"product_code": unit.Product, "unit": unit.Unit}
	case errors.As(err, &rng):
		return map[string]interface{}{"start_age": rng.StartAge, "end_age": rng.EndAge}
	case errors.As(err, &schema):
		return map[string]interface{}{"source": schema.Source, "missing_columns": schema.Missing}
	case len(rates.DataTypeErrors(err)) > 0:
		return dataTypeDetails(rates.DataTypeErrors(err))
	case errors.As(err, &parse):
		return map[string]interface{}{"source": parse.Source, "encoding": parse.Encoding}
	case errors.As(err, &encoding):
		return map[string]interface{}{"source": encoding.Source, "attempts": encoding.Attempts}
	case errors.As(err, &dup):
		return map[string]interface{}{"product_code": dup.ProductCode, "age": dup.Age, "rows": []string{dup.First, dup.Second}}
	}
	return nil
}

// dataTypeDetails describes the first failing category at the top level and lists every category under
// "problems".
func dataTypeDetails(all []*rates.DataTypeError) map[string]interface{} {
	problems := make([]map[string]interface{}, 0, len(all))
	for _, dt := range all {
		problems = append(problems, map[string]interface{}{
			"column": dt.Column,
			"reason": dt.Reason,
			"rows":   dt.Rows,
		})
	}
	details := problems[0]
	if len(problems) > 1 {
		details = map[string]interface{}{
			"column":   all[0].Column,
			"reason":   all[0].Reason,
			"rows":     all[0].Rows,
			"problems": problems,
		}
	}
	return details
}
