package handlers

import (
	"net/http"

	"premium-calc/internal/api/models"
	"premium-calc/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RatesHandler exposes the state of the rate repository and explicit reloads.
type RatesHandler struct {
	store RateStore
}

func NewRatesHandler(store RateStore) *RatesHandler {
	return &RatesHandler{store: store}
}

// Status handles GET /api/v1/rates
func (h *RatesHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status())
}

// Reload handles POST /api/v1/rates/reload. A failed reload leaves the previous tables active.
func (h *RatesHandler) Reload(c *gin.Context) {
	if err := h.store.Reload(); err != nil {
		respondError(c, err)
		return
	}
	st := h.status()
	logging.Info("rates reloaded", zap.String("dir", st.Dir), zap.Int("records", st.Records), zap.Strings("sources", st.Sources))
	c.JSON(http.StatusOK, st)
}

func (h *RatesHandler) status() models.RatesStatus {
	repo := h.store.Current()
	return models.RatesStatus{
		Dir:      h.store.Dir(),
		Sources:  repo.Sources(),
		Records:  repo.Len(),
		Products: len(repo.Products()),
		LoadedAt: h.store.LoadedAt(),
	}
}
