package handlers

import (
	"net/http"

	"premium-calc/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ProductHandler serves the product catalogue
type ProductHandler struct {
	store RateStore
}

func NewProductHandler(store RateStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products := h.store.Current().Products()
	c.JSON(http.StatusOK, models.ProductsResponse{
		Products: products,
		Count:    len(products),
	})
}
