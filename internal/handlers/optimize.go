package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/optimizer"
)

// OptimizeRequest represents the basket optimization request
type OptimizeRequest struct {
	Basket []string `json:"basket" binding:"required,min=1"`
	Date   string   `json:"date,omitempty"`
}

// Optimize handles basket optimization
// POST /v1/basket/optimize
func Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := market.Today()
	if req.Date != "" {
		parsed, err := market.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date = parsed
	}

	result, err := basketOptimizer.Optimize(&optimizer.OptimizeRequest{
		Basket: req.Basket,
		Date:   date,
	})
	if err != nil {
		var invalid optimizer.ErrInvalidRequest
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "optimization failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
