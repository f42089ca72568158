package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/market-service/internal/timeline"
)

// GetTimeline returns the reconstructed price history of a product.
// GET /v1/products/:id/timeline?date=&category=&brand=&store=
func GetTimeline(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}

	filters := timeline.Filters{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Store:    c.Query("store"),
	}

	result, err := reconstructor.Timeline(c.Param("id"), date, filters)
	if err != nil {
		if errors.Is(err, timeline.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "timeline reconstruction failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
