package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetValueRanking returns products ranked by price per base unit.
// GET /v1/value?category=&date=
func GetValueRanking(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	category := c.Query("category")

	entries := comparator.Rank(category, date)
	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"category": category,
		"entries":  entries,
	})
}

// GetProductValue compares one product's price per base unit across every
// store selling it, naming the store with the best value.
// GET /v1/products/:id/value?date=YYYY-MM-DD
func GetProductValue(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	productID := c.Param("id")

	value, found := comparator.ByProduct(productID, date)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found in any store"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"value": value,
	})
}
