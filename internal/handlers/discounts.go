package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetActiveDiscounts returns the discounts active at a store on a date.
// GET /v1/stores/:store/discounts?date=YYYY-MM-DD
func GetActiveDiscounts(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	store := c.Param("store")

	discounts := repo.Discounts().ActiveDiscounts(store, date)
	c.JSON(http.StatusOK, gin.H{
		"store":     store,
		"date":      date,
		"discounts": discounts,
	})
}

// GetBestDiscounts returns the highest-percentage active discounts.
// GET /v1/discounts/best?store=&date=&limit=
func GetBestDiscounts(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	ranked := repo.Discounts().BestDiscounts(c.Query("store"), date, limit)
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"discounts": ranked,
	})
}

// GetNewestDiscounts returns the discounts whose window starts on the date.
// GET /v1/discounts/new?store=&date=
func GetNewestDiscounts(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}

	fresh := repo.Discounts().NewestDiscounts(c.Query("store"), date)
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"discounts": fresh,
	})
}
