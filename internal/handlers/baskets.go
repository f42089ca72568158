package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/market-service/internal/database"
	"github.com/pricecomparator/market-service/internal/optimizer"
)

// SaveBasketRequest represents a basket to persist
type SaveBasketRequest struct {
	Name  string   `json:"name" binding:"required"`
	Items []string `json:"items" binding:"required,min=1"`
}

func requirePersistence(c *gin.Context) bool {
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence not configured"})
		return false
	}
	return true
}

func basketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid basket ID"})
		return 0, false
	}
	return id, true
}

// CreateBasket persists a named basket.
// POST /v1/baskets
func CreateBasket(c *gin.Context) {
	if !requirePersistence(c) {
		return
	}

	var req SaveBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	basket := &database.SavedBasket{Name: req.Name, Items: req.Items}
	if err := basketRepo.Create(c.Request.Context(), basket); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save basket"})
		return
	}
	c.JSON(http.StatusCreated, basket)
}

// ListBaskets returns every saved basket.
// GET /v1/baskets
func ListBaskets(c *gin.Context) {
	if !requirePersistence(c) {
		return
	}

	baskets, err := basketRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list baskets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"baskets": baskets})
}

// GetBasket returns one saved basket.
// GET /v1/baskets/:id
func GetBasket(c *gin.Context) {
	if !requirePersistence(c) {
		return
	}
	id, ok := basketID(c)
	if !ok {
		return
	}

	basket, err := basketRepo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrBasketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "basket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get basket"})
		return
	}
	c.JSON(http.StatusOK, basket)
}

// DeleteBasket removes a saved basket.
// DELETE /v1/baskets/:id
func DeleteBasket(c *gin.Context) {
	if !requirePersistence(c) {
		return
	}
	id, ok := basketID(c)
	if !ok {
		return
	}

	if err := basketRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrBasketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "basket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete basket"})
		return
	}
	c.Status(http.StatusNoContent)
}

// OptimizeBasket optimizes a saved basket at a date.
// POST /v1/baskets/:id/optimize?date=YYYY-MM-DD
func OptimizeBasket(c *gin.Context) {
	if !requirePersistence(c) {
		return
	}
	id, ok := basketID(c)
	if !ok {
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}

	basket, err := basketRepo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrBasketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "basket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get basket"})
		return
	}

	result, err := basketOptimizer.Optimize(&optimizer.OptimizeRequest{
		Basket: basket.Items,
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
