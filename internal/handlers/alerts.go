package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/market-service/internal/alerts"
)

// CreateAlertRequest represents a new price alert
type CreateAlertRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	ProductName string  `json:"productName"`
	TargetPrice float64 `json:"targetPrice" binding:"required,gt=0"`
	UserID      string  `json:"userId"`
}

// CreateAlert registers a price alert.
// POST /v1/alerts
func CreateAlert(c *gin.Context) {
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence not configured"})
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := &alerts.Alert{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		TargetPrice: req.TargetPrice,
		UserID:      req.UserID,
	}
	if err := alertService.Create(c.Request.Context(), alert); err != nil {
		var invalid alerts.ErrInvalidAlert
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create alert"})
		return
	}

	c.JSON(http.StatusCreated, alert)
}

// CheckAlerts evaluates active alerts at a date and returns those triggered.
// POST /v1/alerts/check?date=YYYY-MM-DD
func CheckAlerts(c *gin.Context) {
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence not configured"})
		return
	}

	date, ok := queryDate(c)
	if !ok {
		return
	}

	triggered, err := alertService.Check(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"triggered": triggered,
	})
}
