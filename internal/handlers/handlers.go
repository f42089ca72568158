// Package handlers exposes the market engine over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/market-service/internal/alerts"
	"github.com/pricecomparator/market-service/internal/database"
	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/optimizer"
	"github.com/pricecomparator/market-service/internal/timeline"
	"github.com/pricecomparator/market-service/internal/valueunit"
)

// Global instances (initialized by the application)
var (
	repo            *market.Repository
	basketOptimizer *optimizer.BasketOptimizer
	reconstructor   *timeline.Reconstructor
	comparator      *valueunit.Comparator
	alertService    *alerts.Service
	basketRepo      *database.BasketRepository
	db              *database.DB
)

// Init wires the handler package to the application's components. A nil d
// disables the persistence endpoints.
// This should be called during application startup.
func Init(r *market.Repository, opt *optimizer.BasketOptimizer, svc *alerts.Service, baskets *database.BasketRepository, d *database.DB) {
	repo = r
	basketOptimizer = opt
	reconstructor = timeline.NewReconstructor(r)
	comparator = valueunit.NewComparator(r)
	alertService = svc
	basketRepo = baskets
	db = d
}

// queryDate parses the date query parameter, defaulting to today. On a
// malformed value it writes a 400 response and reports false.
func queryDate(c *gin.Context) (market.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		return market.Today(), true
	}
	date, err := market.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return market.Date{}, false
	}
	return date, true
}
