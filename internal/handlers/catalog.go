package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/market-service/internal/market"
)

// ListStores returns every store known to the repository.
// GET /v1/stores
func ListStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": repo.Stores()})
}

// GetCatalog returns the store's catalog as of the query date.
// GET /v1/stores/:store/catalog?date=YYYY-MM-DD
func GetCatalog(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	store := c.Param("store")

	// A store with nothing published at or before the date is an empty
	// catalog, not an error.
	products := repo.Catalogs().ResolveCatalog(store, date)
	if products == nil {
		products = []market.ProductSnapshot{}
	}
	c.JSON(http.StatusOK, gin.H{
		"store":    store,
		"date":     date,
		"products": products,
	})
}

// GetBestOffer returns the cheapest discount-adjusted offer for a product
// across all stores.
// GET /v1/products/:id/best-offer?date=YYYY-MM-DD
func GetBestOffer(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	productID := c.Param("id")

	offer, found := repo.BestOffer(productID, date)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found in any store"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"productId": productID,
		"date":      date,
		"offer":     offer,
	})
}
