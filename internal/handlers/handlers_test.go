package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecomparator/market-service/internal/alerts"
	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/optimizer"
	"github.com/pricecomparator/market-service/internal/valueunit"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	catalogs := market.NewCatalogStore([]market.CatalogSnapshot{
		{
			Store: "Lidl",
			Date:  market.MustDate("2025-05-01"),
			Products: []market.ProductSnapshot{
				{ID: "P001", Name: "Lapte zuzu", Category: "lactate", Brand: "Zuzu", Quantity: 1, Unit: "l", Price: 9.90, Currency: "RON"},
				{ID: "P002", Name: "Banane", Category: "fructe", Quantity: 1, Unit: "kg", Price: 10.00, Currency: "RON"},
			},
		},
		{
			Store: "Profi",
			Date:  market.MustDate("2025-05-01"),
			Products: []market.ProductSnapshot{
				{ID: "X9", Name: "Banane", Category: "fructe", Quantity: 1, Unit: "kg", Price: 9.00, Currency: "RON"},
			},
		},
	})
	discounts := market.NewDiscountStore(map[string][]market.DiscountInterval{
		"Profi": {
			{ProductID: "X9", ProductName: "Banane", FromDate: market.MustDate("2025-05-05"), ToDate: market.MustDate("2025-05-10"), Percent: 10, PublishedAt: market.MustDate("2025-05-05")},
		},
	})
	repo := market.NewRepository(catalogs, discounts)

	opt := optimizer.NewBasketOptimizer(repo, optimizer.DefaultOptimizerConfig())
	Init(repo, opt, alerts.NewService(repo, nil), nil, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/stores", ListStores)
	router.GET("/v1/stores/:store/catalog", GetCatalog)
	router.GET("/v1/stores/:store/discounts", GetActiveDiscounts)
	router.GET("/v1/products/:id/best-offer", GetBestOffer)
	router.GET("/v1/products/:id/timeline", GetTimeline)
	router.GET("/v1/products/:id/value", GetProductValue)
	router.GET("/v1/discounts/best", GetBestDiscounts)
	router.GET("/v1/value", GetValueRanking)
	router.POST("/v1/basket/optimize", Optimize)
	return router
}

func doGET(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListStoresEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/stores")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stores []string `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Lidl", "Profi"}, resp.Stores)
}

func TestGetCatalogEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/stores/Lidl/catalog?date=2025-05-05")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []market.ProductSnapshot `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
}

func TestGetCatalogBeforePublication(t *testing.T) {
	router := setupTestRouter(t)

	// No snapshot yet is an empty catalog, not an error.
	w := doGET(router, "/v1/stores/Lidl/catalog?date=2025-04-01")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []market.ProductSnapshot `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Products)
}

func TestGetCatalogBadDate(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/stores/Lidl/catalog?date=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBestOfferEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/products/X9/best-offer?date=2025-05-06")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Offer market.Offer `json:"offer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Profi", resp.Offer.Store)
	assert.InDelta(t, 8.10, resp.Offer.Price, 1e-9)
}

func TestGetBestOfferNotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/products/ghost/best-offer?date=2025-05-06")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTimelineEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/products/P002/timeline?date=2025-05-20")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ProductName string `json:"productName"`
		Stores      []string
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Banane", resp.ProductName)
}

func TestGetTimelineUnknownProduct(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/products/ghost/timeline?date=2025-05-20")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimizeEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	body, _ := json.Marshal(OptimizeRequest{
		Basket: []string{"X9", "P001"},
		Date:   "2025-05-06",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/basket/optimize", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result optimizer.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Stores, 2)
	assert.InDelta(t, 18.00, result.DiscountedTotal, 1e-9)
}

func TestOptimizeEndpointRejectsEmptyBasket(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/basket/optimize", bytes.NewBufferString(`{"basket":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBestDiscountsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/discounts/best?date=2025-05-06")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Discounts []market.RankedDiscount `json:"discounts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Discounts, 1)
	assert.Equal(t, 10, resp.Discounts[0].Discount.Percent)
}

func TestGetProductValueEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/products/P002/value?date=2025-05-06")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Value valueunit.ProductValue `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Banane", resp.Value.Name)
	assert.Len(t, resp.Value.Entries, 2)
	assert.Equal(t, "Profi", resp.Value.BestStore)
	assert.InDelta(t, 8.10, resp.Value.PerStore["Profi"], 1e-9)
}

func TestGetProductValueUnknownProduct(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/products/ghost/value?date=2025-05-06")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetValueRankingEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doGET(router, "/v1/value?category=fructe&date=2025-05-06")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []json.RawMessage `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
}
