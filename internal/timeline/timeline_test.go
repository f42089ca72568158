package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecomparator/market-service/internal/market"
)

func buildRepo(snapshots []market.CatalogSnapshot, discounts map[string][]market.DiscountInterval) *market.Repository {
	return market.NewRepository(
		market.NewCatalogStore(snapshots),
		market.NewDiscountStore(discounts),
	)
}

func singleStoreRepo() *market.Repository {
	return buildRepo(
		[]market.CatalogSnapshot{
			{
				Store: "Lidl",
				Date:  market.MustDate("2025-05-01"),
				Products: []market.ProductSnapshot{
					{ID: "P001", Name: "Lapte zuzu", Category: "lactate", Brand: "Zuzu", Quantity: 1, Unit: "l", Price: 10.00, Currency: "RON"},
				},
			},
		},
		map[string][]market.DiscountInterval{
			"Lidl": {
				{ProductID: "P001", ProductName: "Lapte zuzu", FromDate: market.MustDate("2025-05-10"), ToDate: market.MustDate("2025-05-15"), Percent: 20, PublishedAt: market.MustDate("2025-05-10")},
			},
		},
	)
}

func TestTimelineDiscountStepDownAndReversion(t *testing.T) {
	r := NewReconstructor(singleStoreRepo())

	result, err := r.Timeline("P001", market.MustDate("2025-05-20"), Filters{})
	require.NoError(t, err)

	points := result.Points["Lidl"]
	require.Len(t, points, 3)

	assert.Equal(t, market.MustDate("2025-05-01"), points[0].Date)
	assert.InDelta(t, 10.00, points[0].Price, 1e-9)

	assert.Equal(t, market.MustDate("2025-05-10"), points[1].Date)
	assert.InDelta(t, 8.00, points[1].Price, 1e-9)

	assert.Equal(t, market.MustDate("2025-05-16"), points[2].Date)
	assert.InDelta(t, 10.00, points[2].Price, 1e-9)
}

func TestTimelineUnknownProduct(t *testing.T) {
	r := NewReconstructor(singleStoreRepo())

	_, err := r.Timeline("ghost", market.MustDate("2025-05-20"), Filters{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestTimelineCutoffHidesLaterPublications(t *testing.T) {
	r := NewReconstructor(singleStoreRepo())

	// Before the discount was published only the base point exists.
	result, err := r.Timeline("P001", market.MustDate("2025-05-05"), Filters{})
	require.NoError(t, err)

	points := result.Points["Lidl"]
	require.Len(t, points, 1)
	assert.InDelta(t, 10.00, points[0].Price, 1e-9)
}

func TestTimelineMatchesAcrossStoresByName(t *testing.T) {
	repo := buildRepo(
		[]market.CatalogSnapshot{
			{
				Store: "Lidl",
				Date:  market.MustDate("2025-05-01"),
				Products: []market.ProductSnapshot{
					{ID: "P001", Name: "Lapte zuzu", Category: "lactate", Brand: "Zuzu", Price: 10.00},
				},
			},
			{
				Store: "Profi",
				Date:  market.MustDate("2025-05-02"),
				Products: []market.ProductSnapshot{
					// Different local ID, same name up to case.
					{ID: "Z77", Name: "LAPTE ZUZU", Category: "lactate", Brand: "Zuzu", Price: 9.50},
				},
			},
		},
		nil,
	)
	r := NewReconstructor(repo)

	result, err := r.Timeline("P001", market.MustDate("2025-05-20"), Filters{})
	require.NoError(t, err)

	assert.Equal(t, "Lapte zuzu", result.ProductName)
	assert.Equal(t, []string{"Lidl", "Profi"}, result.Stores)
	require.Len(t, result.Points["Profi"], 1)
	assert.InDelta(t, 9.50, result.Points["Profi"][0].Price, 1e-9)
}

func TestTimelineStoreFilter(t *testing.T) {
	repo := buildRepo(
		[]market.CatalogSnapshot{
			{
				Store:    "Lidl",
				Date:     market.MustDate("2025-05-01"),
				Products: []market.ProductSnapshot{{ID: "P001", Name: "Banane", Price: 10.00}},
			},
			{
				Store:    "Profi",
				Date:     market.MustDate("2025-05-01"),
				Products: []market.ProductSnapshot{{ID: "X9", Name: "Banane", Price: 9.00}},
			},
		},
		nil,
	)
	r := NewReconstructor(repo)

	result, err := r.Timeline("P001", market.MustDate("2025-05-20"), Filters{Store: "profi"})
	require.NoError(t, err)

	assert.NotContains(t, result.Points, "Lidl")
	assert.Contains(t, result.Points, "Profi")
	// Observed stores stay unfiltered so the caller can present them.
	assert.Equal(t, []string{"Lidl", "Profi"}, result.Stores)
}

func TestTimelineBrandFilter(t *testing.T) {
	repo := buildRepo(
		[]market.CatalogSnapshot{
			{
				Store: "Lidl",
				Date:  market.MustDate("2025-05-01"),
				Products: []market.ProductSnapshot{
					{ID: "P001", Name: "Lapte", Brand: "Zuzu", Price: 10.00},
					{ID: "P002", Name: "Lapte", Brand: "Napolact", Price: 12.00},
				},
			},
		},
		nil,
	)
	r := NewReconstructor(repo)

	result, err := r.Timeline("P001", market.MustDate("2025-05-20"), Filters{Brand: "napolact"})
	require.NoError(t, err)

	points := result.Points["Lidl"]
	require.Len(t, points, 1)
	assert.InDelta(t, 12.00, points[0].Price, 1e-9)
	assert.Equal(t, []string{"Napolact", "Zuzu"}, result.Brands)
}

func TestTimelineDiscountPointOverwritesBasePoint(t *testing.T) {
	repo := buildRepo(
		[]market.CatalogSnapshot{
			{
				Store:    "Lidl",
				Date:     market.MustDate("2025-05-01"),
				Products: []market.ProductSnapshot{{ID: "P001", Name: "Banane", Price: 10.00}},
			},
			{
				// New snapshot published the same day a discount starts.
				Store:    "Lidl",
				Date:     market.MustDate("2025-05-10"),
				Products: []market.ProductSnapshot{{ID: "P001", Name: "Banane", Price: 12.00}},
			},
		},
		map[string][]market.DiscountInterval{
			"Lidl": {
				{ProductID: "P001", ProductName: "Banane", FromDate: market.MustDate("2025-05-10"), ToDate: market.MustDate("2025-05-12"), Percent: 50, PublishedAt: market.MustDate("2025-05-10")},
			},
		},
	)
	r := NewReconstructor(repo)

	result, err := r.Timeline("P001", market.MustDate("2025-05-20"), Filters{})
	require.NoError(t, err)

	points := result.Points["Lidl"]
	require.Len(t, points, 3)
	// The 05-10 point carries the discounted price off the 05-10 snapshot,
	// not the snapshot's list price.
	assert.Equal(t, market.MustDate("2025-05-10"), points[1].Date)
	assert.InDelta(t, 6.00, points[1].Price, 1e-9)
	// Reversion the day after expiry uses the applicable list price.
	assert.Equal(t, market.MustDate("2025-05-13"), points[2].Date)
	assert.InDelta(t, 12.00, points[2].Price, 1e-9)
}

func TestTimelineDiscountBeforeAnySnapshotIsSkipped(t *testing.T) {
	repo := buildRepo(
		[]market.CatalogSnapshot{
			{
				Store:    "Lidl",
				Date:     market.MustDate("2025-05-10"),
				Products: []market.ProductSnapshot{{ID: "P001", Name: "Banane", Price: 10.00}},
			},
		},
		map[string][]market.DiscountInterval{
			"Lidl": {
				// Window starts before the first snapshot; no list price is
				// known at its start, so it contributes nothing.
				{ProductID: "P001", ProductName: "Banane", FromDate: market.MustDate("2025-05-01"), ToDate: market.MustDate("2025-05-03"), Percent: 20, PublishedAt: market.MustDate("2025-05-01")},
			},
		},
	)
	r := NewReconstructor(repo)

	result, err := r.Timeline("P001", market.MustDate("2025-05-20"), Filters{})
	require.NoError(t, err)

	points := result.Points["Lidl"]
	require.Len(t, points, 1)
	assert.Equal(t, market.MustDate("2025-05-10"), points[0].Date)
	assert.InDelta(t, 10.00, points[0].Price, 1e-9)
}
