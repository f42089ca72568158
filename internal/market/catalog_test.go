package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshots() []CatalogSnapshot {
	return []CatalogSnapshot{
		{
			Store: "Lidl",
			Date:  MustDate("2025-05-01"),
			Products: []ProductSnapshot{
				{ID: "P001", Name: "Lapte zuzu", Category: "lactate", Brand: "Zuzu", Quantity: 1, Unit: "l", Price: 9.90, Currency: "RON"},
				{ID: "P002", Name: "Banane", Category: "fructe", Brand: "", Quantity: 1, Unit: "kg", Price: 10.00, Currency: "RON"},
			},
		},
		{
			Store: "Lidl",
			Date:  MustDate("2025-05-08"),
			Products: []ProductSnapshot{
				{ID: "P001", Name: "Lapte zuzu", Category: "lactate", Brand: "Zuzu", Quantity: 1, Unit: "l", Price: 10.50, Currency: "RON"},
			},
		},
		{
			Store: "Profi",
			Date:  MustDate("2025-05-03"),
			Products: []ProductSnapshot{
				{ID: "X9", Name: "Banane", Category: "fructe", Brand: "", Quantity: 1, Unit: "kg", Price: 9.00, Currency: "RON"},
			},
		},
	}
}

func TestResolveCatalogBetweenSnapshots(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	products := s.ResolveCatalog("Lidl", MustDate("2025-05-05"))
	require.Len(t, products, 2)
	assert.Equal(t, 9.90, products[0].Price)
	assert.Equal(t, MustDate("2025-05-01"), products[0].PublishedAt)
}

func TestResolveCatalogNewSnapshotReplacesOld(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	products := s.ResolveCatalog("Lidl", MustDate("2025-05-08"))
	require.Len(t, products, 1)
	assert.Equal(t, 10.50, products[0].Price)
}

func TestResolveCatalogBeforeFirstPublication(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	assert.Nil(t, s.ResolveCatalog("Lidl", MustDate("2025-04-30")))
}

func TestResolveCatalogUnknownStore(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	assert.Nil(t, s.ResolveCatalog("Kaufland", MustDate("2025-05-05")))
}

func TestStoresSorted(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	assert.Equal(t, []string{"Lidl", "Profi"}, s.Stores())
}

func TestResolveAllOmitsUnpublishedStores(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	all := s.ResolveAll(MustDate("2025-05-02"))
	require.Contains(t, all, "Lidl")
	assert.NotContains(t, all, "Profi")
}

func TestResolveAllMemoReturnsSameResult(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	first := s.ResolveAll(MustDate("2025-05-05"))
	second := s.ResolveAll(MustDate("2025-05-05"))
	assert.Equal(t, first, second)

	// A different date invalidates the memo rather than serving stale data.
	later := s.ResolveAll(MustDate("2025-05-08"))
	require.Len(t, later["Lidl"], 1)
}

func TestResolveAllWithoutCacheMatchesCached(t *testing.T) {
	cached := NewCatalogStore(testSnapshots())
	uncached := NewCatalogStore(testSnapshots(), WithoutResolveCache())

	date := MustDate("2025-05-05")
	assert.Equal(t, cached.ResolveAll(date), uncached.ResolveAll(date))
}

func TestResolveAllCatalogsBeforeKeepsPublicationDates(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	all := s.ResolveAllCatalogsBefore(MustDate("2025-05-10"))
	require.Len(t, all["Lidl"], 3)

	dates := make(map[string]int)
	for _, p := range all["Lidl"] {
		dates[p.PublishedAt.String()]++
	}
	assert.Equal(t, 2, dates["2025-05-01"])
	assert.Equal(t, 1, dates["2025-05-08"])
}

func TestFindProduct(t *testing.T) {
	s := NewCatalogStore(testSnapshots())

	p, ok := s.FindProduct("Lidl", "P002", MustDate("2025-05-05"))
	require.True(t, ok)
	assert.Equal(t, "Banane", p.Name)

	// P002 disappeared from the 05-08 snapshot.
	_, ok = s.FindProduct("Lidl", "P002", MustDate("2025-05-09"))
	assert.False(t, ok)
}
