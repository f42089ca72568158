package market

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CatalogSnapshot is one dated product-list publication by one store. A new
// snapshot fully replaces the store's product list as of its date.
type CatalogSnapshot struct {
	Store    string
	Date     Date
	Products []ProductSnapshot
}

// CatalogStore holds a date-indexed series of catalog snapshots per store and
// resolves the catalog in effect at a query date. It is immutable after
// construction; every resolution is a pure function of (store, date) and safe
// for concurrent use.
type CatalogStore struct {
	series map[string]*asOfIndex[[]ProductSnapshot]
	stores []string
	logger zerolog.Logger

	// Single-date memo of ResolveAll. Scoped to this instance so two stores
	// built from different data cannot corrupt each other, and safe to
	// disable without changing outputs.
	cacheEnabled bool
	mu           sync.RWMutex
	cachedDate   Date
	cachedValid  bool
	cached       map[string][]ProductSnapshot
}

// CatalogOption configures a CatalogStore.
type CatalogOption func(*CatalogStore)

// WithoutResolveCache disables the per-date resolution memo.
func WithoutResolveCache() CatalogOption {
	return func(s *CatalogStore) { s.cacheEnabled = false }
}

// NewCatalogStore builds a store from loaded snapshots. Every product record
// is stamped with its snapshot's publication date.
func NewCatalogStore(snapshots []CatalogSnapshot, opts ...CatalogOption) *CatalogStore {
	byStore := make(map[string][]asOfEntry[[]ProductSnapshot])
	for _, snap := range snapshots {
		products := make([]ProductSnapshot, len(snap.Products))
		copy(products, snap.Products)
		for i := range products {
			products[i].PublishedAt = snap.Date
		}
		byStore[snap.Store] = append(byStore[snap.Store], asOfEntry[[]ProductSnapshot]{
			date:    snap.Date,
			payload: products,
		})
	}

	s := &CatalogStore{
		series:       make(map[string]*asOfIndex[[]ProductSnapshot], len(byStore)),
		stores:       make([]string, 0, len(byStore)),
		logger:       log.With().Str("component", "catalog_store").Logger(),
		cacheEnabled: true,
	}
	for store, entries := range byStore {
		s.series[store] = newAsOfIndex(entries)
		s.stores = append(s.stores, store)
	}
	sort.Strings(s.stores)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stores returns every known store name in sorted order, so callers iterating
// over stores produce deterministic results.
func (s *CatalogStore) Stores() []string {
	return s.stores
}

// ResolveCatalog returns the product list of the most recent snapshot for the
// store not after date, or an empty list when the store has published nothing
// yet. The returned slice is shared and must not be mutated.
func (s *CatalogStore) ResolveCatalog(store string, date Date) []ProductSnapshot {
	ix, ok := s.series[store]
	if !ok {
		return nil
	}
	products, ok := ix.Resolve(date)
	if !ok {
		return nil
	}
	return products
}

// ResolveAll returns the as-of catalog for every store at date. Stores with
// no snapshot at or before the date are omitted.
func (s *CatalogStore) ResolveAll(date Date) map[string][]ProductSnapshot {
	if s.cacheEnabled {
		s.mu.RLock()
		if s.cachedValid && s.cachedDate.Equal(date.Time) {
			cached := s.cached
			s.mu.RUnlock()
			return cached
		}
		s.mu.RUnlock()
	}

	result := make(map[string][]ProductSnapshot)
	for _, store := range s.stores {
		if products := s.ResolveCatalog(store, date); products != nil {
			result[store] = products
		}
	}

	if s.cacheEnabled {
		s.mu.Lock()
		s.cachedDate = date
		s.cached = result
		s.cachedValid = true
		s.mu.Unlock()
	}
	return result
}

// ResolveAllCatalogsBefore returns, per store, the union of every snapshot
// published at or before date, each record keeping its original publication
// date. This is deliberately a superset rather than a single as-of view; the
// timeline reconstructor needs every historical record.
func (s *CatalogStore) ResolveAllCatalogsBefore(date Date) map[string][]ProductSnapshot {
	result := make(map[string][]ProductSnapshot)
	for _, store := range s.stores {
		var all []ProductSnapshot
		for _, products := range s.series[store].Before(date) {
			all = append(all, products...)
		}
		if len(all) > 0 {
			result[store] = all
		}
	}
	return result
}

// FindProduct looks up a product by its store-scoped identifier in the
// catalog in effect at date.
func (s *CatalogStore) FindProduct(store, productID string, date Date) (ProductSnapshot, bool) {
	for _, p := range s.ResolveCatalog(store, date) {
		if p.ID == productID {
			return p, true
		}
	}
	return ProductSnapshot{}, false
}
