package market

import "sort"

// Repository pairs a catalog store with a discount store and answers the
// combined questions the query components ask: what does a product cost at a
// store on a date, and what is the cheapest discount-adjusted offer anywhere.
// Read-only like its parts.
type Repository struct {
	catalogs  *CatalogStore
	discounts *DiscountStore
	stores    []string
}

// NewRepository builds a repository over loaded stores.
func NewRepository(catalogs *CatalogStore, discounts *DiscountStore) *Repository {
	seen := make(map[string]bool)
	var stores []string
	for _, s := range catalogs.Stores() {
		if !seen[s] {
			seen[s] = true
			stores = append(stores, s)
		}
	}
	for _, s := range discounts.Stores() {
		if !seen[s] {
			seen[s] = true
			stores = append(stores, s)
		}
	}
	sort.Strings(stores)
	return &Repository{catalogs: catalogs, discounts: discounts, stores: stores}
}

// Catalogs exposes the underlying catalog store.
func (r *Repository) Catalogs() *CatalogStore { return r.catalogs }

// Discounts exposes the underlying discount store.
func (r *Repository) Discounts() *DiscountStore { return r.discounts }

// Stores returns every store known to either side, sorted.
func (r *Repository) Stores() []string { return r.stores }

// FindProduct resolves a product in the store's as-of catalog.
func (r *Repository) FindProduct(store, productID string, date Date) (ProductSnapshot, bool) {
	return r.catalogs.FindProduct(store, productID, date)
}

// FindDiscount returns the active discount for a product at a store.
func (r *Repository) FindDiscount(store, productID string, date Date) (DiscountInterval, bool) {
	return r.discounts.FindDiscount(store, productID, date)
}

// Offer is one store's discount-adjusted price for a product on a date.
type Offer struct {
	Store     string  `json:"store"`
	ListPrice float64 `json:"listPrice"`
	Price     float64 `json:"price"` // list price after the active discount
	Percent   int     `json:"percent"`
}

// OfferAt returns the store's offer for a product, applying the active
// discount when one exists (0% otherwise).
func (r *Repository) OfferAt(store, productID string, date Date) (Offer, bool) {
	p, ok := r.catalogs.FindProduct(store, productID, date)
	if !ok {
		return Offer{}, false
	}
	offer := Offer{Store: store, ListPrice: p.Price, Price: p.Price}
	if d, ok := r.discounts.FindDiscount(store, productID, date); ok {
		offer.Percent = d.Percent
		offer.Price = DiscountedPrice(p.Price, d.Percent)
	}
	return offer, true
}

// BestOffer scans every store carrying the product and returns the one with
// the strictly lowest discount-adjusted price. Stores are visited in sorted
// order and the first found wins ties, so the result is deterministic.
func (r *Repository) BestOffer(productID string, date Date) (Offer, bool) {
	var best Offer
	found := false
	for _, store := range r.stores {
		offer, ok := r.OfferAt(store, productID, date)
		if !ok {
			continue
		}
		if !found || offer.Price < best.Price {
			best = offer
			found = true
		}
	}
	return best, found
}
