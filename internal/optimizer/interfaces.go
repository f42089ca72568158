package optimizer

import "github.com/pricecomparator/market-service/internal/market"

// PriceSource defines the read-only market view the optimizer needs. This
// keeps the optimizer decoupled from the snapshot store implementation;
// *market.Repository satisfies it.
type PriceSource interface {
	// Stores returns every store name in a stable order. The order fixes
	// tie-breaks, so it must not vary between calls.
	Stores() []string

	// FindProduct resolves a product in the store's as-of catalog at date.
	FindProduct(store, productID string, date market.Date) (market.ProductSnapshot, bool)

	// OfferAt returns the store's discount-adjusted offer for a product.
	OfferAt(store, productID string, date market.Date) (market.Offer, bool)
}
