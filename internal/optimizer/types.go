package optimizer

import (
	"fmt"

	"github.com/pricecomparator/market-service/internal/market"
)

// OptimizeRequest contains the parameters for basket optimization.
type OptimizeRequest struct {
	Basket []string    // product IDs; repetition denotes quantity
	Date   market.Date // pricing date
}

// basketEntry is one collapsed (productID, quantity) pair.
type basketEntry struct {
	ProductID string
	Quantity  int
}

// collapse folds the basket multiset into (productID, quantity) pairs,
// preserving first-seen order for display.
func collapse(basket []string) []basketEntry {
	index := make(map[string]int, len(basket))
	var entries []basketEntry
	for _, id := range basket {
		if at, ok := index[id]; ok {
			entries[at].Quantity++
			continue
		}
		index[id] = len(entries)
		entries = append(entries, basketEntry{ProductID: id, Quantity: 1})
	}
	return entries
}

// BasketLine is one priced line in a store's shopping list.
type BasketLine struct {
	ProductID       string  `json:"productId"`
	Name            string  `json:"name"`
	Quantity        int     `json:"quantity"`
	UnitListPrice   float64 `json:"unitListPrice"`
	UnitPrice       float64 `json:"unitPrice"` // after discount
	DiscountPercent int     `json:"discountPercent,omitempty"`
	LineTotal       float64 `json:"lineTotal"` // UnitPrice * Quantity
	Currency        string  `json:"currency,omitempty"`
}

// StoreList is the shopping list assigned to one winning store.
type StoreList struct {
	Store    string        `json:"store"`
	Lines    []*BasketLine `json:"lines"`
	Subtotal float64       `json:"subtotal"`
}

// Result is the optimized split of a basket across stores.
type Result struct {
	Date            market.Date  `json:"date"`
	Stores          []*StoreList `json:"stores"`
	Missing         []string     `json:"missing,omitempty"` // product IDs found nowhere
	OriginalTotal   float64      `json:"originalTotal"`     // selected offers at list price
	DiscountedTotal float64      `json:"discountedTotal"`
	Savings         float64      `json:"savings"`
}

// OptimizerConfig contains configuration settings for the basket optimizer.
type OptimizerConfig struct {
	MaxBasketItems int // maximum items allowed in a basket
	MinBasketItems int // minimum items required for optimization
}

// DefaultOptimizerConfig returns the default configuration for the optimizer.
func DefaultOptimizerConfig() *OptimizerConfig {
	return &OptimizerConfig{
		MaxBasketItems: 100,
		MinBasketItems: 1,
	}
}

// Validate validates the optimization request and returns an error if invalid.
func (r *OptimizeRequest) Validate(cfg *OptimizerConfig) error {
	if len(r.Basket) < cfg.MinBasketItems {
		return ErrInvalidRequest{Field: "basket", Reason: "must have at least one item"}
	}
	if len(r.Basket) > cfg.MaxBasketItems {
		return ErrInvalidRequest{Field: "basket", Reason: "exceeds maximum allowed"}
	}
	for i, id := range r.Basket {
		if id == "" {
			return ErrInvalidRequest{Field: "basket", Reason: fmt.Sprintf("item at index %d has empty product ID", i)}
		}
	}
	if r.Date.IsZero() {
		return ErrInvalidRequest{Field: "date", Reason: "cannot be empty"}
	}
	return nil
}

// ErrInvalidRequest is returned when the optimization request is invalid.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}
