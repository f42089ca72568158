// Package valueunit normalizes product prices to a common base unit so that
// differently sized packages can be compared by value.
package valueunit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/matching"
)

// Base units and their sub-unit conversions. Small units (grams,
// milliliters) are scaled to price per kilogram/liter; count-like units
// (bucata, rola) and already-base units divide by quantity directly.
const (
	factorSubUnit = 1000
)

var subUnits = map[string]string{
	"g":  "kg",
	"ml": "l",
}

var baseUnits = map[string]bool{
	"kg":   true,
	"l":    true,
	"buc":  true,
	"role": true,
}

// ValueEntry is one product priced per base unit.
type ValueEntry struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	Store        string  `json:"store"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
	PricePerUnit float64 `json:"pricePerUnit"`
	BaseUnit     string  `json:"baseUnit"`
	Comparable   bool    `json:"comparable"` // false when the unit is unknown
}

// Comparator computes per-base-unit prices over the resolved catalogs.
type Comparator struct {
	repo   *market.Repository
	logger zerolog.Logger
}

// NewComparator creates a value comparator over the repository.
func NewComparator(repo *market.Repository) *Comparator {
	return &Comparator{
		repo:   repo,
		logger: log.With().Str("component", "valueunit").Logger(),
	}
}

// PricePerUnit converts a package price to the price per base unit.
//
// Grams and milliliters scale by 1000 to price per kilogram/liter. Units
// already at base granularity divide by quantity. Unknown units yield the
// raw price, flagged non-comparable, with a diagnostic so bad input data
// surfaces in logs instead of silently skewing rankings.
func (c *Comparator) PricePerUnit(price, quantity float64, unit string) (perUnit float64, baseUnit string, comparable bool) {
	if quantity <= 0 {
		c.logger.Warn().
			Float64("quantity", quantity).
			Str("unit", unit).
			Msg("Non-positive quantity, price left unscaled")
		return price, unit, false
	}

	u := strings.ToLower(strings.TrimSpace(unit))
	if base, ok := subUnits[u]; ok {
		return price / quantity * factorSubUnit, base, true
	}
	if baseUnits[u] {
		return price / quantity, u, true
	}

	c.logger.Warn().
		Str("unit", unit).
		Msg("Unknown unit, price left unscaled")
	return price, unit, false
}

// ProductValue is one product's per-store normalized price view.
type ProductValue struct {
	ProductID string             `json:"productId"`
	Name      string             `json:"name"`
	Entries   []ValueEntry       `json:"entries"`
	PerStore  map[string]float64 `json:"perStore"`
	BestStore string             `json:"bestStore,omitempty"`
}

// ByProduct normalizes one product's price per base unit in every store
// selling it at date. The display name is resolved from the ID, same-name
// entries in other stores are pulled in (trimmed case-insensitive match, the
// same identity the timeline uses), and the comparable store with the lowest
// normalized price wins; stores with unknown units only win when nothing is
// comparable. Reports false when no store sells the product. When a store
// lists the name more than once the last row wins, so each store contributes
// one entry.
func (c *Comparator) ByProduct(productID string, date market.Date) (ProductValue, bool) {
	catalogs := c.repo.Catalogs().ResolveAll(date)

	stores := make([]string, 0, len(catalogs))
	for store := range catalogs {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	var name string
	found := false
	for _, store := range stores {
		for _, p := range catalogs[store] {
			if p.ID == productID {
				name = p.Name
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return ProductValue{}, false
	}

	result := ProductValue{
		ProductID: productID,
		Name:      name,
		PerStore:  make(map[string]float64),
	}
	for _, store := range stores {
		var entry *ValueEntry
		for _, p := range catalogs[store] {
			if !matching.SameName(p.Name, name) {
				continue
			}
			offer, ok := c.repo.OfferAt(store, p.ID, date)
			if !ok {
				continue
			}
			perUnit, base, comparable := c.PricePerUnit(offer.Price, p.Quantity, p.Unit)
			entry = &ValueEntry{
				ProductID:    p.ID,
				Name:         p.Name,
				Brand:        p.Brand,
				Store:        store,
				Quantity:     p.Quantity,
				Unit:         p.Unit,
				Price:        offer.Price,
				PricePerUnit: perUnit,
				BaseUnit:     base,
				Comparable:   comparable,
			}
		}
		if entry != nil {
			result.Entries = append(result.Entries, *entry)
			result.PerStore[store] = entry.PricePerUnit
		}
	}

	// Same ordering rule as Rank: comparable entries beat non-comparable
	// ones, then the lowest normalized price wins. Entries arrive in sorted
	// store order so ties break deterministically.
	var best *ValueEntry
	for i := range result.Entries {
		e := &result.Entries[i]
		switch {
		case best == nil:
			best = e
		case e.Comparable != best.Comparable:
			if e.Comparable {
				best = e
			}
		case e.PricePerUnit < best.PricePerUnit:
			best = e
		}
	}
	if best != nil {
		result.BestStore = best.Store
	}
	return result, true
}

// Rank returns all products in category, across every store's as-of catalog
// at date, ordered by ascending price per base unit. Non-comparable entries
// sort after comparable ones. An empty category ranks everything.
func (c *Comparator) Rank(category string, date market.Date) []ValueEntry {
	catalogs := c.repo.Catalogs().ResolveAll(date)

	stores := make([]string, 0, len(catalogs))
	for store := range catalogs {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	var entries []ValueEntry
	for _, store := range stores {
		for _, p := range catalogs[store] {
			if category != "" && !strings.EqualFold(p.Category, category) {
				continue
			}
			offer, ok := c.repo.OfferAt(store, p.ID, date)
			if !ok {
				continue
			}
			perUnit, base, comparable := c.PricePerUnit(offer.Price, p.Quantity, p.Unit)
			entries = append(entries, ValueEntry{
				ProductID:    p.ID,
				Name:         p.Name,
				Brand:        p.Brand,
				Store:        store,
				Quantity:     p.Quantity,
				Unit:         p.Unit,
				Price:        offer.Price,
				PricePerUnit: perUnit,
				BaseUnit:     base,
				Comparable:   comparable,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Comparable != entries[j].Comparable {
			return entries[i].Comparable
		}
		return entries[i].PricePerUnit < entries[j].PricePerUnit
	})
	return entries
}
