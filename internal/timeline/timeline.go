// Package timeline reconstructs chronological price histories by merging
// catalog snapshot changes with discount windows across stores.
package timeline

import (
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/matching"
)

// ErrProductNotFound is returned when the product ID appears in no catalog
// published at or before the cutoff date.
var ErrProductNotFound = errors.New("product not found")

// Filters optionally restricts the reconstruction. Empty fields match
// everything; comparisons are case-insensitive.
type Filters struct {
	Category string
	Brand    string
	Store    string
}

// Result is the reconstructed history plus the distinct filter values
// observed, for the caller to present as available refinements.
type Result struct {
	ProductName string                         `json:"productName"`
	Points      map[string][]market.PricePoint `json:"points"` // store -> date-ascending
	Categories  []string                       `json:"categories"`
	Brands      []string                       `json:"brands"`
	Stores      []string                       `json:"stores"`
}

// Reconstructor builds per-store price timelines for one product identity.
type Reconstructor struct {
	repo   *market.Repository
	logger zerolog.Logger
}

// NewReconstructor creates a timeline reconstructor over the repository.
func NewReconstructor(repo *market.Repository) *Reconstructor {
	return &Reconstructor{
		repo:   repo,
		logger: log.With().Str("component", "timeline").Logger(),
	}
}

// Timeline reconstructs the price history of the product identified by
// productID up to cutoff.
//
// The display name resolved for productID re-associates store-local IDs
// across stores by case-insensitive exact name match. Per store, one base
// point is inserted at each snapshot's publication date, then one discounted
// point at each discount window's start (priced off the snapshot applicable
// there) and a reversion point the day after expiry when a snapshot is
// applicable then. A later insert at the same date overwrites an earlier one,
// so discount points take precedence over base points.
func (r *Reconstructor) Timeline(productID string, cutoff market.Date, filters Filters) (*Result, error) {
	storeProducts := r.repo.Catalogs().ResolveAllCatalogsBefore(cutoff)
	storeDiscounts := r.repo.Discounts().AllDiscountsBefore(cutoff)

	targetName, ok := findNameByID(productID, storeProducts)
	if !ok {
		return nil, ErrProductNotFound
	}
	nameKey := matching.NormalizeName(targetName)

	// Store-local IDs carrying the target name, per store.
	matchingIDs := make(map[string]map[string]bool)
	for store, products := range storeProducts {
		for _, p := range products {
			if matching.NormalizeName(p.Name) == nameKey {
				if matchingIDs[store] == nil {
					matchingIDs[store] = make(map[string]bool)
				}
				matchingIDs[store][p.ID] = true
			}
		}
	}

	result := &Result{
		ProductName: targetName,
		Points:      make(map[string][]market.PricePoint),
	}
	r.collectObserved(result, nameKey, storeProducts, matchingIDs)

	for store, ids := range matchingIDs {
		if filters.Store != "" && !strings.EqualFold(store, filters.Store) {
			continue
		}

		candidates := filterCandidates(storeProducts[store], ids, filters)
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].PublishedAt.Before(candidates[j].PublishedAt.Time)
		})

		points := make(map[market.Date]market.PricePoint)

		for _, p := range candidates {
			if p.PublishedAt.IsZero() {
				r.logger.Warn().
					Str("store", store).
					Str("product", p.Name).
					Msg("Snapshot has no publication date, skipping")
				continue
			}
			points[p.PublishedAt] = market.PricePoint{
				ProductID: p.ID,
				Name:      p.Name,
				Category:  p.Category,
				Brand:     p.Brand,
				Price:     p.Price,
				Store:     store,
				Date:      p.PublishedAt,
			}
		}

		for _, d := range storeDiscounts[store] {
			if !ids[d.ProductID] {
				continue
			}
			r.applyDiscount(points, candidates, d, store)
		}

		result.Points[store] = flatten(points)
	}

	return result, nil
}

// applyDiscount inserts the step-down point at the window start and the
// reversion point the day after expiry.
func (r *Reconstructor) applyDiscount(points map[market.Date]market.PricePoint, candidates []market.ProductSnapshot, d market.DiscountInterval, store string) {
	applicable, ok := snapshotAsOf(candidates, d.FromDate)
	if !ok {
		return
	}
	points[d.FromDate] = market.PricePoint{
		ProductID: applicable.ID,
		Name:      applicable.Name,
		Category:  applicable.Category,
		Brand:     applicable.Brand,
		Price:     market.DiscountedPrice(applicable.Price, d.Percent),
		Store:     store,
		Date:      d.FromDate,
	}

	dayAfter := d.ToDate.AddDays(1)
	after, ok := snapshotAsOf(candidates, dayAfter)
	if !ok {
		return
	}
	if _, taken := points[dayAfter]; taken {
		return
	}
	points[dayAfter] = market.PricePoint{
		ProductID: after.ID,
		Name:      after.Name,
		Category:  after.Category,
		Brand:     after.Brand,
		Price:     after.Price,
		Store:     store,
		Date:      dayAfter,
	}
}

// collectObserved records the distinct categories, brands and stores seen for
// the target name before filtering, sorted for stable presentation.
func (r *Reconstructor) collectObserved(result *Result, nameKey string, storeProducts map[string][]market.ProductSnapshot, matchingIDs map[string]map[string]bool) {
	categories := make(map[string]bool)
	brands := make(map[string]bool)
	for store, products := range storeProducts {
		if matchingIDs[store] == nil {
			continue
		}
		result.Stores = append(result.Stores, store)
		for _, p := range products {
			if matching.NormalizeName(p.Name) == nameKey {
				categories[p.Category] = true
				brands[p.Brand] = true
			}
		}
	}
	result.Categories = sortedKeys(categories)
	result.Brands = sortedKeys(brands)
	sort.Strings(result.Stores)
}

// findNameByID scans all catalogs for the product ID, visiting stores in
// sorted order so the resolved name is deterministic.
func findNameByID(productID string, storeProducts map[string][]market.ProductSnapshot) (string, bool) {
	stores := make([]string, 0, len(storeProducts))
	for store := range storeProducts {
		stores = append(stores, store)
	}
	sort.Strings(stores)
	for _, store := range stores {
		for _, p := range storeProducts[store] {
			if p.ID == productID {
				return p.Name, true
			}
		}
	}
	return "", false
}

// filterCandidates keeps the snapshots with a matching store-local ID that
// pass the category and brand filters.
func filterCandidates(products []market.ProductSnapshot, ids map[string]bool, filters Filters) []market.ProductSnapshot {
	var out []market.ProductSnapshot
	for _, p := range products {
		if !ids[p.ID] {
			continue
		}
		if filters.Category != "" && !strings.EqualFold(p.Category, filters.Category) {
			continue
		}
		if filters.Brand != "" && !strings.EqualFold(p.Brand, filters.Brand) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// snapshotAsOf returns the most recent candidate published at or before
// date. Candidates must already be sorted by publication date ascending.
func snapshotAsOf(candidates []market.ProductSnapshot, date market.Date) (market.ProductSnapshot, bool) {
	n := sort.Search(len(candidates), func(i int) bool {
		return candidates[i].PublishedAt.After(date.Time)
	})
	if n == 0 {
		return market.ProductSnapshot{}, false
	}
	return candidates[n-1], true
}

// flatten converts the date-keyed point map into a date-ascending sequence.
func flatten(points map[market.Date]market.PricePoint) []market.PricePoint {
	out := make([]market.PricePoint, 0, len(points))
	for _, p := range points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
