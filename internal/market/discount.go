package market

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DiscountStore holds the pooled discount intervals per store. Unlike
// catalogs, intervals from every publication are kept side by side because
// each already carries its own validity window. Immutable after construction.
type DiscountStore struct {
	byStore map[string][]DiscountInterval
	indexes map[string]*asOfIndex[DiscountInterval]
	stores  []string
	logger  zerolog.Logger
}

// NewDiscountStore builds a store from loaded intervals. Slice order within a
// store is preserved; it is the tie-break for overlapping discounts.
func NewDiscountStore(byStore map[string][]DiscountInterval) *DiscountStore {
	s := &DiscountStore{
		byStore: make(map[string][]DiscountInterval, len(byStore)),
		indexes: make(map[string]*asOfIndex[DiscountInterval], len(byStore)),
		stores:  make([]string, 0, len(byStore)),
		logger:  log.With().Str("component", "discount_store").Logger(),
	}
	for store, intervals := range byStore {
		pooled := make([]DiscountInterval, len(intervals))
		copy(pooled, intervals)
		s.byStore[store] = pooled

		entries := make([]asOfEntry[DiscountInterval], 0, len(pooled))
		for _, d := range pooled {
			entries = append(entries, asOfEntry[DiscountInterval]{date: d.PublishedAt, payload: d})
		}
		s.indexes[store] = newAsOfIndex(entries)
		s.stores = append(s.stores, store)
	}
	sort.Strings(s.stores)
	return s
}

// Stores returns every store with at least one discount, sorted.
func (s *DiscountStore) Stores() []string {
	return s.stores
}

// ActiveDiscounts returns the discounts whose window contains date for one
// store, in load order.
func (s *DiscountStore) ActiveDiscounts(store string, date Date) []DiscountInterval {
	var active []DiscountInterval
	for _, d := range s.byStore[store] {
		if d.ActiveOn(date) {
			active = append(active, d)
		}
	}
	return active
}

// FindDiscount returns the active discount for a product at a store, or false
// when none applies. When several windows overlap the same product and date
// the first one in load order wins; no priority field exists to rank them.
func (s *DiscountStore) FindDiscount(store, productID string, date Date) (DiscountInterval, bool) {
	for _, d := range s.byStore[store] {
		if d.ProductID == productID && d.ActiveOn(date) {
			return d, true
		}
	}
	return DiscountInterval{}, false
}

// AllDiscountsBefore returns, per store, every interval published at or
// before date, without window filtering. Timeline reconstruction applies its
// own window logic on top of this pooled view.
func (s *DiscountStore) AllDiscountsBefore(date Date) map[string][]DiscountInterval {
	result := make(map[string][]DiscountInterval)
	for _, store := range s.stores {
		intervals := s.indexes[store].Before(date)
		if len(intervals) > 0 {
			result[store] = intervals
		}
	}
	return result
}

// RankedDiscount pairs a discount with the store offering it.
type RankedDiscount struct {
	Store    string           `json:"store"`
	Discount DiscountInterval `json:"discount"`
}

// BestDiscounts returns the top active discounts on date ordered by
// percentage descending. An empty store selects across all stores. Equal
// percentages keep store order then load order, so the ranking is stable.
func (s *DiscountStore) BestDiscounts(store string, date Date, limit int) []RankedDiscount {
	var combined []RankedDiscount
	appendStore := func(name string) {
		for _, d := range s.ActiveDiscounts(name, date) {
			combined = append(combined, RankedDiscount{Store: name, Discount: d})
		}
	}
	if store == "" {
		for _, name := range s.stores {
			appendStore(name)
		}
	} else {
		appendStore(store)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Discount.Percent > combined[j].Discount.Percent
	})
	if limit > 0 && len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}

// NewestDiscounts returns, per store, the active discounts whose window
// starts exactly on date. An empty store selects across all stores.
func (s *DiscountStore) NewestDiscounts(store string, date Date) map[string][]DiscountInterval {
	stores := s.stores
	if store != "" {
		stores = []string{store}
	}
	result := make(map[string][]DiscountInterval)
	for _, name := range stores {
		var fresh []DiscountInterval
		for _, d := range s.ActiveDiscounts(name, date) {
			if d.FromDate.Equal(date.Time) {
				fresh = append(fresh, d)
			}
		}
		if len(fresh) > 0 {
			result[name] = fresh
		}
	}
	return result
}
