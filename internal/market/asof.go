package market

import "sort"

// asOfEntry pairs a payload with the date it was published.
type asOfEntry[T any] struct {
	date    Date
	payload T
}

// asOfIndex answers "most recent entry not after X" over a date-ascending
// series. It is built once and never mutated, so lookups are safe for
// concurrent use. Catalog resolution, discount-applicability lookups and
// timeline base-point assignment all share this one structure.
type asOfIndex[T any] struct {
	entries []asOfEntry[T]
}

// newAsOfIndex builds an index from unordered (date, payload) pairs.
// Entries sharing a date keep their input order; Resolve returns the last of
// them, so a later duplicate publication replaces an earlier one.
func newAsOfIndex[T any](entries []asOfEntry[T]) *asOfIndex[T] {
	sorted := make([]asOfEntry[T], len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date.Time)
	})
	return &asOfIndex[T]{entries: sorted}
}

// Resolve returns the payload with the greatest date not after the query
// date, or false when every entry is in the future.
func (ix *asOfIndex[T]) Resolve(date Date) (T, bool) {
	// First entry strictly after date; the one before it is the answer.
	n := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].date.After(date.Time)
	})
	if n == 0 {
		var zero T
		return zero, false
	}
	return ix.entries[n-1].payload, true
}

// Before returns every payload whose date is not after the query date,
// oldest first.
func (ix *asOfIndex[T]) Before(date Date) []T {
	n := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].date.After(date.Time)
	})
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ix.entries[i].payload)
	}
	return out
}

// Len returns the number of indexed entries.
func (ix *asOfIndex[T]) Len() int {
	return len(ix.entries)
}
