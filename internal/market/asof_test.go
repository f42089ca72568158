package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(dates ...string) *asOfIndex[string] {
	entries := make([]asOfEntry[string], 0, len(dates))
	for _, d := range dates {
		entries = append(entries, asOfEntry[string]{date: MustDate(d), payload: d})
	}
	return newAsOfIndex(entries)
}

func TestResolvePicksGreatestDateNotAfter(t *testing.T) {
	ix := buildIndex("2025-05-01", "2025-05-08")

	payload, ok := ix.Resolve(MustDate("2025-05-05"))
	require.True(t, ok)
	assert.Equal(t, "2025-05-01", payload)
}

func TestResolveExactDate(t *testing.T) {
	ix := buildIndex("2025-05-01", "2025-05-08")

	payload, ok := ix.Resolve(MustDate("2025-05-08"))
	require.True(t, ok)
	assert.Equal(t, "2025-05-08", payload)
}

func TestResolveBeforeFirstEntry(t *testing.T) {
	ix := buildIndex("2025-05-01", "2025-05-08")

	_, ok := ix.Resolve(MustDate("2025-04-30"))
	assert.False(t, ok)
}

func TestResolveAfterLastEntry(t *testing.T) {
	ix := buildIndex("2025-05-01", "2025-05-08")

	payload, ok := ix.Resolve(MustDate("2025-12-31"))
	require.True(t, ok)
	assert.Equal(t, "2025-05-08", payload)
}

func TestResolveUnorderedInput(t *testing.T) {
	ix := buildIndex("2025-05-08", "2025-05-01", "2025-05-15")

	payload, ok := ix.Resolve(MustDate("2025-05-10"))
	require.True(t, ok)
	assert.Equal(t, "2025-05-08", payload)
}

func TestResolveDuplicateDateLaterWins(t *testing.T) {
	entries := []asOfEntry[string]{
		{date: MustDate("2025-05-01"), payload: "first"},
		{date: MustDate("2025-05-01"), payload: "second"},
	}
	ix := newAsOfIndex(entries)

	payload, ok := ix.Resolve(MustDate("2025-05-01"))
	require.True(t, ok)
	assert.Equal(t, "second", payload)
}

func TestBeforeReturnsOldestFirst(t *testing.T) {
	ix := buildIndex("2025-05-08", "2025-05-01", "2025-05-15")

	got := ix.Before(MustDate("2025-05-10"))
	assert.Equal(t, []string{"2025-05-01", "2025-05-08"}, got)
}

func TestBeforeEmptyWhenAllFuture(t *testing.T) {
	ix := buildIndex("2025-05-08")

	assert.Empty(t, ix.Before(MustDate("2025-05-01")))
}
