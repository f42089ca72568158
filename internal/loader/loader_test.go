package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecomparator/market-service/internal/market"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestParseFilename(t *testing.T) {
	info, ok := parseFilename("lidl_2025-05-01.csv")
	require.True(t, ok)
	assert.Equal(t, "Lidl", info.store)
	assert.Equal(t, market.MustDate("2025-05-01"), info.date)
	assert.False(t, info.isDiscount)
	assert.False(t, info.isXLSX)

	info, ok = parseFilename("profi_discounts_2025-05-08.csv")
	require.True(t, ok)
	assert.Equal(t, "Profi", info.store)
	assert.True(t, info.isDiscount)

	info, ok = parseFilename("mega_image_2025-05-01.xlsx")
	require.True(t, ok)
	assert.Equal(t, "Mega_image", info.store)
	assert.True(t, info.isXLSX)
}

func TestParseFilenameRejectsUnrecognized(t *testing.T) {
	for _, name := range []string{
		"readme.txt",
		"lidl.csv",
		"lidl_notadate.csv",
		"_2025-05-01.csv",
		"discounts_2025-05-01.csv",
	} {
		_, ok := parseFilename(name)
		assert.False(t, ok, name)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lidl_2025-05-01.csv",
		"id;name;category;brand;quantity;unit;price;currency\n"+
			"P001;Lapte zuzu;lactate;Zuzu;1;l;9.90;RON\n")
	writeFile(t, dir, "lidl_2025-05-08.csv",
		"id;name;category;brand;quantity;unit;price;currency\n"+
			"P001;Lapte zuzu;lactate;Zuzu;1;l;10.50;RON\n")
	writeFile(t, dir, "lidl_discounts_2025-05-08.csv",
		"product_id;product_name;brand;package_quantity;package_unit;product_category;from_date;to_date;percentage_of_discount\n"+
			"P001;Lapte zuzu;Zuzu;1;l;lactate;2025-05-10;2025-05-15;20\n")
	writeFile(t, dir, "notes.txt", "ignored")

	repo, err := New().LoadDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Lidl"}, repo.Stores())

	p, ok := repo.FindProduct("Lidl", "P001", market.MustDate("2025-05-05"))
	require.True(t, ok)
	assert.Equal(t, 9.90, p.Price)
	assert.Equal(t, market.MustDate("2025-05-01"), p.PublishedAt)

	offer, ok := repo.OfferAt("Lidl", "P001", market.MustDate("2025-05-12"))
	require.True(t, ok)
	assert.InDelta(t, 8.40, offer.Price, 1e-9)

	d, ok := repo.FindDiscount("Lidl", "P001", market.MustDate("2025-05-12"))
	require.True(t, ok)
	assert.Equal(t, market.MustDate("2025-05-08"), d.PublishedAt)
}

func TestLoadDirectoryDeterministicAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	header := "product_id;product_name;brand;package_quantity;package_unit;product_category;from_date;to_date;percentage_of_discount\n"
	// Two overlapping windows for the same product in separate files; the
	// earlier filename must win the tie every load.
	writeFile(t, dir, "lidl_discounts_2025-05-01.csv",
		header+"P001;Lapte;Zuzu;1;l;lactate;2025-05-01;2025-05-31;10\n")
	writeFile(t, dir, "lidl_discounts_2025-05-02.csv",
		header+"P001;Lapte;Zuzu;1;l;lactate;2025-05-01;2025-05-31;40\n")
	writeFile(t, dir, "lidl_2025-05-01.csv",
		"id;name;category;brand;quantity;unit;price;currency\n"+
			"P001;Lapte;lactate;Zuzu;1;l;10.00;RON\n")

	for i := 0; i < 5; i++ {
		repo, err := New(WithConcurrency(3)).LoadDirectory(context.Background(), dir)
		require.NoError(t, err)
		d, ok := repo.FindDiscount("Lidl", "P001", market.MustDate("2025-05-10"))
		require.True(t, ok)
		assert.Equal(t, 10, d.Percent)
	}
}

func TestLoadDirectoryEmpty(t *testing.T) {
	_, err := New().LoadDirectory(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestLoadDirectoryMissing(t *testing.T) {
	_, err := New().LoadDirectory(context.Background(), "/nonexistent/path")
	assert.Error(t, err)
}
